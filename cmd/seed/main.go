package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/stylepath-backend/internal/app"
	"github.com/yungbote/stylepath-backend/internal/catalog"
)

func main() {
	var file string
	var dryRun bool
	flag.StringVar(&file, "file", "", "catalog YAML to import (defaults to the bundled sample)")
	flag.BoolVar(&dryRun, "dry-run", false, "validate the catalog without writing")
	flag.Parse()

	c, err := catalog.Load(file)
	if err != nil {
		fmt.Printf("load catalog: %v\n", err)
		os.Exit(1)
	}
	if dryRun {
		fmt.Printf("catalog ok: styles=%d courses=%d\n", len(c.Styles), len(c.Courses))
		return
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	stats, err := application.Services.Catalog.Import(context.Background(), c)
	if err != nil {
		fmt.Printf("import catalog: %v\n", err)
		application.Close()
		os.Exit(1)
	}
	fmt.Printf("imported %s\n", stats)
}
