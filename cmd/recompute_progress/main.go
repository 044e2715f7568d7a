package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/stylepath-backend/internal/app"
	"github.com/yungbote/stylepath-backend/internal/pkg/dbctx"
)

func main() {
	var pageSize int
	var workers int
	var dryRun bool
	flag.IntVar(&pageSize, "page", 500, "enrollments fetched per page")
	flag.IntVar(&workers, "workers", 4, "concurrent recomputations")
	flag.BoolVar(&dryRun, "dry-run", false, "count enrollments without writing")
	flag.Parse()
	if pageSize <= 0 {
		pageSize = 500
	}
	if workers <= 0 {
		workers = 1
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()
	dbc := dbctx.With(ctx)

	var seen, changed, failed int64
	after := uuid.Nil
	for {
		page, err := application.Repos.Enrollment.ListPage(dbc, after, pageSize)
		if err != nil {
			fmt.Printf("list enrollments: %v\n", err)
			application.Close()
			os.Exit(1)
		}
		if len(page) == 0 {
			break
		}
		after = page[len(page)-1].ID

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, e := range page {
			if e == nil {
				continue
			}
			seen++
			if dryRun {
				continue
			}
			g.Go(func() error {
				pct, err := application.Services.Progress.Recompute(gctx, e.LearnerID, e.CourseID)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					application.Log.Warn("recompute failed", "learner_id", e.LearnerID, "course_id", e.CourseID, "error", err)
					return nil
				}
				if pct != e.ProgressPercentage {
					atomic.AddInt64(&changed, 1)
				}
				return nil
			})
		}
		_ = g.Wait()
		if len(page) < pageSize {
			break
		}
	}
	fmt.Printf("enrollments=%d changed=%d failed=%d dry_run=%v\n", seen, changed, failed, dryRun)
}
