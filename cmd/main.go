package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yungbote/stylepath-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()
	a.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run() }()

	select {
	case err := <-errCh:
		if err != nil {
			a.Log.Error("server exited", "error", err)
			a.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		a.Log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := a.Shutdown(shutdownCtx); err != nil {
			a.Log.Warn("graceful shutdown failed", "error", err)
		}
	}
}
