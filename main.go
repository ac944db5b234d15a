package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"leaderboard-server/api"
	"leaderboard-server/config"
	"leaderboard-server/loghandler"
	"leaderboard-server/storage"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stderr, cfg.SlogLevel())))
	if envErr != nil {
		slog.Debug("no .env file found; using environment variables", "tag", "main")
	}

	// The store is opened on the first request and reused by every later invocation
	// in this process.
	store := storage.NewLazyStore(storage.Open(cfg))
	h := api.NewHandler(store)

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		slog.Info("starting Lambda handler", "tag", "main", "backend", cfg.Backend)
		lambda.Start(h.Handle)
		return
	}

	if err := serve(cfg, h, store); err != nil {
		slog.Error("server stopped", "tag", "main", "err", err)
		os.Exit(1)
	}
}

// serve runs the handler on a local HTTP listener until SIGINT/SIGTERM.
func serve(cfg *config.Config, h http.Handler, store *storage.LazyStore) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer store.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("leaderboard listening", "tag", "main", "addr", srv.Addr, "backend", cfg.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
