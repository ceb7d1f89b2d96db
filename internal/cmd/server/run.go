// Package serverrun boots the broker: runtime, gRPC server, and admin
// HTTP server, running until the context is cancelled or a signal arrives.
package serverrun

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	cfgpkg "github.com/courier-mq/courier/internal/config"
	"github.com/courier-mq/courier/internal/runtime"
	grpcserver "github.com/courier-mq/courier/internal/server/grpc"
	httpserver "github.com/courier-mq/courier/internal/server/http"
	logpkg "github.com/courier-mq/courier/pkg/log"
)

// Run starts the gRPC and HTTP servers and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg cfgpkg.Config) error {
	// Layer a local signal context over the provided one so callers
	// without signal handling still shut down cleanly.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logpkg.FromConfig(cfg.Log)
	logpkg.RedirectStdLog(logger)

	if cfg.DataDir == "" {
		cfg.DataDir = cfgpkg.DefaultDataDir()
	}
	cfg.DataDir = filepath.Join(cfg.DataDir, "store")
	rt, err := runtime.Open(runtime.Options{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.Info("starting courier broker",
		logpkg.Str("grpc", cfg.GRPCAddr),
		logpkg.Str("http", cfg.HTTPAddr),
		logpkg.Str("data_dir", cfg.DataDir),
		logpkg.Str("fsync", cfg.Fsync),
	)

	gsrv := grpcserver.New(rt)
	hsrv := httpserver.New(rt)

	g, gctx := errgroup.WithContext(sctx)
	g.Go(func() error { return gsrv.ListenAndServe(gctx, cfg.GRPCAddr) })
	g.Go(func() error { return hsrv.ListenAndServe(gctx, cfg.HTTPAddr) })

	err = g.Wait()
	// Shut the servers down before closing the runtime to avoid serving
	// from a closed store.
	gsrv.Close()
	hsrv.Close()
	if err != nil && sctx.Err() == nil {
		return err
	}
	return nil
}
