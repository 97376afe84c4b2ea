package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vshulcz/bees-exporter/internal/adapters/collector/prom"
	"github.com/vshulcz/bees-exporter/internal/adapters/http/ginserver"
	"github.com/vshulcz/bees-exporter/internal/adapters/http/ginserver/middlewares"
	"github.com/vshulcz/bees-exporter/internal/adapters/source/fsdir"
	"github.com/vshulcz/bees-exporter/internal/config"
	"github.com/vshulcz/bees-exporter/internal/sandbox"
	"github.com/vshulcz/bees-exporter/internal/services/aggregate"
)

const shutdownTimeout = 5 * time.Second

func run(ctx context.Context, cfg config.ExporterConfig, logger *zap.Logger) error {
	h, err := newHandler(cfg, logger)
	if err != nil {
		return err
	}

	// Bind before the sandbox goes up: resolving a host name reads /etc.
	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Address, err)
	}

	if cfg.Sandbox {
		applySandbox(cfg.WorkDir, logger)
	}

	return serve(ctx, &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(logger.Named("http")),
	}, ln, logger)
}

func newHandler(cfg config.ExporterConfig, logger *zap.Logger) (http.Handler, error) {
	dir, err := fsdir.Open(cfg.WorkDir)
	if err != nil {
		return nil, err
	}

	svc := aggregate.New(dir, logger, aggregate.Options{RequireUUID: cfg.RequireUUID})
	reg, err := prom.NewRegistry(prom.New(svc, logger))
	if err != nil {
		return nil, err
	}

	h := ginserver.NewHandler(svc, prom.Handler(reg, logger))
	return ginserver.NewRouter(h, middlewares.ZapLogger(logger)), nil
}

func applySandbox(dir string, logger *zap.Logger) {
	st, err := sandbox.Restrict(dir)
	switch {
	case err != nil:
		logger.Warn("sandbox not applied", zap.Error(err))
	case st != sandbox.Enforced:
		logger.Warn("sandbox unsupported by this kernel, running unconfined")
	default:
		logger.Info("sandbox enforced", zap.String("readable", dir), zap.Int("landlock_abi", sandbox.ABI()))
	}
}

func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("address", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
