// Command exporter serves the bees status files of one work directory as
// Prometheus metrics.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/vshulcz/bees-exporter/internal/config"
	"github.com/vshulcz/bees-exporter/internal/misc"
)

func main() {
	cfg, err := config.LoadExporterConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	logger, err := misc.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("exporter starting",
		zap.String("work_dir", cfg.WorkDir),
		zap.String("address", cfg.Address),
		zap.Bool("require_uuid", cfg.RequireUUID),
		zap.Bool("sandbox", cfg.Sandbox),
	)
	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("exporter failed", zap.Error(err))
	}
	logger.Info("exporter stopped")
}
