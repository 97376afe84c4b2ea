// Package config resolves exporter settings from flags and the environment.
package config

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/pflag"

	"github.com/vshulcz/bees-exporter/internal/misc"
)

const (
	defaultWorkDir            = "/run/bees"
	defaultListenAndServeAddr = ":8080"
	defaultLogLevel           = "info"
	defaultRequireUUID        = false
	defaultSandbox            = true
)

type ExporterConfig struct {
	WorkDir     string
	Address     string
	LogLevel    string
	RequireUUID bool
	Sandbox     bool
}

// CLI > ENV > defaults
func LoadExporterConfig(args []string, out io.Writer) (ExporterConfig, error) {
	if out == nil {
		out = io.Discard
	}

	fs := pflag.NewFlagSet("bees-exporter", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.SortFlags = false

	var cfg ExporterConfig
	fs.StringVarP(&cfg.WorkDir, "bees-work-dir", "d", defaultWorkDir, "bees work directory holding the *.status files (env BEES_WORK_DIR)")
	fs.StringVarP(&cfg.Address, "address", "a", defaultListenAndServeAddr, "HTTP listen address (env ADDRESS)")
	fs.StringVarP(&cfg.LogLevel, "log-level", "l", defaultLogLevel, "log level: debug, info, warn, error (env LOG_LEVEL)")
	fs.BoolVar(&cfg.RequireUUID, "require-uuid", defaultRequireUUID, "only export status files named after a filesystem UUID (env REQUIRE_UUID)")
	fs.BoolVar(&cfg.Sandbox, "sandbox", defaultSandbox, "restrict the process to reading the work directory with Landlock (env SANDBOX)")

	if err := fs.Parse(args); err != nil {
		return ExporterConfig{}, err
	}
	if fs.NArg() > 0 {
		return ExporterConfig{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if !fs.Changed("bees-work-dir") {
		cfg.WorkDir = misc.Getenv("BEES_WORK_DIR", defaultWorkDir)
	}
	if !fs.Changed("address") {
		cfg.Address = misc.Getenv("ADDRESS", defaultListenAndServeAddr)
	}
	if !fs.Changed("log-level") {
		cfg.LogLevel = misc.Getenv("LOG_LEVEL", defaultLogLevel)
	}
	if !fs.Changed("require-uuid") {
		cfg.RequireUUID = misc.GetBool("REQUIRE_UUID", defaultRequireUUID)
	}
	if !fs.Changed("sandbox") {
		cfg.Sandbox = misc.GetBool("SANDBOX", defaultSandbox)
	}

	cfg.WorkDir = strings.TrimSpace(cfg.WorkDir)
	if cfg.WorkDir == "" {
		return ExporterConfig{}, fmt.Errorf("empty bees work directory")
	}

	cfg.Address = normalizeListenAndServeURL(cfg.Address)
	if _, port, err := net.SplitHostPort(cfg.Address); err != nil || port == "" {
		return ExporterConfig{}, fmt.Errorf("invalid listen address: %q", cfg.Address)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ExporterConfig{}, fmt.Errorf("invalid log level: %q", cfg.LogLevel)
	}

	return cfg, nil
}

func normalizeListenAndServeURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultListenAndServeAddr
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		if u, err := url.Parse(s); err == nil && u.Host != "" {
			return u.Host
		}
	}
	if !strings.Contains(s, ":") {
		return ":" + s
	}
	return s
}
