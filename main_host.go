//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"plcnode/app"
	"plcnode/hal"
	"plcnode/internal/config"
	"plcnode/kernel"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfgPath     string
		iterations  uint64
		metricsAddr string
		logLevel    string
	)
	flag.StringVar(&cfgPath, "config", "", "Config file (.json, .yaml or .toml). Defaults are used when empty.")
	flag.Uint64Var(&iterations, "iterations", 0, "Stop after N loop iterations (0 = use config, which defaults to forever).")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (overrides config).")
	flag.StringVar(&logLevel, "log-level", "", "Log level: trace|debug|info|warn|error (overrides config).")
	flag.Parse()

	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if iterations > 0 {
		cfg.Host.Iterations = iterations
	}
	if metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = metricsAddr
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := hal.NewHost(hal.HostConfig{
		EUI64:        cfg.Identity(),
		IdentityAddr: cfg.Node.IdentityAddr,
	})

	opts := app.OptionsFromConfig(cfg)
	opts.Halt = func(f kernel.Fault) {
		fmt.Fprintln(os.Stderr, "halted:", f)
		os.Exit(2)
	}
	n, err := app.New(h, opts)
	if err != nil {
		return err
	}

	hr := app.HostRun{Iterations: cfg.Host.Iterations}
	if cfg.Metrics.Enabled {
		ln, err := net.Listen("tcp", cfg.Metrics.Addr)
		if err != nil {
			return fmt.Errorf("metrics listen: %w", err)
		}
		hr.Metrics = ln
	}
	return app.RunHost(ctx, h, n, hr)
}
