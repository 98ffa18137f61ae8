package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/melih/lighthouse-helper/internal/adapters/logger"
	"github.com/melih/lighthouse-helper/internal/adapters/tui"
	"github.com/melih/lighthouse-helper/internal/app"
	"github.com/melih/lighthouse-helper/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, logFile string

	flagSet := pflag.NewFlagSet("lighthouse-tui", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to the YAML config file (default: $"+config.EnvVar+")")
	flagSet.StringVar(&logFile, "log-file", "lighthouse-tui.log", "file to write logs to while the UI owns the terminal")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Log.File == "" {
		cfg.Log.File = logFile
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	return tui.Run(ctx, a.Service, a.Lane)
}
