// Package app wires the configured adapters into the container service
// shared by the API server and the terminal UI.
package app

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/melih/lighthouse-helper/internal/adapters/builder"
	"github.com/melih/lighthouse-helper/internal/adapters/docker"
	"github.com/melih/lighthouse-helper/internal/adapters/shell"
	"github.com/melih/lighthouse-helper/internal/config"
	"github.com/melih/lighthouse-helper/internal/core/executor"
	"github.com/melih/lighthouse-helper/internal/core/ports"
	"github.com/melih/lighthouse-helper/internal/core/services"
)

// App holds the wired components.
type App struct {
	Lane    *executor.Coordinator
	Service *services.Containers

	closers []func() error
}

// New builds the execution lanes and the container service described by cfg.
//
// The Docker SDK serves container logs and image builds when a client can be
// created; without one those operations report an error and everything else
// keeps working. With listing.source set to docker the client is required.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}

	shellOpts := cfg.ShellOptions()
	a.Lane = executor.New(shell.NewHost(shellOpts, logger.Named("host")), logger.Named("lane"), cfg.ExecutorOptions())

	var opts []services.Option
	dockerAdapter, err := docker.NewAdapter(logger.Named("docker"))
	if err != nil {
		if cfg.Listing.Source == config.ListingDocker {
			return nil, err
		}
		logger.Warn("docker unavailable, container logs disabled", zap.Error(err))
	} else {
		a.closers = append(a.closers, dockerAdapter.Close)
		opts = append(opts, services.WithLogs(dockerAdapter))
	}

	if b, err := builder.NewBuilderAdapter(logger.Named("builder")); err != nil {
		logger.Warn("docker unavailable, image builds disabled", zap.Error(err))
	} else {
		a.closers = append(a.closers, b.Close)
		opts = append(opts, services.WithBuilder(b))
	}

	var lister ports.ContainerLister
	switch cfg.Listing.Source {
	case config.ListingDocker:
		lister = dockerAdapter
	default:
		lister = services.NewShellLister(shell.NewQueryLane(shellOpts, logger.Named("query")), cfg.Listing.Command)
	}

	a.Service = services.NewContainers(a.Lane, lister, logger.Named("containers"), opts...)
	return a, nil
}

// Close cancels any command in flight and releases the Docker clients.
func (a *App) Close() error {
	a.Lane.Cancel()
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close: %w", err))
		}
	}
	return errors.Join(errs...)
}
