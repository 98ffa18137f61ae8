// Package services composes the execution lanes into the container
// operations offered to the HTTP API and the terminal UI.
package services

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/melih/lighthouse-helper/internal/core/commands"
	"github.com/melih/lighthouse-helper/internal/core/domain"
	"github.com/melih/lighthouse-helper/internal/core/executor"
	"github.com/melih/lighthouse-helper/internal/core/ports"
)

// LogSource streams the logs of a container.
type LogSource interface {
	GetContainerLogs(ctx context.Context, id string) (io.ReadCloser, error)
}

// Containers implements ports.ContainerService.
type Containers struct {
	lane    *executor.Coordinator
	lister  ports.ContainerLister
	builder ports.BuilderService
	logs    LogSource
	logger  *zap.Logger
}

// Option configures optional collaborators of Containers.
type Option func(*Containers)

// WithBuilder enables BuildImage.
func WithBuilder(b ports.BuilderService) Option {
	return func(c *Containers) { c.builder = b }
}

// WithLogs enables GetContainerLogs.
func WithLogs(l LogSource) Option {
	return func(c *Containers) { c.logs = l }
}

// NewContainers wires the single-flight lane and a listing source together.
func NewContainers(lane *executor.Coordinator, lister ports.ContainerLister, logger *zap.Logger, opts ...Option) *Containers {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Containers{lane: lane, lister: lister, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListContainers returns a fresh snapshot from the listing source.
func (c *Containers) ListContainers(ctx context.Context) ([]domain.Container, error) {
	containers, err := c.lister.ListContainers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	return containers, nil
}

// Perform submits a lifecycle action for the named container.
func (c *Containers) Perform(ctx context.Context, action domain.Action, name string) (<-chan domain.Result, bool) {
	script, err := commands.Lifecycle(action, name)
	if err != nil {
		return failed(err), false
	}
	return c.lane.SubmitAsync(ctx, script)
}

// CreateContainer submits the provisioning of a new container.
func (c *Containers) CreateContainer(ctx context.Context, req domain.CreateRequest) (<-chan domain.Result, bool) {
	script, err := commands.Create(req)
	if err != nil {
		return failed(err), false
	}
	return c.lane.SubmitAsync(ctx, script)
}

// BuildImage runs an image build from source on the lane.
func (c *Containers) BuildImage(ctx context.Context, repoURL, imageName string) (<-chan domain.Result, bool) {
	if c.builder == nil {
		return failed(fmt.Errorf("image builds are not enabled")), false
	}
	if repoURL == "" || imageName == "" {
		return failed(fmt.Errorf("repository URL and image name are required")), false
	}
	label := fmt.Sprintf("build %s from %s", imageName, repoURL)
	return c.lane.RunAsync(ctx, label, func(ctx context.Context, out domain.StreamWriter) error {
		return c.builder.BuildImage(ctx, repoURL, imageName, out)
	})
}

// GetContainerLogs streams the logs of the container with the given id.
func (c *Containers) GetContainerLogs(ctx context.Context, id string) (io.ReadCloser, error) {
	if c.logs == nil {
		return nil, fmt.Errorf("container logs are not available")
	}
	return c.logs.GetContainerLogs(ctx, id)
}

// failed reports a submission refused before it reached the lane.
func failed(err error) <-chan domain.Result {
	results := make(chan domain.Result, 1)
	results <- domain.Result{Outcome: domain.OutcomeRejected, Err: err}
	return results
}

// ShellLister lists containers by running the listing query on the
// synchronous lane and parsing its output.
type ShellLister struct {
	query   ports.QueryRunner
	command string
}

// NewShellLister uses command, or commands.ListContainers when empty.
func NewShellLister(query ports.QueryRunner, command string) *ShellLister {
	if command == "" {
		command = commands.ListContainers
	}
	return &ShellLister{query: query, command: command}
}

func (l *ShellLister) ListContainers(ctx context.Context) ([]domain.Container, error) {
	lines, err := l.query.Query(ctx, l.command)
	if err != nil {
		return nil, err
	}
	return domain.ParseListing(lines)
}
