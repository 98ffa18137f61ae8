package docker

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"go.uber.org/zap"

	"github.com/melih/lighthouse-helper/internal/core/domain"
)

// Adapter lists containers and reads their logs through the Docker SDK.
// It implements ports.ContainerLister as an alternative to the shell query lane.
type Adapter struct {
	cli    *client.Client
	logger *zap.Logger
}

// NewAdapter creates a new Docker adapter instance
func NewAdapter(logger *zap.Logger) (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{cli: cli, logger: logger}, nil
}

// Close releases the underlying client.
func (a *Adapter) Close() error {
	return a.cli.Close()
}

// ListContainers returns every container, running or not, classified the
// same way as the shell listing.
func (a *Adapter) ListContainers(ctx context.Context) ([]domain.Container, error) {
	summaries, err := a.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	result := make([]domain.Container, 0, len(summaries))
	for _, s := range summaries {
		c, err := fromSummary(s)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	a.logger.Debug("listed containers", zap.Int("count", len(result)))
	return result, nil
}

func fromSummary(s types.Container) (domain.Container, error) {
	id := s.ID
	if len(id) > 12 {
		id = id[:12] // Short ID, as printed by docker ps
	}
	name := ""
	if len(s.Names) > 0 {
		name = strings.TrimPrefix(s.Names[0], "/")
	}
	if id == "" || name == "" {
		return domain.Container{}, fmt.Errorf("%w: container %q has no id or name", domain.ErrMalformedListingLine, s.ID)
	}
	return domain.NewContainer(id, name, s.Status)
}

// GetContainerLogs returns the combined stdout and stderr of a container.
// Multiplexed streams of non-TTY containers are demultiplexed into plain text.
func (a *Adapter) GetContainerLogs(ctx context.Context, id string) (io.ReadCloser, error) {
	info, err := a.cli.ContainerInspect(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect container: %w", err)
	}

	options := container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     false,
		Timestamps: true,
	}
	logs, err := a.cli.ContainerLogs(ctx, id, options)
	if err != nil {
		return nil, fmt.Errorf("failed to read container logs: %w", err)
	}
	if info.Config != nil && info.Config.Tty {
		return logs, nil
	}

	pr, pw := io.Pipe()
	go func() {
		defer logs.Close()
		_, err := stdcopy.StdCopy(pw, pw, logs)
		pw.CloseWithError(err)
	}()
	return pr, nil
}
