package ports

import (
	"context"
	"io"

	"github.com/melih/lighthouse-helper/internal/core/domain"
)

// ContainerLister returns a fresh snapshot of the containers known to the runtime.
// Both the shell query lane and the Docker SDK can back it.
type ContainerLister interface {
	ListContainers(ctx context.Context) ([]domain.Container, error)
}

// ContainerService defines the container operations offered to callers.
// Mutating operations go through the single-flight lane: they report
// acceptance immediately and deliver their result on the returned channel.
type ContainerService interface {
	ContainerLister
	Perform(ctx context.Context, action domain.Action, name string) (<-chan domain.Result, bool)
	CreateContainer(ctx context.Context, req domain.CreateRequest) (<-chan domain.Result, bool)
	BuildImage(ctx context.Context, repoURL, imageName string) (<-chan domain.Result, bool)
	GetContainerLogs(ctx context.Context, id string) (io.ReadCloser, error)
}
