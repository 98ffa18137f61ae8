package ports

import (
	"context"

	"github.com/melih/lighthouse-helper/internal/core/domain"
)

// BuilderService defines operations for building container images from source code.
type BuilderService interface {
	// BuildImage clones a repository and builds a Docker image from it.
	// Clone and build output is appended to out as it arrives.
	BuildImage(ctx context.Context, repoURL, imageName string, out domain.StreamWriter) error
}
