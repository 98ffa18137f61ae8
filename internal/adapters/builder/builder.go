package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/go-git/go-git/v5"
	"go.uber.org/zap"

	"github.com/melih/lighthouse-helper/internal/core/domain"
)

// Adapter implements ports.BuilderService: it clones a repository and
// builds an image from its Dockerfile, streaming both steps' output.
type Adapter struct {
	cli    *client.Client
	logger *zap.Logger
}

func NewBuilderAdapter(logger *zap.Logger) (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{cli: cli, logger: logger}, nil
}

func (a *Adapter) Close() error {
	return a.cli.Close()
}

// BuildImage clones a repo and builds a Docker image
func (a *Adapter) BuildImage(ctx context.Context, repoURL, imageName string, out domain.StreamWriter) error {
	// 1. Create temporary directory
	tmpDir, err := os.MkdirTemp("", "lighthouse-build-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir) // Clean up after build

	// 2. Clone Repository
	out.Information(domain.InformationRecord{MessageData: fmt.Sprintf("Cloning %s", repoURL), Source: "git"})
	progress := newProgressWriter("clone", out)
	_, err = git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
		URL:      repoURL,
		Progress: progress,
		Depth:    1, // Shallow clone for speed
	})
	progress.Flush()
	if err != nil {
		return fmt.Errorf("failed to clone repo: %w", err)
	}

	// 3. Create Build Context (Tar)
	tar, err := archive.TarWithOptions(tmpDir, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("failed to create build context: %w", err)
	}
	defer tar.Close()

	// 4. Build Docker Image
	out.Information(domain.InformationRecord{MessageData: fmt.Sprintf("Building Docker image: %s", imageName), Source: "docker"})
	resp, err := a.cli.ImageBuild(ctx, tar, types.ImageBuildOptions{
		Tags:       []string{imageName},
		Dockerfile: "Dockerfile",
		Remove:     true, // Remove intermediate containers
	})
	if err != nil {
		return fmt.Errorf("failed to build image: %w", err)
	}
	defer resp.Body.Close()

	// The build only finishes once its output has been read completely.
	failures, err := decodeBuildOutput(resp.Body, imageName, out)
	if err != nil {
		return fmt.Errorf("failed to read build output: %w", err)
	}
	a.logger.Info("image build finished", zap.String("image", imageName), zap.Int("errors", failures))
	return nil
}

// decodeBuildOutput turns the JSON message stream of an image build into
// stream records and returns how many error records it produced.
func decodeBuildOutput(r io.Reader, imageName string, out domain.StreamWriter) (int, error) {
	failures := 0
	dec := json.NewDecoder(r)
	for {
		var msg jsonmessage.JSONMessage
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				return failures, nil
			}
			return failures, err
		}

		switch {
		case msg.Error != nil:
			out.Error(domain.ErrorRecord{Err: msg.Error, Target: imageName})
			failures++
		case msg.ErrorMessage != "":
			out.Error(domain.ErrorRecord{Err: errors.New(msg.ErrorMessage), Target: imageName})
			failures++
		case msg.Stream != "":
			for _, line := range strings.Split(msg.Stream, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					out.Information(domain.InformationRecord{MessageData: line, Source: "docker"})
				}
			}
		case msg.Status != "":
			out.Progress(progressFromMessage(msg))
		}
	}
}

func progressFromMessage(msg jsonmessage.JSONMessage) domain.ProgressRecord {
	rec := domain.ProgressRecord{Activity: msg.ID, StatusDescription: msg.Status, PercentComplete: -1}
	if msg.Progress != nil {
		if msg.Progress.Total > 0 {
			rec.PercentComplete = int(msg.Progress.Current * 100 / msg.Progress.Total)
		}
		if s := msg.Progress.String(); s != "" {
			rec.StatusDescription = msg.Status + " " + s
		}
	}
	return rec
}
