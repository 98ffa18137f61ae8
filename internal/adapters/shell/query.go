package shell

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// QueryLane implements ports.QueryRunner. Each call starts its own process
// and blocks until it exits, so queries never wait on a running script.
type QueryLane struct {
	opts   Options
	logger *zap.Logger
}

// NewQueryLane creates a synchronous query lane.
func NewQueryLane(opts Options, logger *zap.Logger) *QueryLane {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryLane{opts: opts.withDefaults(), logger: logger}
}

// Query runs command and returns its stdout split into lines. A command
// that prints nothing yields an empty slice.
func (q *QueryLane) Query(ctx context.Context, command string) ([]string, error) {
	cmd := q.opts.command(ctx, command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("query failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("query failed: %w", err)
	}

	output := strings.TrimRight(stdout.String(), "\r\n")
	if output == "" {
		return []string{}, nil
	}
	lines := strings.Split(output, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	q.logger.Debug("query finished", zap.Int("lines", len(lines)))
	return lines, nil
}
