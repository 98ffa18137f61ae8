// Package shell runs scripts through an external shell such as pwsh or sh.
//
// Host streams a running script's output into the execution lane:
// stdout lines become informational records (or progress records when they
// carry the progress prefix) and stderr lines become error records.
// QueryLane runs short queries synchronously and returns their output.
package shell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/melih/lighthouse-helper/internal/core/domain"
)

const (
	// DefaultProgram is the shell used when none is configured.
	DefaultProgram = "pwsh"
	// DefaultProgressPrefix marks stdout lines that report progress.
	DefaultProgressPrefix = "PROGRESS:"

	maxLineSize = 1024 * 1024
	waitDelay   = 5 * time.Second
)

// DefaultArgs are passed to DefaultProgram ahead of the script text.
var DefaultArgs = []string{"-NoProfile", "-NonInteractive", "-Command"}

// Options selects the shell and how its output is interpreted.
type Options struct {
	Program        string
	Args           []string
	ProgressPrefix string
}

func (o Options) withDefaults() Options {
	if o.Program == "" {
		o.Program = DefaultProgram
	}
	if o.Args == nil {
		o.Args = defaultArgsFor(o.Program)
	}
	if o.ProgressPrefix == "" {
		o.ProgressPrefix = DefaultProgressPrefix
	}
	return o
}

// defaultArgsFor returns the flags that make program run its last argument
// as a script, or nil for shells it does not know.
func defaultArgsFor(program string) []string {
	name := program
	if i := strings.LastIndexAny(program, `/\`); i >= 0 {
		name = program[i+1:]
	}
	name = strings.TrimSuffix(strings.ToLower(name), ".exe")
	switch name {
	case "pwsh", "powershell":
		return DefaultArgs
	case "sh", "bash", "zsh", "dash", "ash":
		return []string{"-c"}
	case "cmd":
		return []string{"/C"}
	default:
		return nil
	}
}

// command builds the process for script. Args are copied so concurrent
// calls never share a backing array.
func (o Options) command(ctx context.Context, script string) *exec.Cmd {
	args := make([]string, 0, len(o.Args)+1)
	args = append(args, o.Args...)
	args = append(args, script)
	cmd := exec.CommandContext(ctx, o.Program, args...)
	cmd.WaitDelay = waitDelay
	return cmd
}

// Host implements ports.ScriptHost on top of os/exec.
type Host struct {
	opts   Options
	logger *zap.Logger
}

// NewHost creates a script host.
func NewHost(opts Options, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{opts: opts.withDefaults(), logger: logger}
}

// Invoke runs script and blocks until the process exits and all of its
// output has been appended to out.
func (h *Host) Invoke(ctx context.Context, script string, out domain.StreamWriter) error {
	cmd := h.opts.command(ctx, script)

	// Pipes are owned here rather than by exec so that Wait, bounded by
	// WaitDelay, returns even if a grandchild keeps the descriptors open.
	stdout, stdoutW := io.Pipe()
	stderr, stderrW := io.Pipe()
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", h.opts.Program, err)
	}
	h.logger.Debug("script started", zap.String("program", h.opts.Program), zap.Int("pid", cmd.Process.Pid))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		h.readOutput(stdout, out)
	}()
	go func() {
		defer wg.Done()
		h.readErrors(stderr, out)
	}()

	waitErr := cmd.Wait()
	stdoutW.Close()
	stderrW.Close()
	wg.Wait()
	h.logger.Debug("script exited",
		zap.String("program", h.opts.Program),
		zap.Duration("duration", time.Since(start)),
		zap.Error(waitErr),
	)

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return fmt.Errorf("script exited with code %d", exitErr.ExitCode())
		}
		return fmt.Errorf("script failed: %w", waitErr)
	}
	return nil
}

func (h *Host) readOutput(r io.Reader, out domain.StreamWriter) {
	scanLines(r, func(line string) {
		if rest, ok := strings.CutPrefix(line, h.opts.ProgressPrefix); ok {
			out.Progress(parseProgress(rest))
			return
		}
		out.Information(domain.InformationRecord{MessageData: line, Source: "stdout"})
	})
}

func (h *Host) readErrors(r io.Reader, out domain.StreamWriter) {
	scanLines(r, func(line string) {
		out.Error(domain.ErrorRecord{Err: errors.New(line), Target: "stderr"})
	})
}

// parseProgress reads "<activity>|<status>" or a bare status. A trailing
// "NN%" on the status is taken as the completion percentage.
func parseProgress(text string) domain.ProgressRecord {
	rec := domain.ProgressRecord{PercentComplete: -1}
	text = strings.TrimSpace(text)
	if activity, status, ok := strings.Cut(text, "|"); ok {
		rec.Activity = strings.TrimSpace(activity)
		text = strings.TrimSpace(status)
	}
	rec.StatusDescription = text

	if fields := strings.Fields(text); len(fields) > 0 {
		last := fields[len(fields)-1]
		var pct int
		if strings.HasSuffix(last, "%") {
			if _, err := fmt.Sscanf(last, "%d%%", &pct); err == nil && pct >= 0 && pct <= 100 {
				rec.PercentComplete = pct
			}
		}
	}
	return rec
}

// scanLines calls fn for every non-blank line of r. Lines longer than
// maxLineSize are delivered in maxLineSize pieces. The reader is drained
// even after a read error so the process never blocks on a full pipe.
func scanLines(r io.Reader, fn func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	scanner.Split(splitLines)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fn(line)
	}
	if scanner.Err() != nil {
		_, _ = io.Copy(io.Discard, r)
	}
}

// splitLines is bufio.ScanLines that cuts a line at maxLineSize instead of
// failing with bufio.ErrTooLong.
func splitLines(data []byte, atEOF bool) (int, []byte, error) {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if len(data) >= maxLineSize {
		return maxLineSize, data[:maxLineSize], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
