// Package executor runs mutating commands on a single-flight lane and
// streams their output to subscribers.
//
// At most one command runs at a time. A submission made while the lane is
// running is rejected with a busy notification, never queued. Every accepted
// submission produces exactly one start and one end notification, with all
// of its streamed messages and errors in between. The lane is free again
// by the time end is dispatched, so the next submission's start may reach
// subscribers before the previous end.
package executor

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/melih/lighthouse-helper/internal/core/domain"
	"github.com/melih/lighthouse-helper/internal/core/ports"
)

const (
	DefaultBusyMessage                = "Please wait for the previous task to finish."
	DefaultCompletedWithErrorsMessage = "The script completed with errors."
	DefaultImportDirective            = "Import-Module navcontainerhelper"
	DefaultBufferSize                 = 64

	cancelledMessage = "Execution was cancelled."
)

// Options configures a Coordinator. Zero fields take the defaults above.
type Options struct {
	ImportDirective            string
	DisableImport              bool
	BufferSize                 int
	BusyMessage                string
	CompletedWithErrorsMessage string
}

func (o Options) withDefaults() Options {
	if o.ImportDirective == "" {
		o.ImportDirective = DefaultImportDirective
	}
	if o.BufferSize <= 0 {
		o.BufferSize = DefaultBufferSize
	}
	if o.BusyMessage == "" {
		o.BusyMessage = DefaultBusyMessage
	}
	if o.CompletedWithErrorsMessage == "" {
		o.CompletedWithErrorsMessage = DefaultCompletedWithErrorsMessage
	}
	return o
}

// Job is in-process work run on the lane in place of a script.
type Job func(ctx context.Context, out domain.StreamWriter) error

// SubmitOption adjusts a single submission.
type SubmitOption func(*submitConfig)

type submitConfig struct {
	importHelper bool
}

// WithoutHelperModule skips the module import directive normally
// prepended to a submitted command.
func WithoutHelperModule() SubmitOption {
	return func(c *submitConfig) {
		c.importHelper = false
	}
}

// Coordinator owns the asynchronous execution lane.
type Coordinator struct {
	host      ports.ScriptHost
	logger    *zap.Logger
	opts      Options
	observers observerSet
	mux       Multiplexer

	state atomic.Int32

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates a coordinator that runs scripts on host.
func New(host ports.ScriptHost, logger *zap.Logger, opts Options) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{
		host:   host,
		logger: logger,
		opts:   opts.withDefaults(),
	}
	c.mux = Multiplexer{out: &c.observers}
	return c
}

// Subscribe registers o for lane notifications.
func (c *Coordinator) Subscribe(o ports.Observer) func() {
	return c.observers.add(o)
}

// State reports whether a command is in flight.
func (c *Coordinator) State() domain.LaneState {
	return domain.LaneState(c.state.Load())
}

// Busy is shorthand for State() == domain.LaneRunning.
func (c *Coordinator) Busy() bool {
	return c.State() == domain.LaneRunning
}

// Submit runs command on the lane and blocks until it finishes or is rejected.
func (c *Coordinator) Submit(ctx context.Context, command string, opts ...SubmitOption) domain.Result {
	results, _ := c.SubmitAsync(ctx, command, opts...)
	return <-results
}

// SubmitAsync decides synchronously whether command is accepted and runs it
// on a worker goroutine. The result is delivered on the returned channel,
// which is buffered and receives exactly one value.
func (c *Coordinator) SubmitAsync(ctx context.Context, command string, opts ...SubmitOption) (<-chan domain.Result, bool) {
	cfg := submitConfig{importHelper: !c.opts.DisableImport}
	for _, opt := range opts {
		opt(&cfg)
	}
	script := c.script(command, cfg)

	return c.RunAsync(ctx, command, func(ctx context.Context, out domain.StreamWriter) error {
		return c.host.Invoke(ctx, script, out)
	})
}

// Run executes job on the lane and blocks until it finishes or is rejected.
// label is what subscribers see in the start notification.
func (c *Coordinator) Run(ctx context.Context, label string, job Job) domain.Result {
	results, _ := c.RunAsync(ctx, label, job)
	return <-results
}

// RunAsync is the non-blocking form of Run.
func (c *Coordinator) RunAsync(ctx context.Context, label string, job Job) (<-chan domain.Result, bool) {
	results := make(chan domain.Result, 1)

	// The state flip and the cancel func change together under mu, so
	// Cancel never sees a running lane without a way to stop it.
	runCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if !c.state.CompareAndSwap(int32(domain.LaneIdle), int32(domain.LaneRunning)) {
		c.mu.Unlock()
		cancel()
		c.logger.Warn("submission rejected, lane busy", zap.String("command", label))
		c.observers.error(c.opts.BusyMessage)
		results <- domain.Result{Accepted: false, Outcome: domain.OutcomeRejected, Err: domain.ErrBusy}
		return results, false
	}
	c.cancel = cancel
	c.mu.Unlock()

	c.logger.Info("command started", zap.String("command", label))
	c.observers.start(label)

	go func() {
		results <- c.execute(runCtx, label, job)
	}()
	return results, true
}

// Cancel terminates the command in flight, if any. A command accepted
// before Cancel is called is always cancelled.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		c.logger.Info("cancelling running command")
		cancel()
	}
}

func (c *Coordinator) execute(ctx context.Context, label string, job Job) domain.Result {
	streams := domain.NewStreams(c.opts.BufferSize)
	done := make(chan error, 1)
	go func() {
		defer streams.Close()
		done <- job(ctx, streams.Writer(ctx))
	}()

	tally := c.mux.Drain(streams)
	jobErr := <-done

	cancelled := ctx.Err() != nil
	result := domain.Result{Accepted: true, Outcome: domain.OutcomeCompleted}
	switch {
	case cancelled:
		c.observers.error(cancelledMessage)
		result.Outcome = domain.OutcomeCancelled
		result.Err = context.Cause(ctx)
	case jobErr != nil:
		c.observers.error(jobErr.Error())
		if tally.Errors == 0 {
			tally.FirstError = jobErr.Error()
		}
		tally.Errors++
	}
	if tally.Errors > 0 {
		c.observers.error(c.opts.CompletedWithErrorsMessage)
		if result.Outcome == domain.OutcomeCompleted {
			result.Outcome = domain.OutcomeFailed
			result.Err = &domain.ExecutionError{Errors: tally.Errors, First: tally.FirstError}
		}
	}

	c.mu.Lock()
	c.cancel()
	c.cancel = nil
	c.state.Store(int32(domain.LaneIdle))
	c.mu.Unlock()

	c.logger.Info("command finished",
		zap.String("command", label),
		zap.Stringer("outcome", result.Outcome),
		zap.Int("messages", tally.Messages),
		zap.Int("errors", tally.Errors),
	)
	c.observers.end()
	return result
}

func (c *Coordinator) script(command string, cfg submitConfig) string {
	var sb strings.Builder
	if cfg.importHelper && c.opts.ImportDirective != "" {
		sb.WriteString(c.opts.ImportDirective)
		sb.WriteString("\n")
	}
	sb.WriteString(command)
	sb.WriteString("\n")
	return sb.String()
}
