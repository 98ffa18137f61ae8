package domain

import (
	"context"
	"time"
)

// InformationRecord is an informational line written by a running command.
type InformationRecord struct {
	MessageData string
	Source      string
	Time        time.Time
}

func (r InformationRecord) String() string {
	return r.MessageData
}

// ProgressRecord reports the progress of an activity inside a running command.
type ProgressRecord struct {
	Activity          string
	StatusDescription string
	// PercentComplete is -1 when the activity does not report a percentage.
	PercentComplete int
}

// ErrorRecord is a failure reported by a running command.
type ErrorRecord struct {
	Err    error
	Target string
}

// Message returns the text of the underlying failure.
func (r ErrorRecord) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Streams holds the three output streams of one execution.
// The execution engine appends through Writer; the multiplexer drains
// the channels. Channels are closed by the owner once the engine returns.
type Streams struct {
	Information chan InformationRecord
	Progress    chan ProgressRecord
	Error       chan ErrorRecord
}

// NewStreams allocates a stream set with the given per-stream buffer.
func NewStreams(buffer int) *Streams {
	if buffer < 0 {
		buffer = 0
	}
	return &Streams{
		Information: make(chan InformationRecord, buffer),
		Progress:    make(chan ProgressRecord, buffer),
		Error:       make(chan ErrorRecord, buffer),
	}
}

// Writer returns the append-only view handed to execution engines.
func (s *Streams) Writer(ctx context.Context) StreamWriter {
	return StreamWriter{streams: s, ctx: ctx}
}

// Close closes all three streams. It must be called once, after the last write.
func (s *Streams) Close() {
	close(s.Information)
	close(s.Progress)
	close(s.Error)
}

// StreamWriter appends records to the streams of a running execution.
// Writes block while a stream buffer is full and give up once ctx is done.
type StreamWriter struct {
	streams *Streams
	ctx     context.Context
}

// Information appends r to the informational stream.
func (w StreamWriter) Information(r InformationRecord) bool {
	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	select {
	case w.streams.Information <- r:
		return true
	case <-w.ctx.Done():
		return false
	}
}

// Progress appends r to the progress stream.
func (w StreamWriter) Progress(r ProgressRecord) bool {
	select {
	case w.streams.Progress <- r:
		return true
	case <-w.ctx.Done():
		return false
	}
}

// Error appends r to the error stream.
func (w StreamWriter) Error(r ErrorRecord) bool {
	select {
	case w.streams.Error <- r:
		return true
	case <-w.ctx.Done():
		return false
	}
}
