package domain

import "time"

// EventKind identifies a notification published by the execution lane.
type EventKind int

const (
	// EventStart opens a submission. Text carries the submitted command.
	EventStart EventKind = iota
	// EventMessage carries an informational or progress line.
	EventMessage
	// EventError carries an error line or a lane-level failure notice.
	EventError
	// EventEnd closes a submission. Text is empty.
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventMessage:
		return "message"
	case EventError:
		return "error"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is one notification as seen by a subscriber.
//
// For every accepted submission subscribers observe:
//
//	Start → (Message | Error)* → End
//
// A rejected submission produces a single Error and nothing else.
//
// The lane is released just before End is dispatched, so a submission
// accepted in that gap may deliver its Start before the previous End.
// Bracketing holds per submission; across submissions the stream can
// interleave at that one boundary. Consumers tracking a single run should
// pair each End with the earliest unmatched Start.
type Event struct {
	Kind EventKind `json:"kind"`
	Text string    `json:"text,omitempty"`
	Time time.Time `json:"time"`
}

// LaneState is the state of the asynchronous execution lane.
type LaneState int32

const (
	LaneIdle LaneState = iota
	LaneRunning
)

func (s LaneState) String() string {
	if s == LaneRunning {
		return "running"
	}
	return "idle"
}

// Outcome is how a submission ended.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeFailed
	OutcomeRejected
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeFailed:
		return "failed"
	case OutcomeRejected:
		return "rejected"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Result is returned for every submission to the execution lane.
// Accepted is false only for OutcomeRejected.
type Result struct {
	Accepted bool    `json:"accepted"`
	Outcome  Outcome `json:"outcome"`
	Err      error   `json:"-"`
}
