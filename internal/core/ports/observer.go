package ports

// Observer receives the notifications of the execution lane.
// Methods are called synchronously from the dispatching goroutine and
// should return quickly. A busy rejection is dispatched from the rejected
// caller's goroutine, so implementations must be safe for concurrent use.
type Observer interface {
	OnStart(command string)
	OnMessage(text string)
	OnError(text string)
	OnEnd()
}

// EventSource lets observers register for lane notifications.
type EventSource interface {
	Subscribe(o Observer) (unsubscribe func())
}

// Lane is the caller-facing view of the single-flight execution lane.
type Lane interface {
	EventSource
	Busy() bool
	Cancel()
}
