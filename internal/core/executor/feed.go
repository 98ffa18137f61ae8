package executor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/melih/lighthouse-helper/internal/core/domain"
)

// Feed is an observer that republishes notifications as domain.Event values
// on a channel, in the order they were dispatched.
//
// At most buffer message and error events wait for the consumer. When a
// slow consumer lets that many pile up, further message and error events
// are dropped and counted rather than stalling the lane. Start and end
// events are never dropped, so a consumer always sees every run close.
type Feed struct {
	out     chan domain.Event
	wake    chan struct{}
	done    chan struct{}
	limit   int
	dropped atomic.Int64

	mu      sync.Mutex
	queue   []domain.Event
	pending int
	closed  bool
}

// NewFeed returns a feed with room for buffer pending message and error
// events.
func NewFeed(buffer int) *Feed {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	f := &Feed{
		out:   make(chan domain.Event),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
		limit: buffer,
	}
	go f.pump()
	return f
}

// Events returns the channel events are published on. It is closed after
// Close.
func (f *Feed) Events() <-chan domain.Event {
	return f.out
}

// Dropped reports how many message and error events were discarded.
func (f *Feed) Dropped() int64 {
	return f.dropped.Load()
}

// Close stops publishing and closes the events channel once the delivery
// goroutine exits. Events still queued are discarded. Unsubscribe the feed
// first; Close is safe to call more than once.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.done)
	}
}

func (f *Feed) OnStart(command string) { f.publish(domain.EventStart, command) }
func (f *Feed) OnMessage(text string)  { f.publish(domain.EventMessage, text) }
func (f *Feed) OnError(text string)    { f.publish(domain.EventError, text) }
func (f *Feed) OnEnd()                 { f.publish(domain.EventEnd, "") }

func lossy(kind domain.EventKind) bool {
	return kind == domain.EventMessage || kind == domain.EventError
}

func (f *Feed) publish(kind domain.EventKind, text string) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	if lossy(kind) {
		if f.pending >= f.limit {
			f.mu.Unlock()
			f.dropped.Add(1)
			return
		}
		f.pending++
	}
	f.queue = append(f.queue, domain.Event{Kind: kind, Text: text, Time: time.Now()})
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// pump hands queued events to the consumer one at a time.
func (f *Feed) pump() {
	defer close(f.out)
	for {
		f.mu.Lock()
		if len(f.queue) == 0 {
			f.mu.Unlock()
			select {
			case <-f.wake:
				continue
			case <-f.done:
				return
			}
		}
		e := f.queue[0]
		f.queue[0] = domain.Event{}
		f.queue = f.queue[1:]
		if lossy(e.Kind) {
			f.pending--
		}
		f.mu.Unlock()

		select {
		case f.out <- e:
		case <-f.done:
			return
		}
	}
}
