package executor

import (
	"sync"

	"github.com/melih/lighthouse-helper/internal/core/ports"
)

// Funcs adapts optional callbacks to ports.Observer. Nil fields are skipped.
type Funcs struct {
	Start   func(command string)
	Message func(text string)
	Error   func(text string)
	End     func()
}

func (f Funcs) OnStart(command string) {
	if f.Start != nil {
		f.Start(command)
	}
}

func (f Funcs) OnMessage(text string) {
	if f.Message != nil {
		f.Message(text)
	}
}

func (f Funcs) OnError(text string) {
	if f.Error != nil {
		f.Error(text)
	}
}

func (f Funcs) OnEnd() {
	if f.End != nil {
		f.End()
	}
}

// observerSet fans notifications out to registered observers in
// registration order. Callbacks run outside the lock so an observer may
// subscribe or unsubscribe from inside a callback.
type observerSet struct {
	mu      sync.RWMutex
	nextID  int
	entries []observerEntry
}

type observerEntry struct {
	id       int
	observer ports.Observer
}

func (s *observerSet) add(o ports.Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.entries = append(s.entries, observerEntry{id: id, observer: o})

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *observerSet) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.id == id {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			return
		}
	}
}

func (s *observerSet) snapshot() []ports.Observer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	observers := make([]ports.Observer, len(s.entries))
	for i, e := range s.entries {
		observers[i] = e.observer
	}
	return observers
}

func (s *observerSet) start(command string) {
	for _, o := range s.snapshot() {
		o.OnStart(command)
	}
}

func (s *observerSet) message(text string) {
	for _, o := range s.snapshot() {
		o.OnMessage(text)
	}
}

func (s *observerSet) error(text string) {
	for _, o := range s.snapshot() {
		o.OnError(text)
	}
}

func (s *observerSet) end() {
	for _, o := range s.snapshot() {
		o.OnEnd()
	}
}
