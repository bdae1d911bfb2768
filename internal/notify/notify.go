// Package notify carries user-facing notifications out of an operation.
//
// Each operation that reports to the user takes a Sink argument instead of
// writing to shared state. The HTTP layer collects events into a Recorder and
// returns them with the response; the CLI prints them as they arrive.
package notify

import "sync"

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Event is one notification shown to the user.
type Event struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Sink receives notifications.
type Sink interface {
	Notify(Event)
}

// Func adapts a plain function to a Sink.
type Func func(Event)

// Notify calls f(e).
func (f Func) Notify(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = Func(func(Event) {})

// Success emits a success event on s.
func Success(s Sink, msg string) {
	if s != nil {
		s.Notify(Event{Level: LevelSuccess, Message: msg})
	}
}

// Error emits an error event on s.
func Error(s Sink, msg string) {
	if s != nil {
		s.Notify(Event{Level: LevelError, Message: msg})
	}
}

// Recorder collects events in order. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Notify appends e.
func (r *Recorder) Notify(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many events of the given level were recorded.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Level == level {
			n++
		}
	}
	return n
}
