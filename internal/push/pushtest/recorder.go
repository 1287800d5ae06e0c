// Package pushtest provides a Publisher that records events for assertions.
package pushtest

import (
	"errors"
	"sync"
)

// Event is one recorded Trigger call
type Event struct {
	Channel string
	Event   string
	Data    interface{}
}

// Recorder implements push.Publisher. FailTimes makes the next n triggers fail.
type Recorder struct {
	mu        sync.Mutex
	events    []Event
	failTimes int
}

var ErrInjected = errors.New("injected push failure")

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Trigger(channel, event string, data interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failTimes > 0 {
		r.failTimes--
		return ErrInjected
	}
	r.events = append(r.events, Event{Channel: channel, Event: event, Data: data})
	return nil
}

// FailNext makes the next n calls to Trigger return ErrInjected
func (r *Recorder) FailNext(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failTimes = n
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Find returns the recorded events matching channel and event
func (r *Recorder) Find(channel, event string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Channel == channel && e.Event == event {
			out = append(out, e)
		}
	}
	return out
}
