package event

import "sync"

// Recorder keeps every event it handles in memory. It is mainly useful in tests and for hosts that batch
// events per step.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) HandleEvent(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Drain returns the recorded events and clears the recorder.
func (r *Recorder) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.events
	r.events = nil
	return events
}

// Multi fans an event out to several handlers in order.
type Multi []Handler

func (m Multi) HandleEvent(ev Event) {
	for _, h := range m {
		h.HandleEvent(ev)
	}
}
