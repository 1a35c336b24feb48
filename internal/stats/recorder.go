package stats

import (
	"sync"
	"time"
)

// Recorder keeps one latency window per named operation.
type Recorder struct {
	mu     sync.Mutex
	maxAge time.Duration
	ops    map[string]*Window
}

func NewRecorder(maxAge time.Duration) *Recorder {
	return &Recorder{maxAge: maxAge, ops: make(map[string]*Window)}
}

// Observe records one call of op that took d.
func (r *Recorder) Observe(op string, d time.Duration) {
	r.mu.Lock()
	w, ok := r.ops[op]
	if !ok {
		w = NewWindow(r.maxAge)
		r.ops[op] = w
	}
	r.mu.Unlock()
	w.Record(d)
}

// Time starts timing op; call the returned func when the operation ends.
func (r *Recorder) Time(op string) func() {
	start := time.Now()
	return func() { r.Observe(op, time.Since(start)) }
}

// Snapshot returns the current aggregate of every operation seen so far.
func (r *Recorder) Snapshot() map[string]Snapshot {
	r.mu.Lock()
	windows := make(map[string]*Window, len(r.ops))
	for op, w := range r.ops {
		windows[op] = w
	}
	r.mu.Unlock()

	out := make(map[string]Snapshot, len(windows))
	for op, w := range windows {
		out[op] = w.Snapshot()
	}
	return out
}
