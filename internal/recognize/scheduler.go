// Package recognize runs the live recognition loop: sampled frames go
// through extraction and matching, the rest reuse the last published results.
package recognize

import "sync"

// DefaultProcessEvery is the default frame sampling interval: one full
// extraction+matching pass per N frames. Low N lowers recognition latency,
// high N raises throughput.
const DefaultProcessEvery = 10

// Scheduler decides which frames receive full processing and caches the last
// computed results for the frames in between. It is owned by one session, not
// shared globally. Publish/Latest use replace-then-publish under a lock so a
// serving goroutine can read concurrently with the video loop.
type Scheduler struct {
	every   int
	counter int

	mu     sync.RWMutex
	cached []Result
}

// NewScheduler creates a scheduler that processes every n-th frame.
// Values below 1 clamp to 1 (process every frame).
func NewScheduler(every int) *Scheduler {
	if every < 1 {
		every = 1
	}
	return &Scheduler{every: every}
}

// Tick advances the frame counter and reports whether this frame should go
// through extraction+matching. Exactly one in every N ticks returns true.
func (s *Scheduler) Tick() bool {
	s.counter++
	return s.counter%s.every == 0
}

// Frames returns how many frames have been seen.
func (s *Scheduler) Frames() int {
	return s.counter
}

// Publish replaces the cached results with freshly computed ones.
func (s *Scheduler) Publish(results []Result) {
	s.mu.Lock()
	s.cached = results
	s.mu.Unlock()
}

// Latest returns the most recently published results. Bounding boxes go
// stale between recomputation cycles; that staleness is an accepted
// approximation of frame sampling, not a bug. Callers must not mutate the
// returned slice.
func (s *Scheduler) Latest() []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached
}
