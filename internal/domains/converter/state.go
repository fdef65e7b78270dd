package converter

import "sync"

// batchState is the bookkeeping shared by the workers of one batch. Running
// jobs are keyed by their position in the batch, so duplicate sources can't
// clobber each other's entries.
type batchState struct {
	mu        sync.Mutex
	total     int
	completed int
	running   map[int]struct{}
	peak      int
}

func newBatchState(total int) *batchState {
	return &batchState{
		total:   total,
		running: make(map[int]struct{}),
	}
}

func (s *batchState) start(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running[index] = struct{}{}
	s.peak = max(s.peak, len(s.running))
}

// stop is called by the worker itself before it hands over its result, so
// the slot it frees is never counted twice.
func (s *batchState) stop(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.running, index)
}

// finish records a completion and returns the new completed count. Jobs
// that never started (rejected or cancelled) are counted too.
func (s *batchState) finish() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.completed++

	return s.completed
}

func (s *batchState) inFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.running)
}

func (s *batchState) maxInFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.peak
}
