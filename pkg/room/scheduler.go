package room

import (
	"sync"
	"time"
)

// scheduler owns a room's cancellable delayed tasks. Every timer has a name;
// scheduling a name again supersedes the previous timer, so a turn timer can
// never fire twice for the same turn. A stopped scheduler silently drops new
// tasks, which makes room teardown safe while callbacks are still in flight.
type scheduler struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool

	// afterFunc is swapped out by tests to avoid wall-clock waits
	afterFunc func(d time.Duration, fn func()) *time.Timer
}

func newScheduler() *scheduler {
	return &scheduler{
		timers:    make(map[string]*time.Timer),
		afterFunc: time.AfterFunc,
	}
}

// schedule registers fn to run after the delay, cancelling any existing task
// with the same name
func (s *scheduler) schedule(name string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	if timer, ok := s.timers[name]; ok {
		timer.Stop()
	}

	s.timers[name] = s.afterFunc(delay, fn)
}

// cancel stops the named task if it has not fired yet
func (s *scheduler) cancel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[name]; ok {
		timer.Stop()
		delete(s.timers, name)
	}
}

// stop cancels every outstanding task and refuses new ones
func (s *scheduler) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for name, timer := range s.timers {
		timer.Stop()
		delete(s.timers, name)
	}
}
