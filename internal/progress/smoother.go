package progress

import "sync"

// optimisticCeiling is how far simulated progress may run ahead; only an
// authoritative update can take a job to 100.
const optimisticCeiling = 95

// Smoother reconciles a locally simulated "optimistic" progress value
// with authoritative server updates. The displayed value is always
// max(optimistic, authoritative): the bar creeps forward between server
// updates and snaps up, never back, when a real update lands.
type Smoother struct {
	mu            sync.Mutex
	optimistic    float64
	authoritative float64
}

// Advance moves the optimistic value forward by delta percentage points,
// capped below completion.
func (s *Smoother) Advance(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.optimistic += delta
	if s.optimistic > optimisticCeiling {
		s.optimistic = optimisticCeiling
	}
}

// Observe records an authoritative progress value.
func (s *Smoother) Observe(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authoritative = clampProgress(v)
}

// Value returns the displayed progress.
func (s *Smoother) Value() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.optimistic > s.authoritative {
		return s.optimistic
	}
	return s.authoritative
}

// Reset clears both values, e.g. when tracking switches to a new job.
func (s *Smoother) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.optimistic = 0
	s.authoritative = 0
}
