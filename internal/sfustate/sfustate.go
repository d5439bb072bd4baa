// Package sfustate wraps the process-global mutable state (the room
// registry, the draining flag, and the cluster worker list) in a single
// container with documented init/teardown, per the §9 redesign flag
// ("process-global mutable state... wrapped in a single SfuState
// container... single owner thread for iteration").
package sfustate

import (
	"sync"

	"github.com/dkeye/sfu-control-plane/internal/registry"
)

// Worker is a cluster worker descriptor surfaced by /admin/workers (§6).
type Worker struct {
	ID       string `json:"id"`
	Capacity int    `json:"capacity"`
	RoomLoad int    `json:"roomLoad"`
}

// State is the single owner of process-wide mutable state. Its fields other
// than Registry are guarded by mu; Registry is itself internally
// synchronized (see internal/registry), so it is exposed directly.
type State struct {
	Registry *registry.Registry

	mu       sync.RWMutex
	draining bool
	workers  []Worker
}

func New() *State {
	return &State{Registry: registry.New()}
}

func (s *State) SetDraining(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draining = v
}

func (s *State) Draining() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draining
}

func (s *State) SetWorkers(workers []Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers = append([]Worker(nil), workers...)
}

func (s *State) Workers() []Worker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Worker(nil), s.workers...)
}
