package sfustate

import "testing"

func TestDrainingDefaultsFalse(t *testing.T) {
	s := New()
	if s.Draining() {
		t.Errorf("Draining() = true on a fresh state, want false")
	}
}

func TestSetDraining(t *testing.T) {
	s := New()
	s.SetDraining(true)
	if !s.Draining() {
		t.Errorf("Draining() = false after SetDraining(true)")
	}
}

func TestWorkersRoundTrip(t *testing.T) {
	s := New()
	s.SetWorkers([]Worker{{ID: "w1", Capacity: 10, RoomLoad: 3}})
	got := s.Workers()
	if len(got) != 1 || got[0].ID != "w1" {
		t.Fatalf("Workers() = %v, want [w1]", got)
	}

	// mutating the returned slice must not affect internal state.
	got[0].RoomLoad = 999
	if s.Workers()[0].RoomLoad != 3 {
		t.Errorf("Workers() leaked internal state via the returned slice")
	}
}

func TestNewInitializesRegistry(t *testing.T) {
	s := New()
	if s.Registry == nil {
		t.Fatalf("New() left Registry nil")
	}
}
