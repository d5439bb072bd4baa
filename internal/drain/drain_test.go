package drain

import (
	"context"
	"testing"
	"time"

	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/dkeye/sfu-control-plane/internal/fanout"
	"github.com/dkeye/sfu-control-plane/internal/sfustate"
)

type fakeSocket struct {
	sent     []fanout.EventType
	payloads []any
	closed   bool
}

func (f *fakeSocket) Send(event string, payload any) error {
	f.sent = append(f.sent, fanout.EventType(event))
	f.payloads = append(f.payloads, payload)
	return nil
}
func (f *fakeSocket) Disconnect(closeImmediate bool) { f.closed = true }

func TestApplySetsFlagWithoutForce(t *testing.T) {
	state := sfustate.New()
	fo := fanout.New(state.Registry)
	e := New(state, state.Registry, fo)

	e.Apply(context.Background(), Options{Draining: true, Force: false})
	if !state.Draining() {
		t.Errorf("Draining() = false, want true")
	}
}

func TestApplyForceBroadcastsThenDisconnects(t *testing.T) {
	state := sfustate.New()
	fo := fanout.New(state.Registry)
	e := New(state, state.Registry, fo)

	r := state.Registry.CreateIfAbsent("tenant-a", "room1")
	sock := &fakeSocket{}
	p := domain.NewParticipant("alice#s1", "alice", domain.ModeMeeting, sock, 0)
	r.AddParticipant(p)

	e.Apply(context.Background(), Options{Draining: true, Force: true, Notice: "restarting", NoticeDelayMs: 0})

	if !state.Draining() {
		t.Errorf("Draining() = false after force apply, want true")
	}
	if len(sock.sent) != 1 || sock.sent[0] != fanout.EventServerRestarting {
		t.Fatalf("socket sent = %v, want one serverRestarting notice", sock.sent)
	}
	payload, ok := sock.payloads[0].(map[string]any)
	if !ok || payload["reconnecting"] != true {
		t.Errorf("serverRestarting payload = %v, want reconnecting:true", sock.payloads[0])
	}
	if !sock.closed {
		t.Errorf("socket was not disconnected after the drain sequence")
	}
}

func TestApplyCanceledContextCutsNoticeDelayShort(t *testing.T) {
	state := sfustate.New()
	fo := fanout.New(state.Registry)
	e := New(state, state.Registry, fo)
	state.Registry.CreateIfAbsent("tenant-a", "room1")

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	e.Apply(ctx, Options{Draining: true, Force: true, NoticeDelayMs: 100000})
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Apply() took %v, want context cancellation to short-circuit the delay quickly", elapsed)
	}
}

func TestApplyNonForceDoesNotDisconnect(t *testing.T) {
	state := sfustate.New()
	fo := fanout.New(state.Registry)
	e := New(state, state.Registry, fo)
	r := state.Registry.CreateIfAbsent("tenant-a", "room1")
	sock := &fakeSocket{}
	r.AddParticipant(domain.NewParticipant("alice#s1", "alice", domain.ModeMeeting, sock, 0))

	e.Apply(context.Background(), Options{Draining: true, Force: false})
	if sock.closed || len(sock.sent) != 0 {
		t.Errorf("Apply(force=false) touched sockets: sent=%v closed=%v", sock.sent, sock.closed)
	}
}
