package registry

import (
	"context"
	"testing"

	"github.com/dkeye/sfu-control-plane/internal/apperr"
	"github.com/dkeye/sfu-control-plane/internal/domain"
)

type fakeSocket struct{ closed bool }

func (f *fakeSocket) Send(event string, payload any) error { return nil }
func (f *fakeSocket) Disconnect(closeImmediate bool)        { f.closed = true }

func TestCreateIfAbsentIsIdempotent(t *testing.T) {
	reg := New()
	r1 := reg.CreateIfAbsent("tenant-a", "room1")
	r2 := reg.CreateIfAbsent("tenant-a", "room1")
	if r1 != r2 {
		t.Errorf("CreateIfAbsent() returned different rooms for the same channel")
	}
}

func TestResolveByRoomIDWithClientID(t *testing.T) {
	reg := New()
	reg.CreateIfAbsent("tenant-a", "room1")

	r, err := reg.ResolveByRoomID("room1", "tenant-a")
	if err != nil || r == nil {
		t.Fatalf("ResolveByRoomID() = (%v, %v)", r, err)
	}

	_, err = reg.ResolveByRoomID("missing", "tenant-a")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("ResolveByRoomID(missing) err = %v, want not-found", err)
	}
}

func TestResolveByRoomIDAmbiguousAcrossTenants(t *testing.T) {
	reg := New()
	reg.CreateIfAbsent("tenant-a", "room1")
	reg.CreateIfAbsent("tenant-b", "room1")

	_, err := reg.ResolveByRoomID("room1", "")
	if apperr.KindOf(err) != apperr.KindAmbiguous {
		t.Fatalf("ResolveByRoomID() err = %v, want ambiguous", err)
	}
	candidates := apperr.CandidatesOf(err)
	if len(candidates) != 2 {
		t.Errorf("CandidatesOf() = %v, want 2 candidates", candidates)
	}
}

func TestResolveByRoomIDUnambiguousWithoutClientID(t *testing.T) {
	reg := New()
	reg.CreateIfAbsent("tenant-a", "room1")

	r, err := reg.ResolveByRoomID("room1", "")
	if err != nil || r == nil {
		t.Fatalf("ResolveByRoomID() = (%v, %v), want the single matching room", r, err)
	}
}

func TestSocketsInChannelDelegatesToRoom(t *testing.T) {
	reg := New()
	r := reg.CreateIfAbsent("tenant-a", "room1")
	sock := &fakeSocket{}
	r.AddParticipant(domain.NewParticipant("alice#s1", "alice", domain.ModeMeeting, sock, 0))

	sockets := reg.SocketsInChannel(r.ChannelID())
	if len(sockets) != 1 || sockets[0] != sock {
		t.Fatalf("SocketsInChannel() = %v, want [sock]", sockets)
	}
}

func TestSocketsInChannelUnknownChannel(t *testing.T) {
	reg := New()
	if sockets := reg.SocketsInChannel("nonexistent:room"); sockets != nil {
		t.Errorf("SocketsInChannel(unknown) = %v, want nil", sockets)
	}
}

func TestForceCloseRemovesRoomAndIsIdempotent(t *testing.T) {
	reg := New()
	r := reg.CreateIfAbsent("tenant-a", "room1")
	channelID := r.ChannelID()

	reg.ForceClose(context.Background(), channelID, nil)
	if _, ok := reg.Get(channelID); ok {
		t.Errorf("ForceClose() left the room in the registry")
	}

	// a second call on an already-removed channel must not panic.
	reg.ForceClose(context.Background(), channelID, nil)
}

func TestListByClientID(t *testing.T) {
	reg := New()
	reg.CreateIfAbsent("tenant-a", "room1")
	reg.CreateIfAbsent("tenant-a", "room2")
	reg.CreateIfAbsent("tenant-b", "room1")

	rooms := reg.ListByClientID("tenant-a")
	if len(rooms) != 2 {
		t.Errorf("ListByClientID(tenant-a) = %d rooms, want 2", len(rooms))
	}
}
