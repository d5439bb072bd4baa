package socket

import (
	"encoding/json"
	"testing"

	"github.com/dkeye/sfu-control-plane/internal/domain"
)

func TestHandleJoinRoomAdmitsIntoUnlockedRoom(t *testing.T) {
	ctl := newTestController()
	sess := &session{}

	payload, _ := json.Marshal(joinRoomRequest{
		ClientID:  "tenant-a",
		RoomID:    "room1",
		UserKey:   "alice",
		SessionID: "s1",
	})
	resp := ctl.handleJoinRoom(newConn(nil), sess, payload)

	if resp["status"] != "joined" {
		t.Fatalf("handleJoinRoom() resp = %v, want status joined", resp)
	}
	if sess.room == nil {
		t.Fatalf("handleJoinRoom() did not bind the session to a room")
	}
	if sess.userKey != "alice" {
		t.Errorf("session.userKey = %q, want alice", sess.userKey)
	}
}

func TestHandleJoinRoomMissingFieldsNacks(t *testing.T) {
	ctl := newTestController()
	sess := &session{}

	payload, _ := json.Marshal(joinRoomRequest{ClientID: "tenant-a"})
	resp := ctl.handleJoinRoom(newConn(nil), sess, payload)

	if _, isErr := resp["error"]; !isErr {
		t.Fatalf("handleJoinRoom() resp = %v, want an error for missing roomId/sessionId", resp)
	}
}

func TestHandleJoinRoomWaitlistsWhenLocked(t *testing.T) {
	ctl := newTestController()
	r := ctl.Registry.CreateIfAbsent("tenant-a", "room1")
	locked := true
	r.SetPolicy(domain.PolicyFields{Locked: &locked})

	sess := &session{}
	payload, _ := json.Marshal(joinRoomRequest{
		ClientID:  "tenant-a",
		RoomID:    "room1",
		UserKey:   "bob",
		SessionID: "s2",
	})
	resp := ctl.handleJoinRoom(newConn(nil), sess, payload)

	if resp["status"] != "waiting" {
		t.Fatalf("handleJoinRoom() resp = %v, want status waiting for a locked room", resp)
	}
	if sess.room != nil {
		t.Errorf("handleJoinRoom() bound a session that only waitlisted")
	}
}

func TestHandleJoinRoomInvalidPayloadNacks(t *testing.T) {
	ctl := newTestController()
	resp := ctl.handleJoinRoom(newConn(nil), &session{}, json.RawMessage(`not json`))
	if _, isErr := resp["error"]; !isErr {
		t.Fatalf("handleJoinRoom() resp = %v, want an error for malformed payload", resp)
	}
}
