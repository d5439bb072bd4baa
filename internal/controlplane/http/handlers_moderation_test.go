package http

import (
	"encoding/json"
	"testing"

	"github.com/dkeye/sfu-control-plane/internal/domain"
)

// TestBlockUserWithKickPresentDisconnectsAndBlocks is the Scenario 2
// regression test: blocking an identity with kickPresent must both mark the
// user key as blocked and disconnect every live session of that identity.
func TestBlockUserWithKickPresentDisconnectsAndBlocks(t *testing.T) {
	engine, srv := newTestServer(t)
	r := srv.Registry.CreateIfAbsent("tenant-a", "room1")
	sock := &fakeSocket{}
	r.AddParticipant(domain.NewParticipant("alice#s1", "alice", domain.ModeMeeting, sock, 0))

	var body map[string]any
	rec := doRequest(t, engine, "POST", "/users/alice/block", map[string]any{
		"roomId":      "room1",
		"kickPresent": true,
		"reason":      "disruptive",
	})
	if rec.Code != 200 {
		t.Fatalf("POST block = %d, want 200", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["blocked"] != true {
		t.Errorf("blocked = %v, want true", body["blocked"])
	}
	if !sock.disconnect {
		t.Errorf("socket was not disconnected after block with kickPresent")
	}
	if !containsUserKey(r.Snapshot().BlockedUserKeys, "alice") {
		t.Errorf("BlockedUserKeys does not contain alice after block")
	}
}

func TestCloseProducerBroadcastsPeerEventAndEnforcesOwner(t *testing.T) {
	engine, srv := newTestServer(t)
	r := srv.Registry.CreateIfAbsent("tenant-a", "room1")
	ownerSock := &fakeSocket{}
	peerSock := &fakeSocket{}
	r.AddParticipant(domain.NewParticipant("alice#s1", "alice", domain.ModeMeeting, ownerSock, 0))
	r.AddParticipant(domain.NewParticipant("bob#s1", "bob", domain.ModeMeeting, peerSock, 1))
	r.AddProducer("alice#s1", domain.ProducerRef{ID: "p1", Key: domain.ProducerKey{Kind: domain.KindAudio, Type: domain.TypeWebcam}})

	rec := doRequest(t, engine, "POST", "/admin/rooms/room1/producers/p1/close", nil)
	if rec.Code != 200 {
		t.Fatalf("POST close producer = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["closed"] != true {
		t.Errorf("closed = %v, want true", body["closed"])
	}
	if !sentEvent(peerSock, "producerClosed") {
		t.Errorf("peer socket did not receive producerClosed, got %v", peerSock.sent)
	}
	if !sentEvent(ownerSock, "admin:mediaEnforced") {
		t.Errorf("owner socket did not receive admin:mediaEnforced, got %v", ownerSock.sent)
	}
	if sentEvent(ownerSock, "producerClosed") {
		t.Errorf("owner socket should not receive the peer-facing producerClosed")
	}
}

func TestBulkCloseEnforcesNonAdminsAndFansOutAdminEvent(t *testing.T) {
	engine, srv := newTestServer(t)
	r := srv.Registry.CreateIfAbsent("tenant-a", "room1")
	aliceSock := &fakeSocket{}
	hostSock := &fakeSocket{}
	r.AddParticipant(domain.NewParticipant("alice#s1", "alice", domain.ModeMeeting, aliceSock, 0))
	r.AddParticipant(domain.NewParticipant("host#s1", "host", domain.ModeMeeting, hostSock, 1))
	r.SetHost("host")
	r.AddProducer("alice#s1", domain.ProducerRef{ID: "p1", Key: domain.ProducerKey{Kind: domain.KindAudio, Type: domain.TypeWebcam}})
	r.AddProducer("host#s1", domain.ProducerRef{ID: "p2", Key: domain.ProducerKey{Kind: domain.KindAudio, Type: domain.TypeWebcam}})

	rec := doRequest(t, engine, "POST", "/admin/rooms/room1/bulk-close", map[string]any{
		"roomId": "room1",
		"kinds":  []string{"audio"},
		"reason": "noise",
	})
	if rec.Code != 200 {
		t.Fatalf("POST bulk-close = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["closed"] != float64(1) {
		t.Errorf("closed = %v, want 1 (host excluded by default)", body["closed"])
	}
	if !sentEvent(aliceSock, "admin:mediaEnforced") {
		t.Errorf("alice did not receive admin:mediaEnforced")
	}
	if sentEvent(hostSock, "admin:mediaEnforced") {
		t.Errorf("host received admin:mediaEnforced, want excluded from bulkClose by default")
	}
	if !sentEvent(aliceSock, "admin:bulkMediaEnforced") || !sentEvent(hostSock, "admin:bulkMediaEnforced") {
		t.Errorf("admin:bulkMediaEnforced was not broadcast to the whole channel")
	}
}
