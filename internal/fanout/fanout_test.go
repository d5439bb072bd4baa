package fanout

import (
	"errors"
	"testing"

	"github.com/dkeye/sfu-control-plane/internal/domain"
)

type fakeSocket struct {
	id      string
	sent    []EventType
	failing bool
	closed  bool
}

func (f *fakeSocket) Send(event string, payload any) error {
	if f.failing {
		return errors.New("send failed")
	}
	f.sent = append(f.sent, EventType(event))
	return nil
}

func (f *fakeSocket) Disconnect(closeImmediate bool) { f.closed = true }

type fakeMembers struct {
	sockets map[domain.ChannelID][]domain.SocketHandle
}

func (m *fakeMembers) SocketsInChannel(channelID domain.ChannelID) []domain.SocketHandle {
	return m.sockets[channelID]
}

func TestSendToChannelDeliversToAllMembers(t *testing.T) {
	s1 := &fakeSocket{id: "s1"}
	s2 := &fakeSocket{id: "s2"}
	members := &fakeMembers{sockets: map[domain.ChannelID][]domain.SocketHandle{"ch1": {s1, s2}}}
	f := New(members)

	dropped := f.SendToChannel("ch1", Event{Type: EventRoomLockChanged})
	if len(dropped) != 0 {
		t.Errorf("SendToChannel() dropped = %v, want none", dropped)
	}
	if len(s1.sent) != 1 || len(s2.sent) != 1 {
		t.Errorf("SendToChannel() did not deliver to every member: s1=%v s2=%v", s1.sent, s2.sent)
	}
}

func TestSendToChannelReportsDropped(t *testing.T) {
	ok := &fakeSocket{}
	failing := &fakeSocket{failing: true}
	members := &fakeMembers{sockets: map[domain.ChannelID][]domain.SocketHandle{"ch1": {ok, failing}}}
	f := New(members)

	dropped := f.SendToChannel("ch1", Event{Type: EventRoomLockChanged})
	if len(dropped) != 1 || dropped[0] != failing {
		t.Errorf("SendToChannel() dropped = %v, want [failing]", dropped)
	}
}

func TestSendToChannelExceptSkipsListed(t *testing.T) {
	s1 := &fakeSocket{}
	s2 := &fakeSocket{}
	members := &fakeMembers{sockets: map[domain.ChannelID][]domain.SocketHandle{"ch1": {s1, s2}}}
	f := New(members)

	f.SendToChannelExcept("ch1", Event{Type: EventRoomLockChanged}, map[domain.SocketHandle]struct{}{s2: {}})
	if len(s1.sent) != 1 {
		t.Errorf("SendToChannelExcept() did not deliver to s1")
	}
	if len(s2.sent) != 0 {
		t.Errorf("SendToChannelExcept() delivered to the excluded socket")
	}
}

func TestSendToSocket(t *testing.T) {
	sock := &fakeSocket{}
	f := New(&fakeMembers{})
	if err := f.SendToSocket(sock, Event{Type: EventJoinApproved}); err != nil {
		t.Fatalf("SendToSocket() err = %v", err)
	}
	if len(sock.sent) != 1 || sock.sent[0] != EventJoinApproved {
		t.Errorf("SendToSocket() sent = %v, want [joinApproved]", sock.sent)
	}
}

func TestDisconnectChannel(t *testing.T) {
	s1 := &fakeSocket{}
	s2 := &fakeSocket{}
	members := &fakeMembers{sockets: map[domain.ChannelID][]domain.SocketHandle{"ch1": {s1, s2}}}
	f := New(members)

	f.DisconnectChannel("ch1", true)
	if !s1.closed || !s2.closed {
		t.Errorf("DisconnectChannel() did not close every member: s1=%v s2=%v", s1.closed, s2.closed)
	}
}
