package fanout

import (
	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/rs/zerolog/log"
)

// ChannelMembers is satisfied by the Room State Machine (and the pending
// list) to let Fanout resolve "who is in this channel right now" without
// owning any membership state itself (§5: state is mutated only through the
// Room State Machine).
type ChannelMembers interface {
	SocketsInChannel(channelID domain.ChannelID) []domain.SocketHandle
}

// Fanout is the Event Fan-out component (§4.11). It is stateless beyond a
// reference to whatever currently answers "who is in this channel", reading
// live membership on every send rather than caching a subscriber list of
// its own.
type Fanout struct {
	members ChannelMembers
}

func New(members ChannelMembers) *Fanout {
	return &Fanout{members: members}
}

// SendToChannel delivers ev to every current member of channelID, in
// iteration order; it is best-effort and returns the sockets that failed.
func (f *Fanout) SendToChannel(channelID domain.ChannelID, ev Event) (dropped []domain.SocketHandle) {
	for _, sock := range f.members.SocketsInChannel(channelID) {
		if err := sock.Send(string(ev.Type), ev.Payload); err != nil {
			log.Debug().Str("module", "fanout").Str("channel", string(channelID)).Str("event", string(ev.Type)).Err(err).Msg("send failed")
			dropped = append(dropped, sock)
		}
	}
	return dropped
}

// SendToChannelExcept behaves like SendToChannel but skips sockets in except.
func (f *Fanout) SendToChannelExcept(channelID domain.ChannelID, ev Event, except map[domain.SocketHandle]struct{}) (dropped []domain.SocketHandle) {
	for _, sock := range f.members.SocketsInChannel(channelID) {
		if _, skip := except[sock]; skip {
			continue
		}
		if err := sock.Send(string(ev.Type), ev.Payload); err != nil {
			dropped = append(dropped, sock)
		}
	}
	return dropped
}

// SendToSocket delivers ev to a single socket; best-effort, no retry.
func (f *Fanout) SendToSocket(sock domain.SocketHandle, ev Event) error {
	return sock.Send(string(ev.Type), ev.Payload)
}

// DisconnectChannel disconnects every current member of channelID.
func (f *Fanout) DisconnectChannel(channelID domain.ChannelID, closeImmediate bool) {
	for _, sock := range f.members.SocketsInChannel(channelID) {
		sock.Disconnect(closeImmediate)
	}
}
