// Package room implements §4.3, the Room State Machine: the single
// write-guarded mutator of one room's participants, pending queue, access
// lists, policies, host/admin sets, raised hands, and screen-share marker.
//
// Most mutation methods here return a `changed bool` per the contract in
// §4.3 (AddParticipant returns nothing; AddProducer and RemoveParticipant
// report what they replaced or removed); callers (the Admission/Moderation engines and the control plane)
// are responsible for turning a true `changed` into the corresponding
// fanout.Event, keeping this package free of a dependency on the transport-
// facing event types.
package room

import (
	"sync"

	"github.com/dkeye/sfu-control-plane/internal/domain"
)

// Room wraps a *domain.Room with the single write guard §5 requires:
// mutations serialize under it, and snapshot construction takes the same
// guard to observe a consistent instant.
type Room struct {
	mu   sync.RWMutex
	data *domain.Room
}

func New(clientID domain.ClientID, id domain.RoomID) *Room {
	return &Room{data: domain.NewRoom(clientID, id)}
}

func (r *Room) ChannelID() domain.ChannelID {
	// ChannelID never changes after construction; no lock needed.
	return r.data.ChannelID
}

func (r *Room) ClientID() domain.ClientID { return r.data.ClientID }
func (r *Room) ID() domain.RoomID         { return r.data.ID }

// IsEmpty reports whether the room currently has no live participants
// (part of the §3 room-destruction lifecycle rule).
func (r *Room) IsEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data.IsEmpty()
}

// View executes fn with the read guard held, for callers that need to
// inspect several fields consistently without a bespoke accessor.
func (r *Room) View(fn func(*domain.Room)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn(r.data)
}

// SocketsInChannel implements fanout.ChannelMembers for a single room: it
// ignores the channelID argument's identity beyond an equality check, since
// one Room instance only ever answers for its own channel. Participants
// without a socket are left out.
func (r *Room) SocketsInChannel(channelID domain.ChannelID) []domain.SocketHandle {
	if channelID != r.ChannelID() {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.SocketHandle, 0, len(r.data.Clients))
	for _, p := range r.data.Clients {
		if p.Socket == nil {
			continue
		}
		out = append(out, p.Socket)
	}
	return out
}
