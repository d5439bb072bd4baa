// Package registry implements §4.2, the Room Registry: a channelId-keyed
// map of rooms, lifecycle, lookup, and tenant disambiguation.
package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/dkeye/sfu-control-plane/internal/apperr"
	"github.com/dkeye/sfu-control-plane/internal/core"
	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/dkeye/sfu-control-plane/internal/room"
	"github.com/rs/zerolog/log"
)

// Registry is the §5 "short-lived guard around get/create/remove"; room
// references returned to callers are stable until ForceClose.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.ChannelID]*room.Room
}

func New() *Registry {
	return &Registry{rooms: make(map[domain.ChannelID]*room.Room)}
}

func (reg *Registry) Get(channelID domain.ChannelID) (*room.Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[channelID]
	return r, ok
}

func (reg *Registry) CreateIfAbsent(clientID domain.ClientID, roomID domain.RoomID) *room.Room {
	channelID := domain.NewChannelID(clientID, roomID)
	reg.mu.RLock()
	r, ok := reg.rooms[channelID]
	reg.mu.RUnlock()
	if ok {
		return r
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if r, ok = reg.rooms[channelID]; ok {
		return r
	}
	r = room.New(clientID, roomID)
	reg.rooms[channelID] = r
	log.Info().Str("module", "registry").Str("channel", string(channelID)).Msg("room created")
	return r
}

func (reg *Registry) ListByClientID(clientID domain.ClientID) []*room.Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	var out []*room.Room
	for _, r := range reg.rooms {
		if r.ClientID() == clientID {
			out = append(out, r)
		}
	}
	return out
}

func (reg *Registry) List() []*room.Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*room.Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r)
	}
	return out
}

// ResolveByRoomID implements §4.2's ambiguity rule: when clientID is empty
// and more than one tenant owns a room with the given roomID, it returns an
// apperr.Ambiguous error listing the candidate channel ids.
func (reg *Registry) ResolveByRoomID(roomID domain.RoomID, clientID domain.ClientID) (*room.Room, error) {
	if clientID != "" {
		r, ok := reg.Get(domain.NewChannelID(clientID, roomID))
		if !ok {
			return nil, apperr.NotFound("room not found")
		}
		return r, nil
	}

	reg.mu.RLock()
	defer reg.mu.RUnlock()
	var candidates []*room.Room
	for _, r := range reg.rooms {
		if r.ID() == roomID {
			candidates = append(candidates, r)
		}
	}
	switch len(candidates) {
	case 0:
		return nil, apperr.NotFound("room not found")
	case 1:
		return candidates[0], nil
	default:
		ids := make([]string, 0, len(candidates))
		for _, r := range candidates {
			ids = append(ids, string(r.ChannelID()))
		}
		sort.Strings(ids)
		return nil, apperr.Ambiguous("room id is ambiguous across tenants", ids)
	}
}

// SocketsInChannel implements fanout.ChannelMembers by delegating to the
// named room; a channelID with no room returns nil.
func (reg *Registry) SocketsInChannel(channelID domain.ChannelID) []domain.SocketHandle {
	r, ok := reg.Get(channelID)
	if !ok {
		return nil
	}
	return r.SocketsInChannel(channelID)
}

// ForceClose removes channelID from the registry and then closes every
// participant's producers via mp. Transports are not tracked by the room
// and are not closed here. Idempotent: a channelID not present is a no-op.
func (reg *Registry) ForceClose(ctx context.Context, channelID domain.ChannelID, mp core.MediaPlane) {
	reg.mu.Lock()
	r, ok := reg.rooms[channelID]
	if ok {
		delete(reg.rooms, channelID)
	}
	reg.mu.Unlock()
	if !ok {
		return
	}

	if mp != nil {
		r.View(func(d *domain.Room) {
			for _, p := range d.Clients {
				for _, ref := range p.Producers {
					if err := mp.CloseProducer(ctx, ref.ID); err != nil {
						log.Warn().Str("module", "registry").Err(err).Str("producer", string(ref.ID)).Msg("close producer during force close")
					}
				}
			}
		})
	}
	log.Info().Str("module", "registry").Str("channel", string(channelID)).Msg("room force-closed")
}
