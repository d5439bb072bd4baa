package room

import "github.com/dkeye/sfu-control-plane/internal/domain"

// AddParticipant installs an admitted participant (I1: the UserID ->
// UserKey back-lookup is always created alongside the Clients entry).
func (r *Room) AddParticipant(p *domain.Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Clients[p.UserID] = p
	r.data.UserKeysByID[p.UserID] = p.UserKey
}

func (r *Room) GetParticipant(userID domain.UserID) (*domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.data.Clients[userID]
	return p, ok
}

// RemovedProducer is one producer closed as a side effect of removing a
// participant, reported so the caller can fan out producerClosed per
// producer (§4.3 removeParticipant).
type RemovedProducer struct {
	Key domain.ProducerKey
	Ref domain.ProducerRef
}

// RemoveParticipant removes userID from Clients/UserKeysByID and reports
// every producer it owned so the caller can notify peers. AdminUserKeys and
// HostUserKey are identity-scoped and survive this call untouched, per §4.3.
func (r *Room) RemoveParticipant(userID domain.UserID) (removed []RemovedProducer, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, exists := r.data.Clients[userID]
	if !exists {
		return nil, false
	}
	for key, ref := range p.Producers {
		removed = append(removed, RemovedProducer{Key: key, Ref: ref})
		if ref.Key.Type == domain.TypeScreen && r.data.ScreenShareProducerID == ref.ID {
			r.data.HasScreenShare = false
			r.data.ScreenShareProducerID = ""
		}
	}
	delete(r.data.Clients, userID)
	delete(r.data.UserKeysByID, userID)
	removeUserIDFromSlice(&r.data.HandRaisedByUserID, userID)
	delete(r.data.PendingDisconnects, userID)
	return removed, true
}

// UserIDsForKey returns every live session UserID whose back-lookup equals
// key (used by blockIdentity's kickPresent fan-out, §4.5).
func (r *Room) UserIDsForKey(key domain.UserKey) []domain.UserID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.UserID
	for uid, k := range r.data.UserKeysByID {
		if k == key {
			out = append(out, uid)
		}
	}
	return out
}

func removeUserIDFromSlice(s *[]domain.UserID, userID domain.UserID) {
	out := (*s)[:0]
	for _, id := range *s {
		if id != userID {
			out = append(out, id)
		}
	}
	*s = out
}

// ParticipantSnapshot is the read-only view §4.6's RoomSnapshot embeds,
// ordered by admission time.
type ParticipantSnapshot struct {
	UserID      domain.UserID  `json:"userId"`
	UserKey     domain.UserKey `json:"userKey"`
	Mode        domain.Mode    `json:"mode"`
	Role        domain.Role    `json:"role"`
	IsMuted     bool           `json:"isMuted"`
	IsCameraOff bool           `json:"isCameraOff"`
}

func (r *Room) ParticipantsSnapshot() []ParticipantSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ParticipantSnapshot, 0, len(r.data.Clients))
	for _, p := range r.data.Clients {
		out = append(out, ParticipantSnapshot{
			UserID:      p.UserID,
			UserKey:     p.UserKey,
			Mode:        p.Mode,
			Role:        p.RoleIn(r.data.AdminUserKeys, r.data.HostUserKey),
			IsMuted:     p.IsMuted,
			IsCameraOff: p.IsCameraOff,
		})
	}
	sortParticipantsByAdmittedAt(r.data, out)
	return out
}

func sortParticipantsByAdmittedAt(data *domain.Room, snaps []ParticipantSnapshot) {
	order := make(map[domain.UserID]int64, len(data.Clients))
	for uid, p := range data.Clients {
		order[uid] = p.AdmittedAt
	}
	for i := 1; i < len(snaps); i++ {
		for j := i; j > 0 && order[snaps[j].UserID] < order[snaps[j-1].UserID]; j-- {
			snaps[j], snaps[j-1] = snaps[j-1], snaps[j]
		}
	}
}

func (r *Room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data.Clients)
}
