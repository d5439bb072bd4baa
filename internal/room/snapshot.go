package room

import "github.com/dkeye/sfu-control-plane/internal/domain"

// Snapshot is the deterministic RoomSnapshot §4.6 requires: participants
// ordered by admission time, pending ordered by enrollment time, access
// lists sorted, policies, counts, and the current hostUserId (if the host
// has a live session).
type Snapshot struct {
	ChannelID domain.ChannelID `json:"channelId"`
	RoomID    domain.RoomID    `json:"roomId"`
	ClientID  domain.ClientID  `json:"clientId"`

	Participants []ParticipantSnapshot  `json:"participants"`
	Pending      []*domain.PendingEntry `json:"pending"`

	AllowedUserKeys       []domain.UserKey `json:"allowedUserKeys"`
	LockedAllowedUserKeys []domain.UserKey `json:"lockedAllowedUserKeys"`
	BlockedUserKeys       []domain.UserKey `json:"blockedUserKeys"`
	AdminUserKeys         []domain.UserKey `json:"adminUserKeys"`

	HostUserKey domain.UserKey `json:"hostUserKey"`
	HostUserID  domain.UserID  `json:"hostUserId,omitempty"` // empty if host has no live session right now

	Policies domain.Policies `json:"policies"`

	ParticipantCount int `json:"participantCount"`
	PendingCount     int `json:"pendingCount"`

	RaisedHands []domain.UserID `json:"raisedHands"`
}

func (r *Room) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var hostUserID domain.UserID
	for uid, p := range r.data.Clients {
		if p.UserKey == r.data.HostUserKey && r.data.HostUserKey != "" {
			hostUserID = uid
			break
		}
	}

	return Snapshot{
		ChannelID:             r.data.ChannelID,
		RoomID:                r.data.ID,
		ClientID:              r.data.ClientID,
		Participants:          r.participantsSnapshotLocked(),
		Pending:               r.pendingSnapshotLocked(),
		AllowedUserKeys:       sortedKeys(r.data.AllowedUserKeys),
		LockedAllowedUserKeys: sortedKeys(r.data.LockedAllowedUserKeys),
		BlockedUserKeys:       sortedKeys(r.data.BlockedUserKeys),
		AdminUserKeys:         sortedKeys(r.data.AdminUserKeys),
		HostUserKey:           r.data.HostUserKey,
		HostUserID:            hostUserID,
		Policies:              r.data.Policies,
		ParticipantCount:      len(r.data.Clients),
		PendingCount:          len(r.data.PendingClients),
		RaisedHands:           append([]domain.UserID(nil), r.data.HandRaisedByUserID...),
	}
}

func sortedKeys(set map[domain.UserKey]struct{}) []domain.UserKey {
	out := make([]domain.UserKey, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sortUserKeys(out)
	return out
}

// participantsSnapshotLocked/pendingSnapshotLocked assume r.mu is already held.
func (r *Room) participantsSnapshotLocked() []ParticipantSnapshot {
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

func (r *Room) pendingSnapshotLocked() []*domain.PendingEntry {
	out := make([]*domain.PendingEntry, 0, len(r.data.PendingClients))
	for _, e := range r.data.PendingClients {
		out = append(out, e)
	}
	sortPendingByEnrolledAt(out)
	return out
}
