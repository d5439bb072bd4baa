package room

import "github.com/dkeye/sfu-control-plane/internal/domain"

// EnrollPending adds pending to PendingClients keyed by UserKey, replacing
// any prior entry for that key. If a distinct prior entry existed, its
// socket is returned so the caller can notify+disconnect it
// (joinSuperseded, §4.3).
func (r *Room) EnrollPending(pending *domain.PendingEntry) (superseded domain.SocketHandle, hadPrior bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prior, ok := r.data.PendingClients[pending.UserKey]; ok && prior.SessionID != pending.SessionID {
		superseded = prior.Socket
		hadPrior = true
	}
	r.data.PendingClients[pending.UserKey] = pending
	return superseded, hadPrior
}

func (r *Room) RemovePending(key domain.UserKey) (entry *domain.PendingEntry, removed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, removed = r.data.PendingClients[key]
	if removed {
		delete(r.data.PendingClients, key)
	}
	return entry, removed
}

func (r *Room) GetPending(key domain.UserKey) (*domain.PendingEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.data.PendingClients[key]
	return e, ok
}

// PendingSnapshot returns pending entries ordered by enrollment time (§4.6
// RoomSnapshot requirement).
func (r *Room) PendingSnapshot() []*domain.PendingEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.PendingEntry, 0, len(r.data.PendingClients))
	for _, e := range r.data.PendingClients {
		out = append(out, e)
	}
	sortPendingByEnrolledAt(out)
	return out
}

func sortPendingByEnrolledAt(entries []*domain.PendingEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].EnrolledAt < entries[j-1].EnrolledAt; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}
