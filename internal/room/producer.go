package room

import "github.com/dkeye/sfu-control-plane/internal/domain"

// AddProducer installs a new producer for userID, enforcing I7 (at most one
// producer per (kind, type) tuple): a pre-existing producer at the same key
// is reported so the caller can close it first via the Moderation Engine.
func (r *Room) AddProducer(userID domain.UserID, ref domain.ProducerRef) (prior domain.ProducerRef, hadPrior bool, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, exists := r.data.Clients[userID]
	if !exists {
		return domain.ProducerRef{}, false, false
	}
	prior, hadPrior = p.Producers[ref.Key]
	p.Producers[ref.Key] = ref
	if ref.Key.Type == domain.TypeScreen {
		r.data.ScreenShareProducerID = ref.ID
		r.data.HasScreenShare = true
	}
	return prior, hadPrior, true
}

// ownerOfProducer finds the participant owning producerID, assuming the
// caller already holds r.mu.
func (r *Room) ownerOfProducer(producerID domain.ProducerID) (*domain.Participant, domain.ProducerKey, bool) {
	for _, p := range r.data.Clients {
		for key, ref := range p.Producers {
			if ref.ID == producerID {
				return p, key, true
			}
		}
	}
	return nil, domain.ProducerKey{}, false
}

// CloseProducer locates the owner, removes the producer entry, and clears
// ScreenShareProducerID only if the closed producer's id matches it (§4.3 /
// §4.5 tie-break). A second call for an already-removed id is a no-op
// (P4 idempotence, I5).
func (r *Room) CloseProducer(producerID domain.ProducerID) (ownerID domain.UserID, key domain.ProducerKey, closed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, k, ok := r.ownerOfProducer(producerID)
	if !ok {
		return "", domain.ProducerKey{}, false
	}
	delete(p.Producers, k)
	if r.data.ScreenShareProducerID == producerID {
		r.data.ScreenShareProducerID = ""
		r.data.HasScreenShare = false
	}
	return p.UserID, k, true
}

// ProducersOf returns a copy of userID's current producer map, or nil if
// the participant does not exist.
func (r *Room) ProducersOf(userID domain.UserID) map[domain.ProducerKey]domain.ProducerRef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.data.Clients[userID]
	if !ok {
		return nil
	}
	out := make(map[domain.ProducerKey]domain.ProducerRef, len(p.Producers))
	for k, v := range p.Producers {
		out[k] = v
	}
	return out
}

func (r *Room) HasScreenShare() (domain.ProducerID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data.ScreenShareProducerID, r.data.HasScreenShare
}
