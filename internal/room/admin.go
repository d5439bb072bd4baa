package room

import "github.com/dkeye/sfu-control-plane/internal/domain"

// PromoteToAdmin adds userID's UserKey to AdminUserKeys. It fails (ok=false)
// if the participant's Mode cannot become an admin (I8: ghosts and webinar
// attendees may not).
func (r *Room) PromoteToAdmin(userID domain.UserID) (changed bool, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, exists := r.data.Clients[userID]
	if !exists {
		return false, false
	}
	if !p.Mode.CanBecomeAdmin() {
		return false, false
	}
	if _, already := r.data.AdminUserKeys[p.UserKey]; already {
		return false, true
	}
	r.data.AdminUserKeys[p.UserKey] = struct{}{}
	return true, true
}

// DemoteAdmin removes key from AdminUserKeys. Demoting the current host
// also clears HostUserKey (I6 would otherwise be violated).
func (r *Room) DemoteAdmin(key domain.UserKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data.AdminUserKeys[key]; !ok {
		return false
	}
	delete(r.data.AdminUserKeys, key)
	if r.data.HostUserKey == key {
		r.data.HostUserKey = ""
	}
	return true
}

// SetHost sets HostUserKey, promoting key to admin first if needed (I6:
// hostUserKey must be a member of adminUserKeys).
func (r *Room) SetHost(key domain.UserKey) (changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data.HostUserKey == key {
		return false
	}
	if _, ok := r.data.AdminUserKeys[key]; !ok {
		r.data.AdminUserKeys[key] = struct{}{}
	}
	r.data.HostUserKey = key
	return true
}

func (r *Room) HostUserKey() domain.UserKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data.HostUserKey
}

// AdminKeysSnapshot returns a sorted copy of the current admin UserKeys
// (§4.6 RoomSnapshot: access lists sorted).
func (r *Room) AdminKeysSnapshot() []domain.UserKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.UserKey, 0, len(r.data.AdminUserKeys))
	for k := range r.data.AdminUserKeys {
		out = append(out, k)
	}
	sortUserKeys(out)
	return out
}

func sortUserKeys(keys []domain.UserKey) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}
