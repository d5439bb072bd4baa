package room

import "github.com/dkeye/sfu-control-plane/internal/domain"

// SetPolicy applies only the non-nil fields of f. On locked:true it copies
// every current participant's UserKey into LockedAllowedUserKeys (the
// grandfather clause of §4.3).
func (r *Room) SetPolicy(f domain.PolicyFields) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	changed := r.data.Policies.Apply(f)
	if changed && f.Locked != nil && *f.Locked {
		for _, p := range r.data.Clients {
			r.data.LockedAllowedUserKeys[p.UserKey] = struct{}{}
		}
	}
	return changed
}

func (r *Room) Policies() domain.Policies {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data.Policies
}

func (r *Room) AllowUser(key domain.UserKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data.AllowedUserKeys[key]; ok {
		return false
	}
	r.data.AllowedUserKeys[key] = struct{}{}
	return true
}

func (r *Room) RevokeAllowedUser(key domain.UserKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data.AllowedUserKeys[key]; !ok {
		return false
	}
	delete(r.data.AllowedUserKeys, key)
	return true
}

func (r *Room) AllowLockedUser(key domain.UserKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data.LockedAllowedUserKeys[key]; ok {
		return false
	}
	r.data.LockedAllowedUserKeys[key] = struct{}{}
	return true
}

func (r *Room) RevokeLockedAllowedUser(key domain.UserKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data.LockedAllowedUserKeys[key]; !ok {
		return false
	}
	delete(r.data.LockedAllowedUserKeys, key)
	return true
}

// BlockUser inserts key into BlockedUserKeys. It does not implicitly remove
// key from AllowedUserKeys (I4 is enforced at the admission decision, where
// block wins regardless of allow membership).
func (r *Room) BlockUser(key domain.UserKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data.BlockedUserKeys[key]; ok {
		return false
	}
	r.data.BlockedUserKeys[key] = struct{}{}
	return true
}

// UnblockUser removes key from BlockedUserKeys only; it never restores a
// prior AllowedUserKeys membership (open question #2, resolved in DESIGN.md).
func (r *Room) UnblockUser(key domain.UserKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data.BlockedUserKeys[key]; !ok {
		return false
	}
	delete(r.data.BlockedUserKeys, key)
	return true
}

func (r *Room) IsBlocked(key domain.UserKey) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.data.BlockedUserKeys[key]
	return ok
}

func (r *Room) IsAllowed(key domain.UserKey) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.data.AllowedUserKeys[key]
	return ok
}

func (r *Room) IsLockedAllowed(key domain.UserKey) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.data.LockedAllowedUserKeys[key]
	return ok
}

func (r *Room) IsAdmin(key domain.UserKey) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.data.AdminUserKeys[key]
	return ok
}
