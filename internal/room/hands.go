package room

import "github.com/dkeye/sfu-control-plane/internal/domain"

// RaiseHand appends userID to the ordered HandRaisedByUserID set if absent.
func (r *Room) RaiseHand(userID domain.UserID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.data.HandRaisedByUserID {
		if id == userID {
			return false
		}
	}
	r.data.HandRaisedByUserID = append(r.data.HandRaisedByUserID, userID)
	return true
}

func (r *Room) LowerHand(userID domain.UserID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.data.HandRaisedByUserID)
	removeUserIDFromSlice(&r.data.HandRaisedByUserID, userID)
	return len(r.data.HandRaisedByUserID) != before
}

// ClearHands lowers every raised hand uniformly, including the host's
// (open question #4, resolved in DESIGN.md).
func (r *Room) ClearHands() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.data.HandRaisedByUserID) == 0 {
		return false
	}
	r.data.HandRaisedByUserID = nil
	return true
}

func (r *Room) RaisedHandsSnapshot() []domain.UserID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.UserID, len(r.data.HandRaisedByUserID))
	copy(out, r.data.HandRaisedByUserID)
	return out
}
