// Package moderation implements §4.5, the Moderation Engine: producer
// close by id/selector, bulk media enforcement, kick, block-with-kick, and
// host transfer.
package moderation

import (
	"context"
	"sync"

	"github.com/dkeye/sfu-control-plane/internal/apperr"
	"github.com/dkeye/sfu-control-plane/internal/core"
	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/dkeye/sfu-control-plane/internal/fanout"
	"github.com/dkeye/sfu-control-plane/internal/room"
	"github.com/sourcegraph/conc"
)

type Engine struct {
	mp core.MediaPlane
}

func New(mp core.MediaPlane) *Engine {
	return &Engine{mp: mp}
}

// ClosedProducer describes one producer the engine closed.
type ClosedProducer struct {
	OwnerID domain.UserID
	Key     domain.ProducerKey
	WasScreen bool
}

// CloseProducerByID implements §4.5's closeProducerById. A second call for
// an already-removed id reports closed=false (P4).
func (e *Engine) CloseProducerByID(ctx context.Context, r *room.Room, producerID domain.ProducerID) (ClosedProducer, bool) {
	screenID, hadScreen := r.HasScreenShare()
	wasScreen := hadScreen && screenID == producerID

	ownerID, key, closed := r.CloseProducer(producerID)
	if !closed {
		return ClosedProducer{}, false
	}
	if e.mp != nil {
		_ = e.mp.CloseProducer(ctx, producerID)
	}
	return ClosedProducer{OwnerID: ownerID, Key: key, WasScreen: wasScreen}, true
}

// CloseClientProducers implements §4.5's closeClientProducers: enumerate
// userID's producers, filter by selector, close each, and return what was
// closed so the caller can emit one aggregate mediaEnforced.
func (e *Engine) CloseClientProducers(ctx context.Context, r *room.Room, userID domain.UserID, selector domain.MediaSelector) []ClosedProducer {
	producers := r.ProducersOf(userID)
	var out []ClosedProducer
	for key, ref := range producers {
		if !selector.Matches(key) {
			continue
		}
		if cp, ok := e.CloseProducerByID(ctx, r, ref.ID); ok {
			out = append(out, cp)
		}
	}
	return out
}

// BulkResult aggregates a bulkClose run.
type BulkResult struct {
	ClosedByUser map[domain.UserID][]ClosedProducer
}

func (b BulkResult) TotalClosed() int {
	n := 0
	for _, l := range b.ClosedByUser {
		n += len(l)
	}
	return n
}

// BulkFlags controls which participant categories bulkClose visits (§4.5:
// "bulkClose never includes admins unless includeAdmins=true is explicitly
// set").
type BulkFlags struct {
	IncludeAdmins   bool
	IncludeGhosts   bool
	IncludeAttendees bool
}

// BulkClose implements §4.5's bulkClose, fanning the per-participant work
// out across a conc.WaitGroup: every participant's work runs to completion,
// and a panic in any of them is re-raised to the caller once all finish.
func (e *Engine) BulkClose(ctx context.Context, r *room.Room, selector domain.MediaSelector, flags BulkFlags) BulkResult {
	snapshot := r.ParticipantsSnapshot()
	result := BulkResult{ClosedByUser: make(map[domain.UserID][]ClosedProducer)}

	var mu sync.Mutex
	var wg conc.WaitGroup
	for _, p := range snapshot {
		p := p
		if !flags.IncludeAdmins && (p.Role == domain.RoleAdmin || p.Role == domain.RoleHost) {
			continue
		}
		if !flags.IncludeGhosts && p.Role == domain.RoleGhost {
			continue
		}
		if !flags.IncludeAttendees && p.Role == domain.RoleAttendee {
			continue
		}
		wg.Go(func() {
			closed := e.CloseClientProducers(ctx, r, p.UserID, selector)
			if len(closed) == 0 {
				return
			}
			mu.Lock()
			result.ClosedByUser[p.UserID] = closed
			mu.Unlock()
		})
	}
	wg.Wait()
	return result
}

// ExceptOwnerAndAttendees builds the fanout exclusion set for a
// peer-facing producerClosed broadcast: the closed producer's owner plus
// every webinar attendee, per §4.5.
func (e *Engine) ExceptOwnerAndAttendees(r *room.Room, ownerID domain.UserID) map[domain.SocketHandle]struct{} {
	except := make(map[domain.SocketHandle]struct{})
	if p, ok := r.GetParticipant(ownerID); ok && p.Socket != nil {
		except[p.Socket] = struct{}{}
	}
	for _, snap := range r.ParticipantsSnapshot() {
		if snap.Role != domain.RoleAttendee {
			continue
		}
		if p, ok := r.GetParticipant(snap.UserID); ok && p.Socket != nil {
			except[p.Socket] = struct{}{}
		}
	}
	return except
}

// Kick implements §4.5's kick: the caller sends `kicked` and disconnects
// the socket; kick never mutates access lists.
func Kick(sock domain.SocketHandle, reason string) {
	if sock == nil {
		return
	}
	_ = sock.Send(string(fanout.EventKicked), map[string]any{"reason": reason})
	sock.Disconnect(true)
}

// BlockIdentity implements §4.5's blockIdentity: insert into
// BlockedUserKeys, reject any pending entry for the same key, and
// optionally kick every live session of that identity.
func (e *Engine) BlockIdentity(r *room.Room, key domain.UserKey, kickPresent bool, reason string) (kicked []domain.UserID) {
	r.BlockUser(key)
	if pending, ok := r.RemovePending(key); ok && pending.Socket != nil {
		_ = pending.Socket.Send(string(fanout.EventJoinRejected), map[string]any{"reason": "blocked"})
	}
	if !kickPresent {
		return nil
	}
	for _, uid := range r.UserIDsForKey(key) {
		if p, ok := r.GetParticipant(uid); ok {
			Kick(p.Socket, reason)
			kicked = append(kicked, uid)
		}
	}
	return kicked
}

// TransferHost implements §4.5's transferHost: validates the target is
// eligible (not ghost, not attendee), promotes to admin if needed, and sets
// HostUserKey.
func (e *Engine) TransferHost(r *room.Room, toUserID domain.UserID) error {
	p, ok := r.GetParticipant(toUserID)
	if !ok {
		return apperr.NotFound("target participant not found")
	}
	if !p.Mode.CanBecomeAdmin() {
		return apperr.Conflict("target cannot become host: ineligible mode")
	}
	r.PromoteToAdmin(toUserID)
	r.SetHost(p.UserKey)
	return nil
}
