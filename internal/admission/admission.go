// Package admission implements §4.4, the Admission Engine: the join
// decision table and the reconciliation rules that run when room policies
// flip.
package admission

import (
	"time"

	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/dkeye/sfu-control-plane/internal/fanout"
	"github.com/dkeye/sfu-control-plane/internal/identity"
	"github.com/dkeye/sfu-control-plane/internal/room"
)

// Outcome is the result of the §4.4 decision table.
type Outcome int

const (
	OutcomeAdmitAsAdmin Outcome = iota
	OutcomeAdmit
	OutcomeWaitlist
	OutcomeReject
)

type RejectReason string

const (
	ReasonBlocked       RejectReason = "blocked"
	ReasonGuestsDisabled RejectReason = "guests_disabled"
)

// Request is one join attempt.
type Request struct {
	UserKey        domain.UserKey
	SessionID      domain.SessionID
	RequestedMode  domain.Mode
	IsAdminByToken bool
	Socket         domain.SocketHandle
}

// Decision is the table's verdict, evaluated in §4.4's documented order
// (first match wins).
type Decision struct {
	Outcome Outcome
	Reason  RejectReason
}

// Decide evaluates the §4.4 decision table against r's current state.
func Decide(r *room.Room, req Request) Decision {
	if r.IsBlocked(req.UserKey) && !req.IsAdminByToken {
		return Decision{Outcome: OutcomeReject, Reason: ReasonBlocked}
	}
	if req.IsAdminByToken || r.IsAdmin(req.UserKey) {
		return Decision{Outcome: OutcomeAdmitAsAdmin}
	}
	policies := r.Policies()
	if policies.Locked && !r.IsLockedAllowed(req.UserKey) {
		return Decision{Outcome: OutcomeWaitlist}
	}
	if policies.NoGuests && req.UserKey.IsGuest() && !r.IsAllowed(req.UserKey) {
		return Decision{Outcome: OutcomeReject, Reason: ReasonGuestsDisabled}
	}
	return Decision{Outcome: OutcomeAdmit}
}

// Engine orchestrates a full join attempt: decide, mutate room state, and
// report the fanout events the caller must emit.
type Engine struct {
	now func() time.Time
}

func New() *Engine {
	return &Engine{now: time.Now}
}

// Result reports what happened and every event the caller should fan out;
// this package never calls fanout itself so it stays decoupled from the
// transport-facing event types (same split as internal/room).
type Result struct {
	Decision       Decision
	Participant    *domain.Participant
	ClearedPending *domain.PendingEntry // a pending entry the admitted socket superseded on a different session
	Events         []EventToEmit
}

// EventToEmit pairs a fanout.Event with its target: either a single socket
// (Socket != nil) or the whole channel.
type EventToEmit struct {
	Socket  domain.SocketHandle
	Channel domain.ChannelID
	Event   fanout.Event
}

// Join runs the full §4.4 admission decision plus its side effects for one
// join request against r.
func (e *Engine) Join(r *room.Room, req Request) Result {
	decision := Decide(r, req)
	result := Result{Decision: decision}

	switch decision.Outcome {
	case OutcomeReject:
		result.Events = append(result.Events, EventToEmit{
			Socket: req.Socket,
			Event:  fanout.Event{Type: fanout.EventJoinRejected, Payload: map[string]any{"reason": decision.Reason}},
		})
		return result

	case OutcomeWaitlist:
		pending := &domain.PendingEntry{
			UserKey:       req.UserKey,
			SessionID:     req.SessionID,
			Socket:        req.Socket,
			RequestedMode: req.RequestedMode,
			EnrolledAt:    e.now().UnixNano(),
		}
		superseded, hadPrior := r.EnrollPending(pending)
		if hadPrior && superseded != nil {
			result.Events = append(result.Events, EventToEmit{
				Socket: superseded,
				Event:  fanout.Event{Type: fanout.EventJoinSuperseded},
			})
		}
		return result

	default: // OutcomeAdmit, OutcomeAdmitAsAdmin
		userID := identity.ComposeUserID(req.UserKey, req.SessionID)
		mode := req.RequestedMode
		if mode == "" {
			mode = domain.ModeMeeting
		}
		p := domain.NewParticipant(userID, req.UserKey, mode, req.Socket, e.now().UnixNano())
		r.AddParticipant(p)
		result.Participant = p

		if decision.Outcome == OutcomeAdmitAsAdmin {
			r.PromoteToAdmin(userID)
		}

		// If this identity previously had a pending entry from the same
		// session, clear it silently; from a different session, clear it
		// and notify that socket it was approved (§4.4).
		if prior, ok := r.GetPending(req.UserKey); ok {
			r.RemovePending(req.UserKey)
			if prior.SessionID != req.SessionID {
				result.ClearedPending = prior
				result.Events = append(result.Events, EventToEmit{
					Socket: prior.Socket,
					Event:  fanout.Event{Type: fanout.EventJoinApproved},
				})
			}
		}
		return result
	}
}

// ReconcileLockChange implements §4.4's policy-flip reconciliation for the
// `locked` flag. Setting locked=true needs no pending-side action (the
// grandfather clause already ran inside room.SetPolicy). Setting
// locked=false auto-admits every pending entry whose UserKey is already in
// AllowedUserKeys.
func (e *Engine) ReconcileLockChange(r *room.Room, newLocked bool) []Result {
	if newLocked {
		return nil
	}
	var results []Result
	for _, pending := range r.PendingSnapshot() {
		if !r.IsAllowed(pending.UserKey) {
			continue
		}
		r.RemovePending(pending.UserKey)
		res := e.Join(r, Request{
			UserKey:       pending.UserKey,
			SessionID:     pending.SessionID,
			RequestedMode: pending.RequestedMode,
			Socket:        pending.Socket,
		})
		res.Events = append(res.Events, EventToEmit{
			Socket: pending.Socket,
			Event:  fanout.Event{Type: fanout.EventJoinApproved},
		})
		results = append(results, res)
	}
	return results
}
