package socket

import (
	"context"
	"encoding/json"

	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/dkeye/sfu-control-plane/internal/fanout"
	"github.com/dkeye/sfu-control-plane/internal/moderation"
)

// policyEvents pairs each Policies field with the event §4.11 fires when it
// changes, mirroring the operator HTTP surface's table.
var policyEvents = []struct {
	changed func(domain.Policies, domain.Policies) bool
	event   fanout.EventType
}{
	{func(a, b domain.Policies) bool { return a.Locked != b.Locked }, fanout.EventRoomLockChanged},
	{func(a, b domain.Policies) bool { return a.ChatLocked != b.ChatLocked }, fanout.EventChatLockChanged},
	{func(a, b domain.Policies) bool { return a.NoGuests != b.NoGuests }, fanout.EventNoGuestsChanged},
	{func(a, b domain.Policies) bool { return a.TTSDisabled != b.TTSDisabled }, fanout.EventTTSDisabledChanged},
	{func(a, b domain.Policies) bool { return a.DMEnabled != b.DMEnabled }, fanout.EventDMStateChanged},
}

type adminHandlerFunc func(ctl *Controller, c *Conn, sess *session, payload json.RawMessage) map[string]any

var adminHandlers = map[string]adminHandlerFunc{
	"admin:kick":          handleAdminKick,
	"admin:mute":          handleAdminMute,
	"admin:videoOff":      handleAdminVideoOff,
	"admin:stopScreen":    handleAdminStopScreen,
	"admin:block":         handleAdminBlock,
	"admin:unblock":       handleAdminUnblock,
	"admin:closeProducer": handleAdminCloseProducer,
	"admin:bulkClose":     handleAdminBulkClose,
	"admin:setPolicies":   handleAdminSetPolicies,
	"admin:clearHands":    handleAdminClearHands,
	"admin:transferHost":  handleAdminTransferHost,
}

type userTargetRequest struct {
	UserID string `json:"userId" binding:"required"`
	Reason string `json:"reason"`
}

func decodeOrNack(payload json.RawMessage, v any) map[string]any {
	if err := json.Unmarshal(payload, v); err != nil {
		return nack("invalid payload")
	}
	return nil
}

func handleAdminKick(ctl *Controller, c *Conn, sess *session, payload json.RawMessage) map[string]any {
	var req userTargetRequest
	if n := decodeOrNack(payload, &req); n != nil {
		return n
	}
	p, ok := sess.room.GetParticipant(domain.UserID(req.UserID))
	if !ok {
		return nack("participant not found")
	}
	moderation.Kick(p.Socket, req.Reason)
	return ack(nil)
}

func closeAndReport(ctl *Controller, sess *session, userID domain.UserID, selector domain.MediaSelector, reason string) map[string]any {
	closed := ctl.Moderation.CloseClientProducers(context.Background(), sess.room, userID, selector)
	if len(closed) == 0 {
		return ack(map[string]any{"closed": 0})
	}
	except := ctl.Moderation.ExceptOwnerAndAttendees(sess.room, userID)
	for _, cp := range closed {
		ctl.Fanout.SendToChannelExcept(sess.room.ChannelID(), fanout.Event{
			Type:    fanout.EventProducerClosed,
			Payload: map[string]any{"userId": userID, "kind": cp.Key.Kind, "type": cp.Key.Type},
		}, except)
	}
	if p, ok := sess.room.GetParticipant(userID); ok {
		_ = ctl.Fanout.SendToSocket(p.Socket, fanout.Event{Type: fanout.EventAdminMediaEnforced, Payload: map[string]any{"reason": reason, "count": len(closed)}})
	}
	ctl.Fanout.SendToChannel(sess.room.ChannelID(), fanout.Event{Type: fanout.EventAdminProducerClosed, Payload: map[string]any{"userId": userID, "count": len(closed)}})
	return ack(map[string]any{"closed": len(closed)})
}

func handleAdminMute(ctl *Controller, c *Conn, sess *session, payload json.RawMessage) map[string]any {
	var req userTargetRequest
	if n := decodeOrNack(payload, &req); n != nil {
		return n
	}
	return closeAndReport(ctl, sess, domain.UserID(req.UserID), domain.MediaSelector{Kinds: []domain.MediaKind{domain.KindAudio}}, req.Reason)
}

func handleAdminVideoOff(ctl *Controller, c *Conn, sess *session, payload json.RawMessage) map[string]any {
	var req userTargetRequest
	if n := decodeOrNack(payload, &req); n != nil {
		return n
	}
	return closeAndReport(ctl, sess, domain.UserID(req.UserID), domain.MediaSelector{Kinds: []domain.MediaKind{domain.KindVideo}, Types: []domain.ProducerType{domain.TypeWebcam}}, req.Reason)
}

func handleAdminStopScreen(ctl *Controller, c *Conn, sess *session, payload json.RawMessage) map[string]any {
	var req userTargetRequest
	if n := decodeOrNack(payload, &req); n != nil {
		return n
	}
	return closeAndReport(ctl, sess, domain.UserID(req.UserID), domain.MediaSelector{Types: []domain.ProducerType{domain.TypeScreen}}, req.Reason)
}

type blockTargetRequest struct {
	UserKey     string `json:"userKey" binding:"required"`
	KickPresent bool   `json:"kickPresent"`
	Reason      string `json:"reason"`
}

func handleAdminBlock(ctl *Controller, c *Conn, sess *session, payload json.RawMessage) map[string]any {
	var req blockTargetRequest
	if n := decodeOrNack(payload, &req); n != nil {
		return n
	}
	kicked := ctl.Moderation.BlockIdentity(sess.room, domain.UserKey(req.UserKey), req.KickPresent, req.Reason)
	return ack(map[string]any{"kicked": kicked})
}

func handleAdminUnblock(ctl *Controller, c *Conn, sess *session, payload json.RawMessage) map[string]any {
	var req blockTargetRequest
	if n := decodeOrNack(payload, &req); n != nil {
		return n
	}
	sess.room.UnblockUser(domain.UserKey(req.UserKey))
	return ack(nil)
}

type closeProducerRequest struct {
	ProducerID string `json:"producerId" binding:"required"`
}

func handleAdminCloseProducer(ctl *Controller, c *Conn, sess *session, payload json.RawMessage) map[string]any {
	var req closeProducerRequest
	if n := decodeOrNack(payload, &req); n != nil {
		return n
	}
	closed, ok := ctl.Moderation.CloseProducerByID(context.Background(), sess.room, domain.ProducerID(req.ProducerID))
	if !ok {
		return ack(map[string]any{"closed": false})
	}
	ctl.Fanout.SendToChannelExcept(sess.room.ChannelID(), fanout.Event{
		Type:    fanout.EventProducerClosed,
		Payload: map[string]any{"userId": closed.OwnerID, "kind": closed.Key.Kind, "type": closed.Key.Type},
	}, ctl.Moderation.ExceptOwnerAndAttendees(sess.room, closed.OwnerID))
	ctl.Fanout.SendToChannel(sess.room.ChannelID(), fanout.Event{
		Type:    fanout.EventAdminProducerClosed,
		Payload: map[string]any{"userId": closed.OwnerID, "kind": closed.Key.Kind, "type": closed.Key.Type},
	})
	if p, ok := sess.room.GetParticipant(closed.OwnerID); ok {
		_ = ctl.Fanout.SendToSocket(p.Socket, fanout.Event{
			Type:    fanout.EventAdminMediaEnforced,
			Payload: map[string]any{"kind": closed.Key.Kind, "type": closed.Key.Type},
		})
	}
	return ack(map[string]any{"closed": true})
}

type bulkCloseRequest struct {
	Kinds            []domain.MediaKind    `json:"kinds"`
	Types            []domain.ProducerType `json:"types"`
	Reason           string                `json:"reason"`
	IncludeAdmins    bool                  `json:"includeAdmins"`
	IncludeGhosts    bool                  `json:"includeGhosts"`
	IncludeAttendees bool                  `json:"includeAttendees"`
}

func handleAdminBulkClose(ctl *Controller, c *Conn, sess *session, payload json.RawMessage) map[string]any {
	var req bulkCloseRequest
	if n := decodeOrNack(payload, &req); n != nil {
		return n
	}
	result := ctl.Moderation.BulkClose(context.Background(), sess.room, domain.MediaSelector{Kinds: req.Kinds, Types: req.Types}, moderation.BulkFlags{
		IncludeAdmins:    req.IncludeAdmins,
		IncludeGhosts:    req.IncludeGhosts,
		IncludeAttendees: req.IncludeAttendees,
	})
	for userID, closed := range result.ClosedByUser {
		except := ctl.Moderation.ExceptOwnerAndAttendees(sess.room, userID)
		for _, cp := range closed {
			ctl.Fanout.SendToChannelExcept(sess.room.ChannelID(), fanout.Event{
				Type:    fanout.EventProducerClosed,
				Payload: map[string]any{"userId": userID, "kind": cp.Key.Kind, "type": cp.Key.Type},
			}, except)
		}
		if p, ok := sess.room.GetParticipant(userID); ok {
			_ = ctl.Fanout.SendToSocket(p.Socket, fanout.Event{Type: fanout.EventAdminMediaEnforced, Payload: map[string]any{"reason": req.Reason, "count": len(closed)}})
		}
	}
	ctl.Fanout.SendToChannel(sess.room.ChannelID(), fanout.Event{Type: fanout.EventAdminBulkEnforced, Payload: map[string]any{"reason": req.Reason, "closed": result.TotalClosed(), "users": len(result.ClosedByUser)}})
	return ack(map[string]any{"closed": result.TotalClosed()})
}

type setPoliciesRequest struct {
	Locked      *bool `json:"locked,omitempty"`
	ChatLocked  *bool `json:"chatLocked,omitempty"`
	NoGuests    *bool `json:"noGuests,omitempty"`
	TTSDisabled *bool `json:"ttsDisabled,omitempty"`
	DMEnabled   *bool `json:"dmEnabled,omitempty"`
}

func handleAdminSetPolicies(ctl *Controller, c *Conn, sess *session, payload json.RawMessage) map[string]any {
	var req setPoliciesRequest
	if n := decodeOrNack(payload, &req); n != nil {
		return n
	}
	before := sess.room.Policies()
	changed := sess.room.SetPolicy(domain.PolicyFields{
		Locked:      req.Locked,
		ChatLocked:  req.ChatLocked,
		NoGuests:    req.NoGuests,
		TTSDisabled: req.TTSDisabled,
		DMEnabled:   req.DMEnabled,
	})
	after := sess.room.Policies()
	if changed {
		for _, pe := range policyEvents {
			if pe.changed(before, after) {
				ctl.Fanout.SendToChannel(sess.room.ChannelID(), fanout.Event{Type: pe.event, Payload: after})
			}
		}
		if before.Locked && !after.Locked {
			for _, res := range ctl.Admission.ReconcileLockChange(sess.room, after.Locked) {
				emitResultEvents(ctl, sess.room.ChannelID(), res)
			}
		}
	}
	return ack(map[string]any{"policies": after})
}

func handleAdminClearHands(ctl *Controller, c *Conn, sess *session, payload json.RawMessage) map[string]any {
	if sess.room.ClearHands() {
		ctl.Fanout.SendToChannel(sess.room.ChannelID(), fanout.Event{Type: fanout.EventAdminHandsCleared})
	}
	return ack(nil)
}

type transferHostRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func handleAdminTransferHost(ctl *Controller, c *Conn, sess *session, payload json.RawMessage) map[string]any {
	var req transferHostRequest
	if n := decodeOrNack(payload, &req); n != nil {
		return n
	}
	if err := ctl.Moderation.TransferHost(sess.room, domain.UserID(req.UserID)); err != nil {
		return nack(err.Error())
	}
	ctl.Fanout.SendToChannel(sess.room.ChannelID(), fanout.Event{Type: fanout.EventHostChanged, Payload: map[string]any{"userId": req.UserID}})
	return ack(nil)
}
