package socket

import (
	"encoding/json"

	"github.com/dkeye/sfu-control-plane/internal/admission"
	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/dkeye/sfu-control-plane/internal/identity"
)

type joinRoomRequest struct {
	ClientID        string `json:"clientId"`
	RoomID          string `json:"roomId" binding:"required"`
	UserKey         string `json:"userKey"`
	SessionID       string `json:"sessionId" binding:"required"`
	RequestedMode   string `json:"requestedMode"`
	IsAdminByToken  bool   `json:"isAdminByToken"`
	RTPCapabilities any    `json:"rtpCapabilities"`
}

// handleJoinRoom implements the §6 joinRoom event: {rtpCapabilities,
// status} where status is "joined" for an immediate admit or "waiting" for
// a waiting-room enrollment. Waiting callers later receive joinApproved or
// joinRejected asynchronously over the same connection.
func (ctl *Controller) handleJoinRoom(c *Conn, sess *session, raw json.RawMessage) map[string]any {
	var req joinRoomRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nack("invalid joinRoom payload")
	}
	if req.RoomID == "" || req.SessionID == "" {
		return nack("roomId and sessionId are required")
	}

	userKey := domain.UserKey(req.UserKey)
	if userKey == "" {
		userKey = identity.DeriveGuestKey(domain.SessionID(req.SessionID))
	}

	r := ctl.Registry.CreateIfAbsent(domain.ClientID(req.ClientID), domain.RoomID(req.RoomID))
	result := ctl.Admission.Join(r, admission.Request{
		UserKey:        userKey,
		SessionID:      domain.SessionID(req.SessionID),
		RequestedMode:  domain.Mode(req.RequestedMode),
		IsAdminByToken: req.IsAdminByToken,
		Socket:         c,
	})
	emitResultEvents(ctl, r.ChannelID(), result)

	switch result.Decision.Outcome {
	case admission.OutcomeReject:
		return nack(string(result.Decision.Reason))
	case admission.OutcomeWaitlist:
		return ack(map[string]any{"status": "waiting", "rtpCapabilities": req.RTPCapabilities})
	default:
		sess.room = r
		sess.userID = result.Participant.UserID
		sess.userKey = result.Participant.UserKey
		sess.sessID = domain.SessionID(req.SessionID)
		return ack(map[string]any{"status": "joined", "rtpCapabilities": req.RTPCapabilities})
	}
}

func emitResultEvents(ctl *Controller, channelID domain.ChannelID, result admission.Result) {
	for _, e := range result.Events {
		if e.Socket != nil {
			_ = ctl.Fanout.SendToSocket(e.Socket, e.Event)
			continue
		}
		ctl.Fanout.SendToChannel(channelID, e.Event)
	}
}
