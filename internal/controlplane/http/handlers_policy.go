package http

import (
	"net/http"

	"github.com/dkeye/sfu-control-plane/internal/admission"
	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/dkeye/sfu-control-plane/internal/fanout"
	"github.com/gin-gonic/gin"
)

func (s *Server) registerPolicyRoutes(r *gin.RouterGroup) {
	r.POST("/admin/rooms/:roomId/policies", s.handleSetPolicies)
	r.POST("/notice", s.handleNotice)
	r.POST("/end", s.handleEndRoom)
}

type policyRequest struct {
	Locked                    *bool `json:"locked,omitempty"`
	ChatLocked                *bool `json:"chatLocked,omitempty"`
	NoGuests                  *bool `json:"noGuests,omitempty"`
	TTSDisabled               *bool `json:"ttsDisabled,omitempty"`
	DMEnabled                 *bool `json:"dmEnabled,omitempty"`
	RequiresMeetingInviteCode *bool `json:"requiresMeetingInviteCode,omitempty"`
}

// policyEvents pairs each Policies field with the event §4.11 fires when it
// changes.
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

func (s *Server) handleSetPolicies(c *gin.Context) {
	roomID := domain.RoomID(c.Param("roomId"))
	r, err := s.resolveRoom(c, roomID)
	if err != nil {
		writeError(c, err)
		return
	}
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	before := r.Policies()
	changed := r.SetPolicy(domain.PolicyFields{
		Locked:                    req.Locked,
		ChatLocked:                req.ChatLocked,
		NoGuests:                  req.NoGuests,
		TTSDisabled:               req.TTSDisabled,
		DMEnabled:                 req.DMEnabled,
		RequiresMeetingInviteCode: req.RequiresMeetingInviteCode,
	})
	after := r.Policies()

	if changed {
		for _, pe := range policyEvents {
			if pe.changed(before, after) {
				s.Fanout.SendToChannel(r.ChannelID(), fanout.Event{Type: pe.event, Payload: after})
			}
		}
		if before.Locked && !after.Locked {
			for _, res := range s.Admission.ReconcileLockChange(r, after.Locked) {
				s.emitAdmissionEvents(r.ChannelID(), res)
			}
		}
	}
	c.JSON(http.StatusOK, after)
}

// emitAdmissionEvents fans out every event an admission.Result collected.
func (s *Server) emitAdmissionEvents(channelID domain.ChannelID, res admission.Result) {
	for _, e := range res.Events {
		if e.Socket != nil {
			_ = s.Fanout.SendToSocket(e.Socket, e.Event)
			continue
		}
		s.Fanout.SendToChannel(channelID, e.Event)
	}
}

type noticeRequest struct {
	RoomID  string `json:"roomId" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (s *Server) handleNotice(c *gin.Context) {
	var req noticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := s.resolveRoom(c, domain.RoomID(req.RoomID))
	if err != nil {
		writeError(c, err)
		return
	}
	s.Fanout.SendToChannel(r.ChannelID(), fanout.Event{Type: fanout.EventAdminNotice, Payload: gin.H{"message": req.Message}})
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

type endRoomRequest struct {
	RoomID string `json:"roomId" binding:"required"`
}

func (s *Server) handleEndRoom(c *gin.Context) {
	var req endRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := s.resolveRoom(c, domain.RoomID(req.RoomID))
	if err != nil {
		writeError(c, err)
		return
	}
	channelID := r.ChannelID()
	s.Fanout.SendToChannel(channelID, fanout.Event{Type: fanout.EventRoomEnded})
	s.Fanout.DisconnectChannel(channelID, true)
	s.Transcription.Purge(channelID)
	s.Registry.ForceClose(c.Request.Context(), channelID, s.MediaPlane)
	if s.MediaPlane != nil {
		s.MediaPlane.CloseRouter(channelID)
	}
	c.JSON(http.StatusOK, gin.H{"ended": true})
}
