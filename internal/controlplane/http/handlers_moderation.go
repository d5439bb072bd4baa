package http

import (
	"net/http"

	"github.com/dkeye/sfu-control-plane/internal/apperr"
	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/dkeye/sfu-control-plane/internal/fanout"
	"github.com/dkeye/sfu-control-plane/internal/moderation"
	"github.com/dkeye/sfu-control-plane/internal/room"
	"github.com/gin-gonic/gin"
)

func (s *Server) moderationEngine() *moderation.Engine { return s.Moderation }

func (s *Server) registerModerationRoutes(r *gin.RouterGroup) {
	r.POST("/admin/rooms/:roomId/producers/:producerId/close", s.handleCloseProducer)
	r.POST("/users/:userId/kick", s.handleKick)
	r.POST("/users/:userId/media", s.handleCloseMedia)
	r.POST("/users/:userId/mute", s.handleMute)
	r.POST("/users/:userId/video-off", s.handleVideoOff)
	r.POST("/users/:userId/stop-screen", s.handleStopScreen)
	r.POST("/users/:userId/block", s.handleBlockUser)
	r.POST("/users/:userId/unblock", s.handleUnblockUser)
	r.POST("/users/remove-non-admins", s.handleRemoveNonAdmins)
	r.POST("/admin/rooms/:roomId/bulk-close", s.handleBulkClose)
}

type roomScopedRequest struct {
	RoomID string `json:"roomId" binding:"required"`
	Reason string `json:"reason"`
}

func (s *Server) handleCloseProducer(c *gin.Context) {
	roomID := domain.RoomID(c.Param("roomId"))
	r, err := s.resolveRoom(c, roomID)
	if err != nil {
		writeError(c, err)
		return
	}
	producerID := domain.ProducerID(c.Param("producerId"))
	closed, ok := s.moderationEngine().CloseProducerByID(c.Request.Context(), r, producerID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"closed": false})
		return
	}
	s.Fanout.SendToChannelExcept(r.ChannelID(), fanout.Event{
		Type:    fanout.EventProducerClosed,
		Payload: gin.H{"userId": closed.OwnerID, "kind": closed.Key.Kind, "type": closed.Key.Type},
	}, s.moderationEngine().ExceptOwnerAndAttendees(r, closed.OwnerID))
	s.Fanout.SendToChannel(r.ChannelID(), fanout.Event{
		Type:    fanout.EventAdminProducerClosed,
		Payload: gin.H{"userId": closed.OwnerID, "kind": closed.Key.Kind, "type": closed.Key.Type},
	})
	if p, ok := r.GetParticipant(closed.OwnerID); ok {
		_ = s.Fanout.SendToSocket(p.Socket, fanout.Event{
			Type:    fanout.EventAdminMediaEnforced,
			Payload: gin.H{"kind": closed.Key.Kind, "type": closed.Key.Type},
		})
	}
	c.JSON(http.StatusOK, gin.H{"closed": true, "userId": closed.OwnerID, "kind": closed.Key.Kind, "type": closed.Key.Type})
}

func (s *Server) handleKick(c *gin.Context) {
	var req roomScopedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := s.resolveRoom(c, domain.RoomID(req.RoomID))
	if err != nil {
		writeError(c, err)
		return
	}
	userID := domain.UserID(c.Param("userId"))
	p, ok := r.GetParticipant(userID)
	if !ok {
		writeError(c, apperr.NotFound("participant not found"))
		return
	}
	moderation.Kick(p.Socket, req.Reason)
	c.JSON(http.StatusOK, gin.H{"kicked": true})
}

type mediaActionRequest struct {
	RoomID string               `json:"roomId" binding:"required"`
	Kinds  []domain.MediaKind   `json:"kinds"`
	Types  []domain.ProducerType `json:"types"`
	Reason string               `json:"reason"`
}

func (s *Server) handleCloseMedia(c *gin.Context) {
	var req mediaActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := s.resolveRoom(c, domain.RoomID(req.RoomID))
	if err != nil {
		writeError(c, err)
		return
	}
	s.closeAndNotify(c, r, domain.UserID(c.Param("userId")), domain.MediaSelector{Kinds: req.Kinds, Types: req.Types}, req.Reason)
}

func (s *Server) handleMute(c *gin.Context) {
	s.closeSimple(c, domain.MediaSelector{Kinds: []domain.MediaKind{domain.KindAudio}})
}

func (s *Server) handleVideoOff(c *gin.Context) {
	s.closeSimple(c, domain.MediaSelector{Kinds: []domain.MediaKind{domain.KindVideo}, Types: []domain.ProducerType{domain.TypeWebcam}})
}

func (s *Server) handleStopScreen(c *gin.Context) {
	s.closeSimple(c, domain.MediaSelector{Types: []domain.ProducerType{domain.TypeScreen}})
}

func (s *Server) closeSimple(c *gin.Context, selector domain.MediaSelector) {
	var req roomScopedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := s.resolveRoom(c, domain.RoomID(req.RoomID))
	if err != nil {
		writeError(c, err)
		return
	}
	s.closeAndNotify(c, r, domain.UserID(c.Param("userId")), selector, req.Reason)
}

func (s *Server) closeAndNotify(c *gin.Context, r *room.Room, userID domain.UserID, selector domain.MediaSelector, reason string) {
	closed := s.moderationEngine().CloseClientProducers(c.Request.Context(), r, userID, selector)
	if len(closed) == 0 {
		c.JSON(http.StatusOK, gin.H{"closed": 0})
		return
	}
	except := s.moderationEngine().ExceptOwnerAndAttendees(r, userID)
	for _, cp := range closed {
		s.Fanout.SendToChannelExcept(r.ChannelID(), fanout.Event{
			Type:    fanout.EventProducerClosed,
			Payload: gin.H{"userId": userID, "kind": cp.Key.Kind, "type": cp.Key.Type},
		}, except)
	}
	if p, ok := r.GetParticipant(userID); ok {
		_ = s.Fanout.SendToSocket(p.Socket, fanout.Event{Type: fanout.EventAdminMediaEnforced, Payload: gin.H{"reason": reason, "count": len(closed)}})
	}
	s.Fanout.SendToChannel(r.ChannelID(), fanout.Event{Type: fanout.EventAdminProducerClosed, Payload: gin.H{"userId": userID, "count": len(closed)}})
	c.JSON(http.StatusOK, gin.H{"closed": len(closed)})
}

type blockRequest struct {
	RoomID      string `json:"roomId" binding:"required"`
	KickPresent bool   `json:"kickPresent"`
	Reason      string `json:"reason"`
}

func (s *Server) handleBlockUser(c *gin.Context) {
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := s.resolveRoom(c, domain.RoomID(req.RoomID))
	if err != nil {
		writeError(c, err)
		return
	}
	key := domain.UserKey(c.Param("userId"))
	kicked := s.moderationEngine().BlockIdentity(r, key, req.KickPresent, req.Reason)
	c.JSON(http.StatusOK, gin.H{"blocked": true, "kicked": kicked})
}

func (s *Server) handleUnblockUser(c *gin.Context) {
	var req roomScopedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := s.resolveRoom(c, domain.RoomID(req.RoomID))
	if err != nil {
		writeError(c, err)
		return
	}
	r.UnblockUser(domain.UserKey(c.Param("userId")))
	c.JSON(http.StatusOK, gin.H{"unblocked": true})
}

type bulkCloseRequest struct {
	RoomID           string                `json:"roomId" binding:"required"`
	Kinds            []domain.MediaKind    `json:"kinds"`
	Types            []domain.ProducerType `json:"types"`
	Reason           string                `json:"reason"`
	IncludeAdmins    bool                  `json:"includeAdmins"`
	IncludeGhosts    bool                  `json:"includeGhosts"`
	IncludeAttendees bool                  `json:"includeAttendees"`
}

func (s *Server) handleBulkClose(c *gin.Context) {
	var req bulkCloseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := s.resolveRoom(c, domain.RoomID(req.RoomID))
	if err != nil {
		writeError(c, err)
		return
	}
	result := s.moderationEngine().BulkClose(c.Request.Context(), r, domain.MediaSelector{Kinds: req.Kinds, Types: req.Types}, moderation.BulkFlags{
		IncludeAdmins:    req.IncludeAdmins,
		IncludeGhosts:    req.IncludeGhosts,
		IncludeAttendees: req.IncludeAttendees,
	})
	for userID, closed := range result.ClosedByUser {
		except := s.moderationEngine().ExceptOwnerAndAttendees(r, userID)
		for _, cp := range closed {
			s.Fanout.SendToChannelExcept(r.ChannelID(), fanout.Event{
				Type:    fanout.EventProducerClosed,
				Payload: gin.H{"userId": userID, "kind": cp.Key.Kind, "type": cp.Key.Type},
			}, except)
		}
		if p, ok := r.GetParticipant(userID); ok {
			_ = s.Fanout.SendToSocket(p.Socket, fanout.Event{Type: fanout.EventAdminMediaEnforced, Payload: gin.H{"reason": req.Reason, "count": len(closed)}})
		}
	}
	s.Fanout.SendToChannel(r.ChannelID(), fanout.Event{Type: fanout.EventAdminBulkEnforced, Payload: gin.H{"reason": req.Reason, "closed": result.TotalClosed(), "users": len(result.ClosedByUser)}})
	c.JSON(http.StatusOK, gin.H{"closed": result.TotalClosed(), "users": len(result.ClosedByUser)})
}

func (s *Server) handleRemoveNonAdmins(c *gin.Context) {
	var req roomScopedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := s.resolveRoom(c, domain.RoomID(req.RoomID))
	if err != nil {
		writeError(c, err)
		return
	}
	removed := 0
	for _, p := range r.ParticipantsSnapshot() {
		if p.Role == domain.RoleAdmin || p.Role == domain.RoleHost {
			continue
		}
		if participant, ok := r.GetParticipant(p.UserID); ok {
			moderation.Kick(participant.Socket, req.Reason)
			removed++
		}
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
