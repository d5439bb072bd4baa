package http

import (
	"net/http"

	"github.com/dkeye/sfu-control-plane/internal/admission"
	"github.com/dkeye/sfu-control-plane/internal/apperr"
	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/dkeye/sfu-control-plane/internal/fanout"
	"github.com/gin-gonic/gin"
)

func (s *Server) registerPendingRoutes(r *gin.RouterGroup) {
	r.GET("/admin/rooms/:roomId/pending", s.handlePendingSnapshot)
	r.POST("/admin/rooms/:roomId/pending/:userKey/admit", s.handleAdmitOne)
	r.POST("/admin/rooms/:roomId/pending/:userKey/reject", s.handleRejectOne)
	r.POST("/pending/admit-all", s.handleAdmitAll)
	r.POST("/pending/reject-all", s.handleRejectAll)
}

func (s *Server) handlePendingSnapshot(c *gin.Context) {
	roomID := domain.RoomID(c.Param("roomId"))
	r, err := s.resolveRoom(c, roomID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": r.PendingSnapshot()})
}

func (s *Server) handleAdmitOne(c *gin.Context) {
	roomID := domain.RoomID(c.Param("roomId"))
	r, err := s.resolveRoom(c, roomID)
	if err != nil {
		writeError(c, err)
		return
	}
	key := domain.UserKey(c.Param("userKey"))
	entry, ok := r.GetPending(key)
	if !ok {
		writeError(c, apperr.NotFound("no pending entry for that user"))
		return
	}
	r.RemovePending(key)
	r.AllowLockedUser(key)
	res := s.Admission.Join(r, admission.Request{
		UserKey:       entry.UserKey,
		SessionID:     entry.SessionID,
		RequestedMode: entry.RequestedMode,
		Socket:        entry.Socket,
	})
	s.emitAdmissionEvents(r.ChannelID(), res)
	if entry.Socket != nil {
		_ = s.Fanout.SendToSocket(entry.Socket, fanout.Event{Type: fanout.EventJoinApproved})
	}
	c.JSON(http.StatusOK, gin.H{"admitted": true, "userKey": key})
}

func (s *Server) handleRejectOne(c *gin.Context) {
	roomID := domain.RoomID(c.Param("roomId"))
	r, err := s.resolveRoom(c, roomID)
	if err != nil {
		writeError(c, err)
		return
	}
	key := domain.UserKey(c.Param("userKey"))
	entry, removed := r.RemovePending(key)
	if !removed {
		writeError(c, apperr.NotFound("no pending entry for that user"))
		return
	}
	if entry.Socket != nil {
		_ = s.Fanout.SendToSocket(entry.Socket, fanout.Event{Type: fanout.EventJoinRejected, Payload: gin.H{"reason": "rejected_by_admin"}})
	}
	c.JSON(http.StatusOK, gin.H{"rejected": true, "userKey": key})
}

type pendingBulkRequest struct {
	RoomID string `json:"roomId" binding:"required"`
}

func (s *Server) handleAdmitAll(c *gin.Context) {
	var req pendingBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := s.resolveRoom(c, domain.RoomID(req.RoomID))
	if err != nil {
		writeError(c, err)
		return
	}
	entries := r.PendingSnapshot()
	admitted := 0
	for _, entry := range entries {
		r.RemovePending(entry.UserKey)
		r.AllowLockedUser(entry.UserKey)
		res := s.Admission.Join(r, admission.Request{
			UserKey:       entry.UserKey,
			SessionID:     entry.SessionID,
			RequestedMode: entry.RequestedMode,
			Socket:        entry.Socket,
		})
		s.emitAdmissionEvents(r.ChannelID(), res)
		if entry.Socket != nil {
			_ = s.Fanout.SendToSocket(entry.Socket, fanout.Event{Type: fanout.EventJoinApproved})
		}
		admitted++
	}
	c.JSON(http.StatusOK, gin.H{"admitted": admitted})
}

func (s *Server) handleRejectAll(c *gin.Context) {
	var req pendingBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := s.resolveRoom(c, domain.RoomID(req.RoomID))
	if err != nil {
		writeError(c, err)
		return
	}
	entries := r.PendingSnapshot()
	rejected := 0
	for _, entry := range entries {
		r.RemovePending(entry.UserKey)
		if entry.Socket != nil {
			_ = s.Fanout.SendToSocket(entry.Socket, fanout.Event{Type: fanout.EventJoinRejected, Payload: gin.H{"reason": "rejected_by_admin"}})
		}
		rejected++
	}
	c.JSON(http.StatusOK, gin.H{"rejected": rejected})
}
