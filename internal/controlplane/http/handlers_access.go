package http

import (
	"net/http"

	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) registerAccessRoutes(r *gin.RouterGroup) {
	r.GET("/admin/rooms/:roomId/access", s.handleGetAccess)
	r.POST("/access/allow", s.handleAllow)
	r.POST("/access/revoke", s.handleRevoke)
	r.POST("/access/block", s.handleAccessBlock)
	r.POST("/access/unblock", s.handleAccessUnblock)
}

func (s *Server) handleGetAccess(c *gin.Context) {
	roomID := domain.RoomID(c.Param("roomId"))
	r, err := s.resolveRoom(c, roomID)
	if err != nil {
		writeError(c, err)
		return
	}
	snap := r.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"allowedUserKeys":       snap.AllowedUserKeys,
		"lockedAllowedUserKeys": snap.LockedAllowedUserKeys,
		"blockedUserKeys":       snap.BlockedUserKeys,
	})
}

type accessRequest struct {
	RoomID      string   `json:"roomId" binding:"required"`
	UserKeys    []string `json:"userKeys" binding:"required"`
	Locked      bool     `json:"locked"`
	KickPresent bool     `json:"kickPresent"`
	Reason      string   `json:"reason"`
}

func (s *Server) handleAllow(c *gin.Context) {
	var req accessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := s.resolveRoom(c, domain.RoomID(req.RoomID))
	if err != nil {
		writeError(c, err)
		return
	}
	for _, k := range req.UserKeys {
		key := domain.UserKey(k)
		if req.Locked {
			r.AllowLockedUser(key)
		} else {
			r.AllowUser(key)
		}
	}
	if req.Locked {
		for _, res := range s.Admission.ReconcileLockChange(r, false) {
			s.emitAdmissionEvents(r.ChannelID(), res)
		}
	}
	c.JSON(http.StatusOK, gin.H{"allowed": req.UserKeys})
}

func (s *Server) handleRevoke(c *gin.Context) {
	var req accessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := s.resolveRoom(c, domain.RoomID(req.RoomID))
	if err != nil {
		writeError(c, err)
		return
	}
	for _, k := range req.UserKeys {
		key := domain.UserKey(k)
		if req.Locked {
			r.RevokeLockedAllowedUser(key)
		} else {
			r.RevokeAllowedUser(key)
		}
	}
	c.JSON(http.StatusOK, gin.H{"revoked": req.UserKeys})
}

func (s *Server) handleAccessBlock(c *gin.Context) {
	var req accessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := s.resolveRoom(c, domain.RoomID(req.RoomID))
	if err != nil {
		writeError(c, err)
		return
	}
	allKicked := make([]domain.UserID, 0)
	for _, k := range req.UserKeys {
		kicked := s.Moderation.BlockIdentity(r, domain.UserKey(k), req.KickPresent, req.Reason)
		allKicked = append(allKicked, kicked...)
	}
	c.JSON(http.StatusOK, gin.H{"blocked": req.UserKeys, "kicked": allKicked})
}

func (s *Server) handleAccessUnblock(c *gin.Context) {
	var req accessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := s.resolveRoom(c, domain.RoomID(req.RoomID))
	if err != nil {
		writeError(c, err)
		return
	}
	for _, k := range req.UserKeys {
		r.UnblockUser(domain.UserKey(k))
	}
	c.JSON(http.StatusOK, gin.H{"unblocked": req.UserKeys})
}
