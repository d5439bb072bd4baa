package http

import (
	"net/http"

	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/dkeye/sfu-control-plane/internal/fanout"
	"github.com/gin-gonic/gin"
)

func (s *Server) registerHandsRoutes(r *gin.RouterGroup) {
	r.GET("/admin/rooms/:roomId/hands", s.handleHandsSnapshot)
	r.POST("/admin/rooms/:roomId/hands/clear", s.handleClearHands)
}

func (s *Server) handleHandsSnapshot(c *gin.Context) {
	roomID := domain.RoomID(c.Param("roomId"))
	r, err := s.resolveRoom(c, roomID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"raisedHands": r.RaisedHandsSnapshot()})
}

func (s *Server) handleClearHands(c *gin.Context) {
	roomID := domain.RoomID(c.Param("roomId"))
	r, err := s.resolveRoom(c, roomID)
	if err != nil {
		writeError(c, err)
		return
	}
	if r.ClearHands() {
		s.Fanout.SendToChannel(r.ChannelID(), fanout.Event{Type: fanout.EventAdminHandsCleared})
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
