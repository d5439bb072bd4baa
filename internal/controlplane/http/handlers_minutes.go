package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/gin-gonic/gin"
)

// registerMinutesRoutes wires §6's /minutes route. The root context argument
// is unused: Generate receives each request's own context, which bounds how
// long that request waits for the shared generation.
func (s *Server) registerMinutesRoutes(r *gin.RouterGroup, _ context.Context) {
	r.POST("/minutes", s.handleMinutes)
}

type minutesRequest struct {
	RoomID string `json:"roomId" binding:"required"`
}

func (s *Server) handleMinutes(c *gin.Context) {
	var req minutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	roomID := domain.RoomID(req.RoomID)
	r, err := s.resolveRoom(c, roomID)
	if err != nil {
		writeError(c, err)
		return
	}

	pdf, err := s.Minutes.Generate(c.Request.Context(), r.ChannelID(), roomID)
	if err != nil {
		writeError(c, err)
		return
	}

	filename := fmt.Sprintf("minutes-%s.pdf", roomID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
