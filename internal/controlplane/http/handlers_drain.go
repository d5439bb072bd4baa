package http

import (
	"net/http"

	"github.com/dkeye/sfu-control-plane/internal/drain"
	"github.com/gin-gonic/gin"
)

func (s *Server) registerDrainRoutes(r *gin.RouterGroup) {
	r.POST("/drain", s.handleDrain)
	r.POST("/admin/drain", s.handleDrain)
}

type drainRequest struct {
	Draining      bool   `json:"draining"`
	Force         bool   `json:"force"`
	Notice        string `json:"notice"`
	NoticeDelayMs int    `json:"noticeDelayMs"`
}

func (s *Server) handleDrain(c *gin.Context) {
	var req drainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	s.Drain.Apply(c.Request.Context(), drain.Options{
		Draining:      req.Draining,
		Force:         req.Force,
		Notice:        req.Notice,
		NoticeDelayMs: req.NoticeDelayMs,
	})
	c.JSON(http.StatusOK, gin.H{"draining": s.State.Draining(), "forced": req.Force})
}
