package http

import (
	"net/http"

	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/dkeye/sfu-control-plane/internal/room"
	"github.com/gin-gonic/gin"
)

func (s *Server) registerHealthRoutes(r *gin.RouterGroup) {
	r.GET("/health", s.handleHealth)
	r.GET("/status", s.handleStatus)
	r.GET("/rooms", s.handleListRooms)
	r.GET("/admin/overview", s.handleOverview)
	r.GET("/admin/workers", s.handleWorkers)
	r.GET("/admin/rooms", s.handleListRooms)
	r.GET("/admin/rooms/:roomId", s.handleRoomSnapshot)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "draining": s.State.Draining()})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"draining": s.State.Draining(),
		"rooms":    len(s.Registry.List()),
		"workers":  s.State.Workers(),
	})
}

func (s *Server) handleListRooms(c *gin.Context) {
	clientID := clientIDFrom(c)
	var rooms []snapshotLite
	source := s.Registry.List()
	if clientID != "" {
		source = s.Registry.ListByClientID(clientID)
	}
	for _, r := range source {
		rooms = append(rooms, toSnapshotLite(r.Snapshot()))
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (s *Server) handleOverview(c *gin.Context) {
	rooms := s.Registry.List()
	total := 0
	for _, r := range rooms {
		total += r.MemberCount()
	}
	c.JSON(http.StatusOK, gin.H{
		"roomCount":        len(rooms),
		"participantCount": total,
		"draining":         s.State.Draining(),
	})
}

func (s *Server) handleWorkers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"workers": s.State.Workers()})
}

func (s *Server) handleRoomSnapshot(c *gin.Context) {
	roomID := domain.RoomID(c.Param("roomId"))
	r, err := s.resolveRoom(c, roomID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.Snapshot())
}

// snapshotLite trims a full Snapshot down to what a room list needs.
type snapshotLite struct {
	ChannelID        string `json:"channelId"`
	RoomID           string `json:"roomId"`
	ClientID         string `json:"clientId"`
	ParticipantCount int    `json:"participantCount"`
	PendingCount     int    `json:"pendingCount"`
}

func toSnapshotLite(snap room.Snapshot) snapshotLite {
	return snapshotLite{
		ChannelID:        string(snap.ChannelID),
		RoomID:           string(snap.RoomID),
		ClientID:         string(snap.ClientID),
		ParticipantCount: snap.ParticipantCount,
		PendingCount:     snap.PendingCount,
	}
}
