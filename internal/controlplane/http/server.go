// Package http implements §4.6's operator HTTP surface: shared-secret auth,
// tenant disambiguation, and every route §6 lists, dispatching into the
// same engine functions the administrator socket surface uses.
package http

import (
	"context"

	"github.com/dkeye/sfu-control-plane/internal/admission"
	"github.com/dkeye/sfu-control-plane/internal/controlplane/socket"
	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/dkeye/sfu-control-plane/internal/drain"
	"github.com/dkeye/sfu-control-plane/internal/fanout"
	"github.com/dkeye/sfu-control-plane/internal/mediaplane"
	"github.com/dkeye/sfu-control-plane/internal/minutes"
	"github.com/dkeye/sfu-control-plane/internal/moderation"
	"github.com/dkeye/sfu-control-plane/internal/registry"
	"github.com/dkeye/sfu-control-plane/internal/room"
	"github.com/dkeye/sfu-control-plane/internal/sfustate"
	"github.com/dkeye/sfu-control-plane/internal/transcription"
	"github.com/gin-gonic/gin"
)

// Server holds every engine the operator HTTP surface dispatches into.
type Server struct {
	Secret string

	State         *sfustate.State
	Registry      *registry.Registry
	Admission     *admission.Engine
	Moderation    *moderation.Engine
	Drain         *drain.Engine
	Fanout        *fanout.Fanout
	Minutes       *minutes.Generator
	Transcription *transcription.Manager
	MediaPlane    *mediaplane.Plane
}

// resolveRoom implements §4.2's clientId/roomId resolution shared by every
// room-scoped route.
func (s *Server) resolveRoom(c *gin.Context, roomID domain.RoomID) (*room.Room, error) {
	return s.Registry.ResolveByRoomID(roomID, clientIDFrom(c))
}

// NewRouter wires every §6 route onto a fresh gin.Engine.
func NewRouter(ctx context.Context, s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/")
	api.Use(secretAuthMiddleware(s.Secret))
	api.Use(tenantMiddleware())

	s.registerHealthRoutes(api)
	s.registerDrainRoutes(api)
	s.registerPolicyRoutes(api)
	s.registerModerationRoutes(api)
	s.registerAccessRoutes(api)
	s.registerPendingRoutes(api)
	s.registerHandsRoutes(api)
	s.registerMinutesRoutes(api, ctx)

	sockCtl := &socket.Controller{
		Registry:      s.Registry,
		Admission:     s.Admission,
		Moderation:    s.Moderation,
		Drain:         s.Drain,
		Fanout:        s.Fanout,
		Minutes:       s.Minutes,
		Transcription: s.Transcription,
	}
	api.GET("/ws/admin", func(c *gin.Context) { sockCtl.HandleUpgrade(ctx, c) })

	return r
}
