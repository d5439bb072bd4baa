// Package socket implements §4.6's administrator socket surface: a
// duplex JSON-frame websocket carrying the joinRoom event plus the
// admin:* event family, with per-event re-authorization.
package socket

import (
	"context"
	"net/http"

	"github.com/dkeye/sfu-control-plane/internal/admission"
	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/dkeye/sfu-control-plane/internal/drain"
	"github.com/dkeye/sfu-control-plane/internal/fanout"
	"github.com/dkeye/sfu-control-plane/internal/minutes"
	"github.com/dkeye/sfu-control-plane/internal/moderation"
	"github.com/dkeye/sfu-control-plane/internal/registry"
	"github.com/dkeye/sfu-control-plane/internal/room"
	"github.com/dkeye/sfu-control-plane/internal/transcription"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Controller dispatches administrator socket events into the same engines
// the operator HTTP surface uses.
type Controller struct {
	Registry      *registry.Registry
	Admission     *admission.Engine
	Moderation    *moderation.Engine
	Drain         *drain.Engine
	Fanout        *fanout.Fanout
	Minutes       *minutes.Generator
	Transcription *transcription.Manager
}

// session is the per-connection state a live socket carries: which room it
// joined as, and under which identity.
type session struct {
	room     *room.Room
	userID   domain.UserID
	userKey  domain.UserKey
	sessID   domain.SessionID
}

// isAdmin rechecks room admin membership against the session's userKey on
// every admin:* event, so a mid-session demotion takes effect immediately
// rather than only at the next join.
func (s *session) isAdmin() bool {
	return s.room != nil && s.room.IsAdmin(s.userKey)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleUpgrade upgrades the HTTP request to a websocket and starts the
// connection's read/write pumps. Authentication (shared-secret / tenant)
// has already run as gin middleware ahead of this handler, matching the
// operator HTTP surface's auth boundary.
func (ctl *Controller) HandleUpgrade(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Str("module", "socket").Err(err).Msg("ws upgrade")
		return
	}
	conn := newConn(ws)
	connCtx, cancel := context.WithCancel(ctx)
	sess := &session{}

	go ctl.writePump(connCtx, conn)
	go ctl.readPump(connCtx, cancel, conn, sess)
}
