package socket

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// handleFrame decodes one inbound frame and dispatches it. joinRoom needs
// no prior authorization; every admin:* event is rechecked against the
// session's current room-admin membership before it runs (§4.6: "demotion
// mid-session must cause subsequent admin events from that socket to be
// rejected").
func (ctl *Controller) handleFrame(c *Conn, sess *session, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Str("module", "socket").Err(err).Msg("bad frame")
		return
	}

	if env.Type == "joinRoom" {
		resp := ctl.handleJoinRoom(c, sess, env.Payload)
		_ = c.Send("joinRoom", resp)
		return
	}
	if env.Type == "ping" {
		_ = c.Send("pong", nil)
		return
	}

	if !strings.HasPrefix(env.Type, "admin:") {
		log.Warn().Str("module", "socket").Str("type", env.Type).Msg("unknown event")
		return
	}
	if !sess.isAdmin() {
		_ = c.Send(env.Type, nack("not authorized"))
		return
	}

	handler, ok := adminHandlers[env.Type]
	if !ok {
		_ = c.Send(env.Type, nack("unknown admin event"))
		return
	}
	_ = c.Send(env.Type, handler(ctl, c, sess, env.Payload))
}
