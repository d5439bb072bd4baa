package socket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) writePump(ctx context.Context, c *Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-c.send:
			if !ok {
				return
			}
			data, err := json.Marshal(frame)
			if err != nil {
				log.Error().Str("module", "socket").Err(err).Msg("writePump marshal")
				continue
			}
			if err := c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Str("module", "socket").Err(err).Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, c *Conn, sess *session) {
	defer func() {
		cancel()
		ctl.onDisconnect(sess)
		c.Disconnect(true)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.ws.ReadMessage()
			if err != nil {
				log.Debug().Str("module", "socket").Err(err).Msg("readPump read error")
				return
			}
			ctl.handleFrame(c, sess, data)
		}
	}
}

// onDisconnect removes the participant this socket was bound to, if any,
// mirroring the same cleanup the operator HTTP surface triggers through an
// explicit kick.
func (ctl *Controller) onDisconnect(sess *session) {
	if sess.room == nil {
		return
	}
	removed, ok := sess.room.RemoveParticipant(sess.userID)
	if !ok {
		return
	}
	for _, rp := range removed {
		ctl.Fanout.SendToChannel(sess.room.ChannelID(), eventProducerClosed(sess.userID, rp.Key))
	}
}
