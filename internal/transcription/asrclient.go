// Package transcription implements §4.9, the Transcription Pipeline: a
// per-room audio tap feeding an external RTP→PCM decoder and a streaming
// ASR socket, deduped into an append-only transcript.
package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/dkeye/sfu-control-plane/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeDeadline = 5 * time.Second

// wsASRClient implements core.ASRClient over a client-mode websocket
// connection to the external ASR server, mirroring the read/write pump
// split used for the admin socket's server-mode connections.
type wsASRClient struct {
	url    string
	conn   *websocket.Conn
	frames chan core.ASRFrame
	cancel context.CancelFunc
}

func NewWSClient(serverURL string) core.ASRClient {
	return &wsASRClient{url: serverURL, frames: make(chan core.ASRFrame, 64)}
}

func (c *wsASRClient) Open(ctx context.Context, sampleRateHz int) error {
	u, err := url.Parse(c.url)
	if err != nil {
		return fmt.Errorf("parse asr url: %w", err)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial asr: %w", err)
	}
	c.conn = conn

	preamble, _ := json.Marshal(map[string]any{"config": map[string]any{"sample_rate": sampleRateHz}})
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return err
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, preamble); err != nil {
		return fmt.Errorf("send asr preamble: %w", err)
	}

	readCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	go c.readPump(readCtx)
	return nil
}

func (c *wsASRClient) readPump(ctx context.Context) {
	defer close(c.frames)
	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Str("module", "transcription").Err(err).Msg("asr read pump closed")
				return
			}
			frame, ok := decodeASRFrame(data)
			if !ok {
				continue
			}
			select {
			case c.frames <- frame:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (c *wsASRClient) WritePCM(frame []byte) error {
	if c.conn == nil {
		return fmt.Errorf("asr client not open")
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (c *wsASRClient) Frames() <-chan core.ASRFrame {
	return c.frames
}

func (c *wsASRClient) Close() error {
	if c.conn == nil {
		return nil
	}
	// §4.9 step 8: best-effort eof marker before the socket closes.
	_ = c.conn.WriteMessage(websocket.TextMessage, []byte(`{"eof":1}`))
	if c.cancel != nil {
		c.cancel()
	}
	return c.conn.Close()
}

// rawASRMessage is the wire shape of one ASR server frame: either a partial
// hypothesis (`partial`) or a finalized result with optional word timings.
type rawASRMessage struct {
	Partial string `json:"partial"`
	Text    string `json:"text"`
	Start   *float64 `json:"start"`
	End     *float64 `json:"end"`
	Speaker string   `json:"speaker"`
	Result  []struct {
		Word  string  `json:"word"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"result"`
}

func decodeASRFrame(data []byte) (core.ASRFrame, bool) {
	var raw rawASRMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Debug().Str("module", "transcription").Err(err).Msg("bad asr frame json")
		return core.ASRFrame{}, false
	}
	if raw.Partial != "" {
		return core.ASRFrame{IsPartial: true, PartialText: raw.Partial}, true
	}

	frame := core.ASRFrame{Speaker: raw.Speaker, Text: raw.Text}
	words := make([]core.ASRWord, 0, len(raw.Result))
	for _, w := range raw.Result {
		words = append(words, core.ASRWord{Word: w.Word, StartSec: w.Start, EndSec: w.End})
	}
	frame.Result = words
	frame.StartSec = raw.Start
	frame.EndSec = raw.End
	return frame, true
}
