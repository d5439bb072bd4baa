// Package drain implements §4.8, the Drain Coordinator: the process-wide
// draining flag plus the broadcast-then-disconnect sequence that gives every
// socket a chance to see `serverRestarting` before it is forced off (P7).
package drain

import (
	"context"
	"time"

	"github.com/dkeye/sfu-control-plane/internal/fanout"
	"github.com/dkeye/sfu-control-plane/internal/registry"
	"github.com/dkeye/sfu-control-plane/internal/sfustate"
	"github.com/rs/zerolog/log"
)

const maxNoticeDelay = 30 * time.Second

// Options mirrors §4.8's applyDrain payload.
type Options struct {
	Draining      bool
	Force         bool
	Notice        string
	NoticeDelayMs int
}

type Engine struct {
	state    *sfustate.State
	registry *registry.Registry
	fanout   *fanout.Fanout
}

func New(state *sfustate.State, reg *registry.Registry, fo *fanout.Fanout) *Engine {
	return &Engine{state: state, registry: reg, fanout: fo}
}

// Apply implements applyDrain: set the flag, and if force&&draining, run the
// broadcast-then-disconnect sequence. It is a single atomic command from the
// caller's perspective but, per §5, holds no room guard across its own
// delay — only the per-step registry/fanout calls are guarded internally.
func (e *Engine) Apply(ctx context.Context, opts Options) {
	e.state.SetDraining(opts.Draining)
	if !opts.Force || !opts.Draining {
		return
	}

	rooms := e.registry.List()
	notice := fanout.Event{Type: fanout.EventServerRestarting, Payload: map[string]any{"notice": opts.Notice, "reconnecting": true}}

	for _, r := range rooms {
		e.fanout.SendToChannel(r.ChannelID(), notice)
		for _, pending := range r.PendingSnapshot() {
			if pending.Socket != nil {
				_ = e.fanout.SendToSocket(pending.Socket, notice)
			}
		}
	}

	delay := time.Duration(opts.NoticeDelayMs) * time.Millisecond
	if delay > maxNoticeDelay {
		delay = maxNoticeDelay
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			// §5: a drain cancellation is not supported once initiated;
			// proceed to disconnection even if the caller's context ended.
		}
	}

	for _, r := range rooms {
		e.fanout.DisconnectChannel(r.ChannelID(), true)
		for _, pending := range r.PendingSnapshot() {
			if pending.Socket != nil {
				pending.Socket.Disconnect(true)
			}
		}
	}
	log.Info().Str("module", "drain").Int("rooms", len(rooms)).Msg("drain disconnect sequence complete")
}
