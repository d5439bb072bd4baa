package socket

import (
	"github.com/dkeye/sfu-control-plane/internal/admission"
	"github.com/dkeye/sfu-control-plane/internal/fanout"
	"github.com/dkeye/sfu-control-plane/internal/mediaplane"
	"github.com/dkeye/sfu-control-plane/internal/moderation"
	"github.com/dkeye/sfu-control-plane/internal/registry"
)

type fakeSocket struct {
	sent     []sentFrame
	closed   bool
	closeImm bool
}

type sentFrame struct {
	event   string
	payload any
}

func (f *fakeSocket) Send(event string, payload any) error {
	f.sent = append(f.sent, sentFrame{event, payload})
	return nil
}

func (f *fakeSocket) Disconnect(closeImmediate bool) {
	f.closed = true
	f.closeImm = closeImmediate
}

// newTestController wires a Controller against real engines, matching how
// cmd/server/main.go assembles them, minus transcription/minutes which the
// admin event handlers under test never touch.
func newTestController() *Controller {
	reg := registry.New()
	fo := fanout.New(reg)
	return &Controller{
		Registry:   reg,
		Admission:  admission.New(),
		Moderation: moderation.New(mediaplane.New()),
		Fanout:     fo,
	}
}
