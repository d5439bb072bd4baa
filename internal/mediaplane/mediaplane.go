// Package mediaplane is a minimal core.MediaPlane implementation good
// enough to exercise the Transcription Pipeline's loopback RTP tap
// end-to-end. The real SFU media core (mediasoup-class router, ICE/DTLS/
// SCTP negotiation) is an external collaborator per §1 and out of scope;
// this only satisfies the create/connect/produce/consume/close surface the
// control plane calls through, backed by real UDP sockets rather than
// fakes.
package mediaplane

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/dkeye/sfu-control-plane/internal/core"
	"github.com/dkeye/sfu-control-plane/internal/domain"
)

type Plane struct {
	mu sync.Mutex

	nextID int64

	transports map[string]*transport

	onProducerClose  func(domain.ProducerID)
	onTransportClose func(string)
	onRouterClose    func(domain.ChannelID)
}

func New() *Plane {
	return &Plane{transports: make(map[string]*transport)}
}

type transport struct {
	id        string
	channelID domain.ChannelID
	conn      *net.UDPConn
}

func (t *transport) ID() string     { return t.id }
func (t *transport) LocalPort() int { return t.conn.LocalAddr().(*net.UDPAddr).Port }

func (t *transport) Consume(ctx context.Context, producerID domain.ProducerID) (core.ConsumerHandle, error) {
	return core.ConsumerHandle{ID: string(producerID) + "-consumer"}, nil
}

func (t *transport) Close(ctx context.Context) error {
	return t.conn.Close()
}

func (p *Plane) CreatePlainTransport(ctx context.Context, channelID domain.ChannelID) (core.PlainTransport, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		return nil, fmt.Errorf("mediaplane: listen udp: %w", err)
	}
	id := fmt.Sprintf("transport-%d", atomic.AddInt64(&p.nextID, 1))
	t := &transport{id: id, channelID: channelID, conn: conn}

	p.mu.Lock()
	p.transports[id] = t
	p.mu.Unlock()

	return t, nil
}

func (p *Plane) CloseProducer(ctx context.Context, producerID domain.ProducerID) error {
	p.mu.Lock()
	cb := p.onProducerClose
	p.mu.Unlock()
	if cb != nil {
		cb(producerID)
	}
	return nil
}

func (p *Plane) CloseTransport(ctx context.Context, transportID string) error {
	p.mu.Lock()
	t, ok := p.transports[transportID]
	if ok {
		delete(p.transports, transportID)
	}
	cb := p.onTransportClose
	p.mu.Unlock()
	if ok {
		_ = t.Close(ctx)
	}
	if cb != nil {
		cb(transportID)
	}
	return nil
}

func (p *Plane) OnProducerClose(handler func(domain.ProducerID)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onProducerClose = handler
}

func (p *Plane) OnTransportClose(handler func(string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onTransportClose = handler
}

func (p *Plane) OnRouterClose(handler func(domain.ChannelID)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onRouterClose = handler
}

// CloseRouter notifies subscribers that channelID's router is gone
// (invoked by the end-room HTTP handler after Registry.ForceClose, mirroring §4.9 step 8's third
// trigger).
func (p *Plane) CloseRouter(channelID domain.ChannelID) {
	p.mu.Lock()
	cb := p.onRouterClose
	p.mu.Unlock()
	if cb != nil {
		cb(channelID)
	}
}
