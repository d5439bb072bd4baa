package mediaplane

import (
	"context"
	"testing"

	"github.com/dkeye/sfu-control-plane/internal/domain"
)

func TestCreatePlainTransportBindsRealSocket(t *testing.T) {
	p := New()
	tr, err := p.CreatePlainTransport(context.Background(), "tenant-a:room1")
	if err != nil {
		t.Fatalf("CreatePlainTransport() err = %v", err)
	}
	defer tr.Close(context.Background())

	if tr.ID() == "" {
		t.Errorf("transport ID is empty")
	}
	if tr.LocalPort() == 0 {
		t.Errorf("LocalPort() = 0, want a real bound port")
	}
}

func TestCloseTransportInvokesCallback(t *testing.T) {
	p := New()
	tr, err := p.CreatePlainTransport(context.Background(), "tenant-a:room1")
	if err != nil {
		t.Fatalf("CreatePlainTransport() err = %v", err)
	}

	var closedID string
	p.OnTransportClose(func(id string) { closedID = id })

	if err := p.CloseTransport(context.Background(), tr.ID()); err != nil {
		t.Fatalf("CloseTransport() err = %v", err)
	}
	if closedID != tr.ID() {
		t.Errorf("OnTransportClose callback id = %q, want %q", closedID, tr.ID())
	}
}

func TestCloseProducerInvokesCallback(t *testing.T) {
	p := New()
	var closedProducer domain.ProducerID
	p.OnProducerClose(func(id domain.ProducerID) { closedProducer = id })

	if err := p.CloseProducer(context.Background(), "prod-1"); err != nil {
		t.Fatalf("CloseProducer() err = %v", err)
	}
	if closedProducer != "prod-1" {
		t.Errorf("OnProducerClose callback id = %q, want prod-1", closedProducer)
	}
}

func TestCloseRouterInvokesCallback(t *testing.T) {
	p := New()
	var closedChannel domain.ChannelID
	p.OnRouterClose(func(id domain.ChannelID) { closedChannel = id })

	p.CloseRouter("tenant-a:room1")
	if closedChannel != "tenant-a:room1" {
		t.Errorf("OnRouterClose callback id = %q, want tenant-a:room1", closedChannel)
	}
}

func TestCloseRouterWithoutHandlerIsNoOp(t *testing.T) {
	p := New()
	p.CloseRouter("tenant-a:room1") // must not panic
}
