// Package core declares the narrow, cross-package interfaces that let the
// room/admission/moderation/transcription engines stay decoupled from their
// external collaborators (§1's fixed-interface media plane, ASR server,
// summarizer, and PDF renderer) — one small capability interface per
// concern.
package core

import (
	"context"

	"github.com/dkeye/sfu-control-plane/internal/domain"
)

// MediaPlane is the fixed interface into the SFU media core (mediasoup-
// class router/transport engine, §1). The control plane only issues
// create/connect/produce/consume/close calls and receives lifecycle
// notifications through the On* callbacks.
type MediaPlane interface {
	CreatePlainTransport(ctx context.Context, channelID domain.ChannelID) (PlainTransport, error)
	CloseProducer(ctx context.Context, producerID domain.ProducerID) error
	CloseTransport(ctx context.Context, transportID string) error

	OnProducerClose(handler func(producerID domain.ProducerID))
	OnTransportClose(handler func(transportID string))
	OnRouterClose(handler func(channelID domain.ChannelID))
}

// PlainTransport is a loopback RTP transport used by the Transcription
// Pipeline to tap a single audio producer (§4.9 step 1-2).
type PlainTransport interface {
	ID() string
	LocalPort() int
	Consume(ctx context.Context, producerID domain.ProducerID) (ConsumerHandle, error)
	Close(ctx context.Context) error
}

// ConsumerHandle identifies the consumer created on a PlainTransport.
type ConsumerHandle struct {
	ID string
}

// RTPCapabilities is the opaque device-capability negotiation payload
// returned to a joining client (§6 joinRoom event); the control plane
// passes it through without interpreting it.
type RTPCapabilities any
