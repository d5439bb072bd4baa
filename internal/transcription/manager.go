package transcription

import (
	"context"
	"sync"

	"github.com/dkeye/sfu-control-plane/internal/core"
	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/rs/zerolog/log"
)

// Manager owns at most one Transcriber per channel (§4.9: "Only one
// pipeline per room is permitted; a second audio producer does not
// attach"), started on the first audio producer and stopped on room
// teardown or an explicit StopRoom call.
type Manager struct {
	mp  core.MediaPlane
	cfg Config

	mu           sync.Mutex
	transcribers map[domain.ChannelID]*Transcriber
}

func NewManager(mp core.MediaPlane, cfg Config) *Manager {
	m := &Manager{mp: mp, cfg: cfg, transcribers: make(map[domain.ChannelID]*Transcriber)}
	mp.OnProducerClose(func(producerID domain.ProducerID) {
		m.stopMatching(func(t *Transcriber) bool { return t.SourceProducerID() == producerID })
	})
	mp.OnTransportClose(func(transportID string) {
		m.stopMatching(func(t *Transcriber) bool { return t.TransportID() == transportID })
	})
	mp.OnRouterClose(func(channelID domain.ChannelID) {
		m.StopRoom(channelID)
	})
	return m
}

// stopMatching implements §4.9 step 8's producerclose/transportclose
// triggers: find the transcriber (if any) satisfying match and stop it.
func (m *Manager) stopMatching(match func(*Transcriber) bool) {
	m.mu.Lock()
	var channelID domain.ChannelID
	var found bool
	for ch, t := range m.transcribers {
		if t.Running() && match(t) {
			channelID, found = ch, true
			break
		}
	}
	m.mu.Unlock()
	if found {
		m.StopRoom(channelID)
	}
}

// OnAudioProducer implements the "created on first audio producer
// publication" half of §4.9's lifecycle. Call it whenever the Moderation
// or Room State Machine layer learns of a new producer.
func (m *Manager) OnAudioProducer(ctx context.Context, channelID domain.ChannelID, producerID domain.ProducerID, kind domain.MediaKind) {
	if kind != domain.KindAudio {
		return
	}
	m.mu.Lock()
	if existing, ok := m.transcribers[channelID]; ok && existing.Running() {
		m.mu.Unlock()
		return
	}
	t := NewTranscriber(m.mp, channelID, m.cfg)
	m.transcribers[channelID] = t
	m.mu.Unlock()

	if err := t.Start(ctx, producerID); err != nil {
		log.Warn().Str("module", "transcription").Str("channel", string(channelID)).Err(err).Msg("transcriber start failed")
	}
}

// StopRoom stops channelID's transcriber, if any and still running, but
// keeps it reachable for Snapshot (§4.10 needs a stopped pipeline's
// transcript for minutes generation after the room goes inactive). Use
// Purge to fully release it once the room itself is torn down.
func (m *Manager) StopRoom(channelID domain.ChannelID) {
	m.mu.Lock()
	t, ok := m.transcribers[channelID]
	m.mu.Unlock()
	if ok {
		t.Stop()
	}
}

// Purge fully releases channelID's transcriber (room destroyed).
func (m *Manager) Purge(channelID domain.ChannelID) {
	m.mu.Lock()
	t, ok := m.transcribers[channelID]
	if ok {
		delete(m.transcribers, channelID)
	}
	m.mu.Unlock()
	if ok {
		t.Stop()
	}
}

// Snapshot returns the live transcript for channelID, or nil if no
// transcriber has ever run for it.
func (m *Manager) Snapshot(channelID domain.ChannelID) []core.TranscriptChunk {
	m.mu.Lock()
	t, ok := m.transcribers[channelID]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return t.Snapshot()
}

// Active reports whether channelID currently has a running transcriber.
func (m *Manager) Active(channelID domain.ChannelID) bool {
	m.mu.Lock()
	t, ok := m.transcribers[channelID]
	m.mu.Unlock()
	return ok && t.Running()
}
