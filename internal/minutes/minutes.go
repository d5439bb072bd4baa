// Package minutes implements §4.10, the Minutes Generator: single-flight
// summarize-then-PDF per channel, with transcript/PDF caching for inactive
// rooms and fallback-to-cache on failure (P5).
package minutes

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkeye/sfu-control-plane/internal/core"
	"github.com/dkeye/sfu-control-plane/internal/domain"
	"golang.org/x/sync/singleflight"
)

// TranscriptSource answers "what transcript exists for this channel right
// now", regardless of whether the room is still active.
type TranscriptSource interface {
	Active(channelID domain.ChannelID) bool
	Snapshot(channelID domain.ChannelID) []core.TranscriptChunk
}

type cacheEntry struct {
	transcript []core.TranscriptChunk
	pdf        []byte
}

// Generator is the single-flight-per-channel minutes pipeline.
type Generator struct {
	transcripts TranscriptSource
	summarizer  core.Summarizer
	fallback    core.Summarizer
	renderer    core.PDFRenderer

	group singleflight.Group

	mu    sync.RWMutex
	cache map[domain.ChannelID]cacheEntry
}

func NewGenerator(transcripts TranscriptSource, summarizer core.Summarizer, fallback core.Summarizer, renderer core.PDFRenderer) *Generator {
	return &Generator{
		transcripts: transcripts,
		summarizer:  summarizer,
		fallback:    fallback,
		renderer:    renderer,
		cache:       make(map[domain.ChannelID]cacheEntry),
	}
}

// Generate implements §4.10's flow for one (channelId, roomId) request.
func (g *Generator) Generate(ctx context.Context, channelID domain.ChannelID, roomID domain.RoomID) ([]byte, error) {
	active := g.transcripts.Active(channelID)

	if !active {
		if cached, ok := g.cachedPDF(channelID); ok {
			return cached, nil
		}
	}

	// The shared generation is detached from any one caller's cancellation;
	// each caller's own context only bounds how long it waits for the result.
	genCtx := context.WithoutCancel(ctx)
	ch := g.group.DoChan(string(channelID), func() (any, error) {
		return g.generateOnce(genCtx, channelID, roomID, active)
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		if cached, ok := g.cachedPDF(channelID); ok {
			return cached, nil
		}
		return nil, res.Err
	}
	return res.Val.([]byte), nil
}

func (g *Generator) generateOnce(ctx context.Context, channelID domain.ChannelID, roomID domain.RoomID, active bool) ([]byte, error) {
	chunks := g.transcripts.Snapshot(channelID)

	summary, err := g.summarizer.Summarize(ctx, chunks)
	if err != nil {
		summary, err = g.fallback.Summarize(ctx, chunks)
		if err != nil {
			return nil, fmt.Errorf("summarize: %w", err)
		}
	}

	pdf, err := g.renderer.Render(fmt.Sprintf("Meeting Minutes - %s", roomID), summary, chunks)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	if !active {
		g.mu.Lock()
		g.cache[channelID] = cacheEntry{transcript: chunks, pdf: pdf}
		g.mu.Unlock()
	}
	return pdf, nil
}

func (g *Generator) cachedPDF(channelID domain.ChannelID) ([]byte, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	entry, ok := g.cache[channelID]
	if !ok {
		return nil, false
	}
	return entry.pdf, true
}

// CachedTranscript exposes a finalized room's cached transcript (used once
// the live pipeline has been torn down).
func (g *Generator) CachedTranscript(channelID domain.ChannelID) ([]core.TranscriptChunk, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	entry, ok := g.cache[channelID]
	if !ok {
		return nil, false
	}
	return entry.transcript, true
}
