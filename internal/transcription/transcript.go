package transcription

import (
	"sync"

	"github.com/dkeye/sfu-control-plane/internal/core"
)

// Transcript is the append-only, dedup-guarded chunk list a Transcriber
// builds for one room (§4.9 steps 6-7).
type Transcript struct {
	mu               sync.Mutex
	chunks           []core.TranscriptChunk
	lastPartialText  string
	sessionStartNano int64
}

func newTranscript(sessionStartNano int64) *Transcript {
	return &Transcript{sessionStartNano: sessionStartNano}
}

// Append applies the §4.9 step 6 dedup rule: suppress a chunk identical in
// text and speaker to the last one if it arrives within 1500ms (P6).
func (t *Transcript) Append(c core.TranscriptChunk) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := len(t.chunks); n > 0 {
		last := t.chunks[n-1]
		if last.Text == c.Text && last.Speaker == c.Speaker && absInt64(c.EndMs-last.EndMs) < 1500 {
			return
		}
	}
	t.chunks = append(t.chunks, c)
}

func (t *Transcript) SetLastPartial(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastPartialText = text
}

// FlushPartial appends the last partial hypothesis as a final chunk, per
// §4.9 step 7, if one is pending.
func (t *Transcript) FlushPartial(nowMs int64) {
	t.mu.Lock()
	text := t.lastPartialText
	t.lastPartialText = ""
	t.mu.Unlock()
	if text == "" {
		return
	}
	t.Append(core.TranscriptChunk{StartMs: nowMs, EndMs: nowMs, Text: text})
}

func (t *Transcript) Snapshot() []core.TranscriptChunk {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]core.TranscriptChunk(nil), t.chunks...)
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
