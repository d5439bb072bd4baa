package transcription

import (
	"testing"

	"github.com/dkeye/sfu-control-plane/internal/core"
)

func TestTranscriptAppendDedupsWithinWindow(t *testing.T) {
	tr := newTranscript(0)
	tr.Append(core.TranscriptChunk{Text: "hello", Speaker: "alice", EndMs: 1000})
	tr.Append(core.TranscriptChunk{Text: "hello", Speaker: "alice", EndMs: 1400})

	got := tr.Snapshot()
	if len(got) != 1 {
		t.Fatalf("Snapshot() = %d chunks, want 1 (second is a dup within 1500ms)", len(got))
	}
}

func TestTranscriptAppendKeepsChunkOutsideDedupWindow(t *testing.T) {
	tr := newTranscript(0)
	tr.Append(core.TranscriptChunk{Text: "hello", Speaker: "alice", EndMs: 1000})
	tr.Append(core.TranscriptChunk{Text: "hello", Speaker: "alice", EndMs: 3000})

	got := tr.Snapshot()
	if len(got) != 2 {
		t.Fatalf("Snapshot() = %d chunks, want 2 (second is outside the dedup window)", len(got))
	}
}

func TestTranscriptAppendKeepsChunkWithDifferentSpeaker(t *testing.T) {
	tr := newTranscript(0)
	tr.Append(core.TranscriptChunk{Text: "hello", Speaker: "alice", EndMs: 1000})
	tr.Append(core.TranscriptChunk{Text: "hello", Speaker: "bob", EndMs: 1100})

	got := tr.Snapshot()
	if len(got) != 2 {
		t.Fatalf("Snapshot() = %d chunks, want 2 (different speaker is not a dup)", len(got))
	}
}

func TestTranscriptFlushPartialAppendsPendingHypothesis(t *testing.T) {
	tr := newTranscript(0)
	tr.SetLastPartial("partial words")
	tr.FlushPartial(5000)

	got := tr.Snapshot()
	if len(got) != 1 || got[0].Text != "partial words" {
		t.Fatalf("Snapshot() = %v, want one chunk with the flushed partial", got)
	}
}

func TestTranscriptFlushPartialNoOpWithoutPending(t *testing.T) {
	tr := newTranscript(0)
	tr.FlushPartial(5000)

	if got := tr.Snapshot(); len(got) != 0 {
		t.Errorf("Snapshot() = %v, want empty (nothing was pending)", got)
	}
}

func TestTranscriptSnapshotIsACopy(t *testing.T) {
	tr := newTranscript(0)
	tr.Append(core.TranscriptChunk{Text: "hello", EndMs: 1000})

	snap := tr.Snapshot()
	snap[0].Text = "mutated"

	if got := tr.Snapshot(); got[0].Text != "hello" {
		t.Errorf("Snapshot() leaked internal state: got %q, want %q", got[0].Text, "hello")
	}
}
