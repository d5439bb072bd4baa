package core

import "context"

// Summarizer turns a transcript into prose (§1: "any LLM/ML models, treated
// as an opaque summarization service"). Two implementations exist per
// §4.10: a remote summarizer and a deterministic local fallback.
type Summarizer interface {
	Summarize(ctx context.Context, chunks []TranscriptChunk) (string, error)
}

// TranscriptChunk is the atomic transcript record (startMs, endMs, text,
// speaker) the GLOSSARY defines.
type TranscriptChunk struct {
	StartMs int64
	EndMs   int64
	Text    string
	Speaker string
}

// PDFRenderer renders a summary plus the full transcript to a PDF document.
type PDFRenderer interface {
	Render(title string, summary string, chunks []TranscriptChunk) ([]byte, error)
}
