package core

import "context"

// ASRClient is the streaming speech-to-text sink (§1: "the external ASR
// server protocol, treated as a streaming sink that returns text
// fragments"). One ASRClient backs one Transcriber.
type ASRClient interface {
	// Open sends the one-line config preamble and prepares to receive PCM.
	Open(ctx context.Context, sampleRateHz int) error
	// WritePCM forwards a frame of mono 16-bit PCM.
	WritePCM(frame []byte) error
	// Frames yields decoded ASR frames as they arrive until the client is closed.
	Frames() <-chan ASRFrame
	// Close sends a best-effort {eof:1} marker then releases the socket.
	Close() error
}

// ASRFrame is a single decoded message from the ASR server. Exactly one of
// Result or PartialText is meaningful per §4.9 step 5-7.
type ASRFrame struct {
	IsPartial   bool
	PartialText string
	Text        string
	Result      []ASRWord
	StartSec    *float64
	EndSec      *float64
	Speaker     string
}

// ASRWord is one word-level timing entry, result[].start/.end in seconds.
type ASRWord struct {
	Word     string
	StartSec float64
	EndSec   float64
}
