package minutes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dkeye/sfu-control-plane/internal/core"
)

// RemoteSummarizer calls an external summarization service over HTTP. No
// HTTP client library appears anywhere in the example pack, so this uses
// the standard library's http.Client directly.
type RemoteSummarizer struct {
	URL    string
	Token  string
	Client *http.Client
}

func NewRemoteSummarizer(url, token string) *RemoteSummarizer {
	return &RemoteSummarizer{URL: url, Token: token, Client: &http.Client{Timeout: 30 * time.Second}}
}

type remoteRequest struct {
	Chunks []core.TranscriptChunk `json:"chunks"`
}

type remoteResponse struct {
	Summary string `json:"summary"`
}

func (s *RemoteSummarizer) Summarize(ctx context.Context, chunks []core.TranscriptChunk) (string, error) {
	body, err := json.Marshal(remoteRequest{Chunks: chunks})
	if err != nil {
		return "", fmt.Errorf("marshal summarize request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build summarize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("summarize request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summarizer returned status %d", resp.StatusCode)
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode summarize response: %w", err)
	}
	return out.Summary, nil
}
