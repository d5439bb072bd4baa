package minutes

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/dkeye/sfu-control-plane/internal/core"
)

// stopwords excluded from the term-frequency score; deliberately small and
// fixed so scoring stays deterministic across runs.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "to": {}, "of": {}, "in": {}, "on": {}, "for": {}, "with": {},
	"that": {}, "this": {}, "it": {}, "we": {}, "you": {}, "i": {}, "be": {}, "as": {},
	"at": {}, "by": {}, "so": {}, "just": {}, "if": {}, "then": {}, "there": {}, "here": {},
}

// actionVerbs boost a sentence's score when it looks like an action item.
var actionVerbs = []string{"will", "should", "must", "need to", "action item", "todo", "follow up", "let's", "plan to"}

var wordRE = regexp.MustCompile(`[a-zA-Z']+`)

// LocalSummarizer implements core.Summarizer with a deterministic scored
// sentence extraction: no network calls, same input always yields the same
// output (§4.10: "The fallback must be deterministic given the same
// input").
type LocalSummarizer struct {
	MaxSentences int
}

func NewLocalSummarizer() *LocalSummarizer {
	return &LocalSummarizer{MaxSentences: 6}
}

func (s *LocalSummarizer) Summarize(_ context.Context, chunks []core.TranscriptChunk) (string, error) {
	sentences := splitSentences(chunks)
	if len(sentences) == 0 {
		return "", nil
	}

	freq := termFrequency(sentences)
	scored := make([]scoredSentence, len(sentences))
	for i, sent := range sentences {
		scored[i] = scoredSentence{index: i, text: sent, score: scoreSentence(sent, freq)}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	limit := s.MaxSentences
	if limit > len(scored) {
		limit = len(scored)
	}
	top := append([]scoredSentence(nil), scored[:limit]...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].index < top[j].index })

	out := make([]string, len(top))
	for i, sc := range top {
		out[i] = sc.text
	}
	return strings.Join(out, " "), nil
}

type scoredSentence struct {
	index int
	text  string
	score float64
}

func splitSentences(chunks []core.TranscriptChunk) []string {
	var out []string
	for _, c := range chunks {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		out = append(out, text)
	}
	return out
}

func termFrequency(sentences []string) map[string]int {
	freq := make(map[string]int)
	for _, sent := range sentences {
		for _, w := range tokenize(sent) {
			freq[w]++
		}
	}
	return freq
}

func tokenize(s string) []string {
	words := wordRE.FindAllString(strings.ToLower(s), -1)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := stopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

func scoreSentence(sent string, freq map[string]int) float64 {
	words := tokenize(sent)
	if len(words) == 0 {
		return 0
	}
	var total float64
	for _, w := range words {
		total += float64(freq[w])
	}
	score := total / float64(len(words))

	lower := strings.ToLower(sent)
	for _, verb := range actionVerbs {
		if strings.Contains(lower, verb) {
			score *= 1.5
			break
		}
	}
	return score
}
