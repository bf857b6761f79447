package research

import (
	"strings"
	"unicode/utf8"

	"github.com/prospectorhq/prospector/internal/model"
)

const (
	fallbackMinSentence = 30
	fallbackMaxSentence = 500
	fallbackPerSource   = 5

	fallbackMeetingMaxChars = 300
)

// factKeywords marks sentences likely to state a company fact worth
// keeping when no LLM provider is configured.
var factKeywords = []string{
	"founded", "customers", "employees", "million", "billion",
	"platform", "product", "service", "launched", "acquired",
	"countries", "businesses", "companies", "teams", "users",
	"provides", "offers", "builds", "helps", "headquartered",
}

// heuristicCandidates extracts claim candidates without an LLM: fact-like
// sentences lifted straight from the fetched text, each quoting itself
// as evidence.
func heuristicCandidates(sources []model.Source) []model.ClaimCandidate {
	var candidates []model.ClaimCandidate
	for _, source := range sources {
		kept := 0
		for _, sentence := range splitSentences(source.RawText) {
			if kept >= fallbackPerSource {
				break
			}
			if !looksLikeFact(sentence) {
				continue
			}
			candidates = append(candidates, model.ClaimCandidate{
				Text:          sentence,
				SourceURL:     source.URL,
				EvidenceQuote: sentence,
				Confidence:    0.5,
			})
			kept++
		}
	}
	return candidates
}

func looksLikeFact(sentence string) bool {
	n := utf8.RuneCountInString(sentence)
	if n < fallbackMinSentence || n > fallbackMaxSentence {
		return false
	}
	lower := strings.ToLower(sentence)
	for _, keyword := range factKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// splitSentences breaks text at sentence terminators followed by a space
// or end of input, so decimals and domain names stay intact.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && (i+1 == len(runes) || runes[i+1] == ' ') {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// fallbackMeetingSummary keeps the transcript's opening as the summary
// when no provider is available.
func fallbackMeetingSummary(transcript string) *model.MeetingSummary {
	text := strings.Join(strings.Fields(transcript), " ")
	if utf8.RuneCountInString(text) > fallbackMeetingMaxChars {
		runes := []rune(text)
		text = strings.TrimSpace(string(runes[:fallbackMeetingMaxChars])) + "..."
	}
	return &model.MeetingSummary{Summary: text}
}
