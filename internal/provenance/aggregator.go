package provenance

import (
	"strings"

	"github.com/prospectorhq/prospector/internal/model"
)

// Confidence assigned per provenance tier. Monotone by construction:
// both signals present >= source only >= no source.
const (
	ConfidenceHigh      = 0.9
	ConfidenceMedium    = 0.6
	ConfidenceUnsourced = 0.2
)

// Aggregator merges per-source claim candidates into a deduplicated,
// confidence-scored claim set with a coverage metric
type Aggregator struct{}

// NewAggregator creates a new aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate runs the single-pass batch transform for one account: drop
// malformed candidates, dedupe by normalized text, resolve collisions in
// favor of provenance, assign confidence, and compute coverage.
//
// It is a pure function: no I/O, no shared state, total over any input.
// A candidate with empty text is skipped and counted, never a batch
// failure. Persistence is the caller's responsibility.
func (a *Aggregator) Aggregate(candidates []model.ClaimCandidate) model.Provenance {
	claims := make([]model.Claim, 0, len(candidates))
	index := make(map[string]int, len(candidates))
	skipped := 0

	for _, cand := range candidates {
		if strings.TrimSpace(cand.Text) == "" {
			skipped++
			continue
		}

		key := normalizeText(cand.Text)
		pos, seen := index[key]
		if !seen {
			index[key] = len(claims)
			claims = append(claims, scoreClaim(cand))
			continue
		}
		// Collision: winners replace in place so first-seen order holds
		if preferCandidate(cand, claims[pos]) {
			claims[pos] = scoreClaim(cand)
		}
	}

	sourced := 0
	for _, claim := range claims {
		if claim.SourceURL != "" {
			sourced++
		}
	}

	coverage := 0.0
	if len(claims) > 0 {
		coverage = float64(sourced) / float64(len(claims))
	}

	return model.Provenance{
		Claims:   claims,
		Coverage: coverage,
		Skipped:  skipped,
	}
}

// normalizeText builds the dedup key: case-folded, whitespace-collapsed
func normalizeText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// preferCandidate reports whether cand should replace the claim holding
// its dedup slot. A sourced candidate beats an unsourced incumbent; among
// sourced duplicates the longer evidence quote wins; every tie keeps the
// incumbent, so the first-seen candidate is stable.
func preferCandidate(cand model.ClaimCandidate, incumbent model.Claim) bool {
	candSourced := strings.TrimSpace(cand.SourceURL) != ""
	if candSourced != (incumbent.SourceURL != "") {
		return candSourced
	}
	if candSourced {
		return len(strings.TrimSpace(cand.EvidenceQuote)) > len(incumbent.EvidenceQuote)
	}
	return false
}

// scoreClaim converts a candidate into a scored claim. Confidence is a
// deterministic function of which provenance signals are present; an
// evidence quote without a source URL is unverifiable and stays at the
// unsourced tier. The extractor's advisory confidence is ignored.
func scoreClaim(cand model.ClaimCandidate) model.Claim {
	claim := model.Claim{
		Text:          strings.TrimSpace(cand.Text),
		SourceURL:     strings.TrimSpace(cand.SourceURL),
		EvidenceQuote: strings.TrimSpace(cand.EvidenceQuote),
	}

	switch {
	case claim.SourceURL != "" && claim.EvidenceQuote != "":
		claim.Confidence = ConfidenceHigh
		claim.Tier = model.TierHigh
	case claim.SourceURL != "":
		claim.Confidence = ConfidenceMedium
		claim.Tier = model.TierMedium
	default:
		claim.Confidence = ConfidenceUnsourced
		claim.Tier = model.TierUnsourced
	}

	return claim
}
