package model

import "time"

// ClaimCandidate is an unvalidated claim proposal from the extractor,
// prior to deduplication and scoring. SourceURL and EvidenceQuote are
// optional; empty means absent. Confidence is the extractor's own guess
// and is advisory only; the aggregator assigns the stored value.
type ClaimCandidate struct {
	Text          string  `json:"text"`
	SourceURL     string  `json:"source_url,omitempty"`
	EvidenceQuote string  `json:"evidence_quote,omitempty"`
	Confidence    float64 `json:"confidence,omitempty"`
}

// Claim is one factual assertion about an account. Claims are written in
// bulk per generation run and never mutated individually; regeneration
// replaces the account's whole set.
type Claim struct {
	ID            string         `json:"id,omitempty"`
	AccountID     string         `json:"account_id,omitempty"`
	Text          string         `json:"text"`
	SourceURL     string         `json:"source_url,omitempty"`     // Empty means unsourced
	EvidenceQuote string         `json:"evidence_quote,omitempty"` // Supporting quote from the source
	Confidence    float64        `json:"confidence"`
	Tier          ConfidenceTier `json:"tier"`
	CreatedAt     time.Time      `json:"created_at,omitempty"`
}

// ConfidenceTier labels the provenance band a claim's confidence falls in
type ConfidenceTier string

const (
	TierHigh      ConfidenceTier = "high"      // Source URL and evidence quote present
	TierMedium    ConfidenceTier = "medium"    // Source URL only
	TierUnsourced ConfidenceTier = "unsourced" // No source URL
)

// Provenance is the outcome of one aggregation run over an account's
// claim candidates. Coverage is the fraction of claims carrying a source
// URL; Skipped counts malformed candidates dropped from the batch.
type Provenance struct {
	Claims   []Claim `json:"claims"`
	Coverage float64 `json:"coverage"`
	Skipped  int     `json:"skipped,omitempty"`
}
