package model

// ProfileDraft is the structured output of the claim extractor for one
// account, before the candidates pass through provenance aggregation.
type ProfileDraft struct {
	Summary  string           `json:"summary"`
	Industry string           `json:"industry"`
	Claims   []ClaimCandidate `json:"claims"`
}

// ProfileResult is what one profile-generation run produced for an account.
// CoverageMet compares the run's coverage against the configured target.
type ProfileResult struct {
	Account     Account `json:"account"`
	Claims      []Claim `json:"claims"`
	Coverage    float64 `json:"coverage"`
	Skipped     int     `json:"skipped,omitempty"`
	CoverageMet bool    `json:"coverage_met"`
	LLMModel    string  `json:"llm_model,omitempty"` // Empty when the heuristic fallback ran
}
