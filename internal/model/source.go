package model

import "time"

// Source is one fetched URL owned by an account
type Source struct {
	ID        string       `json:"id"`
	AccountID string       `json:"account_id"`
	URL       string       `json:"url"`
	Title     string       `json:"title,omitempty"`    // Page <title>, best effort
	RawText   string       `json:"raw_text,omitempty"` // Visible text, capped
	Status    SourceStatus `json:"status"`
	Error     string       `json:"error,omitempty"` // Failure detail when status is failed
	FetchedAt *time.Time   `json:"fetched_at,omitempty"`
}

// SourceStatus tracks the fetch lifecycle of a source
type SourceStatus string

const (
	SourceStatusPending SourceStatus = "pending" // Row created, not yet fetched
	SourceStatusOK      SourceStatus = "ok"      // Fetched and text extracted
	SourceStatusFailed  SourceStatus = "failed"  // Fetch or extraction failed
)
