package model

import "time"

// Activity is an append-only event on an account, such as a summarized
// sales call. Content holds a kind-specific JSON payload.
type Activity struct {
	ID        string       `json:"id"`
	AccountID string       `json:"account_id"`
	Kind      ActivityKind `json:"kind"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
}

// ActivityKind classifies the event
type ActivityKind string

const (
	ActivityKindCallSummary ActivityKind = "call_summary"
	ActivityKindNote        ActivityKind = "note"
)

// MeetingSummary is the structured payload of a call_summary activity
type MeetingSummary struct {
	Summary    string   `json:"summary"`
	NextSteps  []string `json:"next_steps,omitempty"`
	Blockers   []string `json:"blockers,omitempty"`
	Objections []string `json:"objections,omitempty"`
}
