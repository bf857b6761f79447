package model

import "time"

// Account is a prospect company tracked by the CRM
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`                // Company name as captured
	Domain    string    `json:"domain"`              // Lowercased, www-stripped; unique per account
	Website   string    `json:"website"`             // URL the prospect was captured from
	Industry  string    `json:"industry,omitempty"`  // Filled by profile generation
	SizeHint  string    `json:"size_hint,omitempty"` // Optional operator-supplied size note
	Summary   string    `json:"summary,omitempty"`   // Filled by profile generation
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountDetail is the full view of an account with its owned records
type AccountDetail struct {
	Account    Account    `json:"account"`
	Sources    []Source   `json:"sources"`
	Claims     []Claim    `json:"claims"`
	Activities []Activity `json:"activities"`
	Assets     []Asset    `json:"assets"`
}
