package model

import "time"

// Asset is a generated artifact for an account. One row per kind;
// regeneration replaces the prior row and its files.
type Asset struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Kind      AssetKind `json:"kind"`
	Path      string    `json:"path"` // File (email, pitch) or directory (landing) under the assets dir
	CreatedAt time.Time `json:"created_at"`
}

// AssetKind identifies the artifact type
type AssetKind string

const (
	AssetKindEmail   AssetKind = "email"   // Outreach email, plain text
	AssetKindPitch   AssetKind = "pitch"   // Pitch brief, markdown
	AssetKindLanding AssetKind = "landing" // Landing page, html + css
)

// ValidAssetKind reports whether kind names a known artifact type
func ValidAssetKind(kind AssetKind) bool {
	switch kind {
	case AssetKindEmail, AssetKindPitch, AssetKindLanding:
		return true
	}
	return false
}

// Persona selects the audience voice for rendered assets
type Persona string

const (
	PersonaExec     Persona = "exec"     // Economic decision maker
	PersonaBuyer    Persona = "buyer"    // Evaluates and owns the purchase
	PersonaChampion Persona = "champion" // Internal advocate, hands-on user
)

// ValidPersona reports whether p names a known persona
func ValidPersona(p Persona) bool {
	switch p {
	case PersonaExec, PersonaBuyer, PersonaChampion:
		return true
	}
	return false
}
