package research

import (
	"testing"
)

const validProfileJSON = `{"summary":"Acme builds rockets.","industry":"Aerospace","claims":[{"text":"Acme was founded in 2001","source_url":"https://acme.com/about","evidence_quote":"founded in 2001","confidence":0.9},{"text":"Acme is profitable","source_url":null,"evidence_quote":null,"confidence":0.2}]}`

func TestParseProfileJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bare", validProfileJSON},
		{"padded", "\n  " + validProfileJSON + "  \n"},
		{"fenced", "```json\n" + validProfileJSON + "\n```"},
		{"fenced without language", "```\n" + validProfileJSON + "\n```"},
		{"prose wrapped", "Here is the profile you asked for:\n" + validProfileJSON + "\nLet me know if you need anything else."},
	}

	for _, tt := range tests {
		draft, err := parseProfileJSON(tt.raw)
		if err != nil {
			t.Errorf("%s: parseProfileJSON failed: %v", tt.name, err)
			continue
		}
		if draft.Summary != "Acme builds rockets." {
			t.Errorf("%s: unexpected summary %q", tt.name, draft.Summary)
		}
		if draft.Industry != "Aerospace" {
			t.Errorf("%s: unexpected industry %q", tt.name, draft.Industry)
		}
		if len(draft.Claims) != 2 {
			t.Errorf("%s: expected 2 claims, got %d", tt.name, len(draft.Claims))
			continue
		}
		if draft.Claims[0].SourceURL != "https://acme.com/about" {
			t.Errorf("%s: unexpected source URL %q", tt.name, draft.Claims[0].SourceURL)
		}
		if draft.Claims[1].SourceURL != "" {
			t.Errorf("%s: expected null source to decode empty, got %q", tt.name, draft.Claims[1].SourceURL)
		}
	}
}

func TestParseProfileJSON_Garbage(t *testing.T) {
	for _, raw := range []string{
		"not json at all",
		"",
		"```json\nstill not json\n```",
		"{broken",
		`{"claims": [}`,
	} {
		if _, err := parseProfileJSON(raw); err == nil {
			t.Errorf("Expected error for %q", raw)
		}
	}
}

const validMeetingJSON = `{"summary":"Kickoff call with the data team.","next_steps":["Send contract by Friday"],"blockers":[],"objections":["Price is above budget"]}`

func TestParseMeetingJSON(t *testing.T) {
	for _, raw := range []string{
		validMeetingJSON,
		"```json\n" + validMeetingJSON + "\n```",
	} {
		summary, err := parseMeetingJSON(raw)
		if err != nil {
			t.Fatalf("parseMeetingJSON failed: %v", err)
		}
		if summary.Summary != "Kickoff call with the data team." {
			t.Errorf("Unexpected summary: %q", summary.Summary)
		}
		if len(summary.NextSteps) != 1 || summary.NextSteps[0] != "Send contract by Friday" {
			t.Errorf("Unexpected next steps: %v", summary.NextSteps)
		}
		if len(summary.Objections) != 1 {
			t.Errorf("Unexpected objections: %v", summary.Objections)
		}
	}
}

func TestParseMeetingJSON_MissingSummary(t *testing.T) {
	_, err := parseMeetingJSON(`{"next_steps":["follow up"]}`)
	if err == nil {
		t.Fatal("Expected error for missing summary field")
	}
}
