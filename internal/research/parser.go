package research

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/prospectorhq/prospector/internal/model"
)

// extractJSON pulls the JSON object out of a model response: bare JSON,
// JSON inside a ``` fence, or JSON embedded in surrounding prose.
func extractJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	if idx := strings.Index(text, "```"); idx != -1 {
		rest := strings.TrimPrefix(text[idx+3:], "json")
		if end := strings.Index(rest, "```"); end != -1 {
			text = strings.TrimSpace(rest[:end])
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return "", errors.New("no JSON object in response")
	}
	return text[start : end+1], nil
}

func parseProfileJSON(raw string) (*model.ProfileDraft, error) {
	text, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}
	var draft model.ProfileDraft
	if err := json.Unmarshal([]byte(text), &draft); err != nil {
		return nil, fmt.Errorf("parse profile JSON: %w", err)
	}
	return &draft, nil
}

func parseMeetingJSON(raw string) (*model.MeetingSummary, error) {
	text, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}
	var summary model.MeetingSummary
	if err := json.Unmarshal([]byte(text), &summary); err != nil {
		return nil, fmt.Errorf("parse meeting JSON: %w", err)
	}
	if strings.TrimSpace(summary.Summary) == "" {
		return nil, errors.New("meeting summary missing summary field")
	}
	return &summary, nil
}
