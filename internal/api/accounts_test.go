package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/prospectorhq/prospector/internal/model"
)

func TestListAccounts_Empty(t *testing.T) {
	f := newTestAPI(t)

	rec := f.do(t, http.MethodGet, "/api/accounts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("Expected empty JSON array, got %q", body)
	}
}

func TestListAccounts(t *testing.T) {
	f := newTestAPI(t)
	created := f.createProspect(t, "Acme Robotics")

	rec := f.do(t, http.MethodGet, "/api/accounts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var accounts []model.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &accounts); err != nil {
		t.Fatalf("Decode accounts failed: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("Expected 1 account, got %d", len(accounts))
	}
	if accounts[0].ID != created.Account.ID {
		t.Errorf("Unexpected account: %s", accounts[0].ID)
	}
}

func TestGetAccount(t *testing.T) {
	f := newTestAPI(t)
	created := f.createProspect(t, "Acme Robotics")

	rec := f.do(t, http.MethodGet, "/api/accounts/"+created.Account.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var detail model.AccountDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("Decode detail failed: %v", err)
	}
	if detail.Account.ID != created.Account.ID {
		t.Errorf("Unexpected account: %s", detail.Account.ID)
	}
	if len(detail.Sources) != 1 {
		t.Errorf("Expected 1 source, got %d", len(detail.Sources))
	}

	// Empty collections come back as arrays, not null.
	body := rec.Body.String()
	for _, key := range []string{`"claims":[]`, `"activities":[]`, `"assets":[]`} {
		if !strings.Contains(body, key) {
			t.Errorf("Expected %s in body", key)
		}
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	f := newTestAPI(t)

	rec := f.do(t, http.MethodGet, "/api/accounts/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	if msg := decodeAPIError(t, rec); msg != "Account not found" {
		t.Errorf("Unexpected message: %s", msg)
	}
}

func TestGetAccount_InvalidID(t *testing.T) {
	f := newTestAPI(t)

	rec := f.do(t, http.MethodGet, "/api/accounts/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if msg := decodeAPIError(t, rec); msg != "Invalid account ID format" {
		t.Errorf("Unexpected message: %s", msg)
	}
}

func TestDeleteAccount(t *testing.T) {
	f := newTestAPI(t)
	created := f.createProspect(t, "Acme Robotics")
	f.generateProfile(t, created.Account.ID)

	if rec := f.do(t, http.MethodPost, "/api/accounts/"+created.Account.ID+"/assets", nil); rec.Code != http.StatusOK {
		t.Fatalf("Render assets failed: %d: %s", rec.Code, rec.Body.String())
	}
	accountDir := filepath.Join(f.assetsDir, created.Account.ID)
	if _, err := os.Stat(accountDir); err != nil {
		t.Fatalf("Expected asset dir before delete: %v", err)
	}

	rec := f.do(t, http.MethodDelete, "/api/accounts/"+created.Account.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	if rec := f.do(t, http.MethodGet, "/api/accounts/"+created.Account.ID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", rec.Code)
	}
	if _, err := os.Stat(accountDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected asset dir removed, got %v", err)
	}
}

func TestDeleteAccount_NotFound(t *testing.T) {
	f := newTestAPI(t)

	rec := f.do(t, http.MethodDelete, "/api/accounts/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
}

func TestGenerateProfile(t *testing.T) {
	f := newTestAPI(t)
	created := f.createProspect(t, "Acme Robotics")

	result := f.generateProfile(t, created.Account.ID)
	if len(result.Claims) != 2 {
		t.Fatalf("Expected 2 claims, got %d", len(result.Claims))
	}
	if result.Coverage != 1.0 {
		t.Errorf("Unexpected coverage: %f", result.Coverage)
	}
	if !result.CoverageMet {
		t.Error("Expected coverage target met")
	}
	if result.LLMModel != "stub-model" {
		t.Errorf("Unexpected model: %s", result.LLMModel)
	}
	if result.Account.Summary != "Acme Robotics automates warehouse picking." {
		t.Errorf("Unexpected summary: %s", result.Account.Summary)
	}

	stored, err := f.store.Accounts.GetByID(context.Background(), created.Account.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Industry != "logistics" {
		t.Errorf("Unexpected industry: %s", stored.Industry)
	}
}

func TestGenerateProfile_ProviderDown(t *testing.T) {
	f := newTestAPI(t)
	created := f.createProspect(t, "Acme Robotics")
	f.provider.err = errors.New("rate limited")

	result := f.generateProfile(t, created.Account.ID)
	if result.LLMModel != "" {
		t.Errorf("Expected heuristic fallback, got model %s", result.LLMModel)
	}
	if len(result.Claims) == 0 {
		t.Error("Expected heuristic claims")
	}
}

func TestGenerateProfile_NoUsableSources(t *testing.T) {
	f := newTestAPI(t)

	rec := f.do(t, http.MethodPost, "/api/prospects", map[string]any{"website": f.homepage.URL + "/missing"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp createProspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Decode response failed: %v", err)
	}

	rec = f.do(t, http.MethodPost, "/api/accounts/"+resp.Account.ID+"/profile", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if msg := decodeAPIError(t, rec); !strings.Contains(msg, "No fetched sources") {
		t.Errorf("Unexpected message: %s", msg)
	}
}

func TestGenerateProfile_AccountNotFound(t *testing.T) {
	f := newTestAPI(t)

	rec := f.do(t, http.MethodPost, "/api/accounts/"+uuid.NewString()+"/profile", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
}

const stubMeetingResponse = `{"summary": "Intro call with operations.", "next_steps": ["Schedule warehouse walkthrough"], "blockers": [], "objections": ["Concerned about rollout time"]}`

func TestSummarizeTranscript(t *testing.T) {
	f := newTestAPI(t)
	created := f.createProspect(t, "Acme Robotics")
	f.provider.response = stubMeetingResponse

	transcript := "Dana: thanks for the time. Lee: we need picking throughput before peak season."
	rec := f.do(t, http.MethodPost, "/api/accounts/"+created.Account.ID+"/transcript", map[string]any{"transcript": transcript})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var activity model.Activity
	if err := json.Unmarshal(rec.Body.Bytes(), &activity); err != nil {
		t.Fatalf("Decode activity failed: %v", err)
	}
	if activity.Kind != model.ActivityKindCallSummary {
		t.Errorf("Unexpected kind: %s", activity.Kind)
	}
	var summary model.MeetingSummary
	if err := json.Unmarshal([]byte(activity.Content), &summary); err != nil {
		t.Fatalf("Activity content is not a summary: %v", err)
	}
	if summary.Summary != "Intro call with operations." {
		t.Errorf("Unexpected summary: %s", summary.Summary)
	}

	detail := f.do(t, http.MethodGet, "/api/accounts/"+created.Account.ID, nil)
	if !strings.Contains(detail.Body.String(), "Intro call with operations.") {
		t.Error("Expected stored activity in account detail")
	}
}

func TestSummarizeTranscript_Empty(t *testing.T) {
	f := newTestAPI(t)
	created := f.createProspect(t, "Acme Robotics")

	rec := f.do(t, http.MethodPost, "/api/accounts/"+created.Account.ID+"/transcript", map[string]any{"transcript": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if msg := decodeAPIError(t, rec); msg != "transcript is required" {
		t.Errorf("Unexpected message: %s", msg)
	}
}

func TestSummarizeTranscript_AccountNotFound(t *testing.T) {
	f := newTestAPI(t)

	rec := f.do(t, http.MethodPost, "/api/accounts/"+uuid.NewString()+"/transcript", map[string]any{"transcript": "hello"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
}
