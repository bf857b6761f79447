package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/prospectorhq/prospector/internal/model"
)

func TestCreateProspect(t *testing.T) {
	f := newTestAPI(t)

	resp := f.createProspect(t, "Acme Robotics")
	if resp.Account.Name != "Acme Robotics" {
		t.Errorf("Unexpected name: %s", resp.Account.Name)
	}
	if resp.Account.Domain != "127.0.0.1" {
		t.Errorf("Unexpected domain: %s", resp.Account.Domain)
	}
	if len(resp.Sources) != 1 {
		t.Fatalf("Expected 1 source, got %d", len(resp.Sources))
	}
	if resp.Sources[0].Status != model.SourceStatusOK {
		t.Fatalf("Unexpected source status %s: %s", resp.Sources[0].Status, resp.Sources[0].Error)
	}

	stored, err := f.store.Accounts.GetByID(context.Background(), resp.Account.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Domain != "127.0.0.1" {
		t.Errorf("Stored account has domain %s", stored.Domain)
	}
}

func TestCreateProspect_ReportsPerSourceStatus(t *testing.T) {
	f := newTestAPI(t)

	rec := f.do(t, http.MethodPost, "/api/prospects", map[string]any{
		"website":    f.homepage.URL,
		"extra_urls": []string{f.homepage.URL + "/about"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp createProspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Decode response failed: %v", err)
	}
	if len(resp.Sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(resp.Sources))
	}
	if resp.Sources[0].Status != model.SourceStatusOK {
		t.Errorf("Homepage fetch should succeed, got %s", resp.Sources[0].Status)
	}
	if resp.Sources[1].Status != model.SourceStatusFailed {
		t.Errorf("Missing page fetch should fail, got %s", resp.Sources[1].Status)
	}
	if resp.Sources[1].Error == "" {
		t.Error("Failed source should carry an error message")
	}
}

func TestCreateProspect_MissingWebsite(t *testing.T) {
	f := newTestAPI(t)

	rec := f.do(t, http.MethodPost, "/api/prospects", map[string]any{"name": "Acme"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if msg := decodeAPIError(t, rec); msg != "website is required" {
		t.Errorf("Unexpected message: %s", msg)
	}
}

func TestCreateProspect_InvalidWebsite(t *testing.T) {
	f := newTestAPI(t)

	rec := f.do(t, http.MethodPost, "/api/prospects", map[string]any{"website": "not a url"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if msg := decodeAPIError(t, rec); !strings.Contains(msg, "Invalid website URL") {
		t.Errorf("Unexpected message: %s", msg)
	}
}

func TestCreateProspect_UnknownField(t *testing.T) {
	f := newTestAPI(t)

	rec := f.do(t, http.MethodPost, "/api/prospects", map[string]any{"website": f.homepage.URL, "bogus": true})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if msg := decodeAPIError(t, rec); !strings.Contains(msg, "Invalid request payload") {
		t.Errorf("Unexpected message: %s", msg)
	}
}

func TestCreateProspect_DuplicateDomain(t *testing.T) {
	f := newTestAPI(t)

	f.createProspect(t, "Acme Robotics")
	rec := f.do(t, http.MethodPost, "/api/prospects", map[string]any{"name": "Acme Again", "website": f.homepage.URL})
	if rec.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}
