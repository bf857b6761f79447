package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prospectorhq/prospector/internal/fetch"
	"github.com/prospectorhq/prospector/internal/model"
	"github.com/prospectorhq/prospector/internal/research"
	"github.com/prospectorhq/prospector/internal/webutil"
)

type ProspectHandler struct {
	Research *research.Service
}

func NewProspectHandler(svc *research.Service) *ProspectHandler {
	return &ProspectHandler{Research: svc}
}

type createProspectRequest struct {
	Name      string   `json:"name"`
	Website   string   `json:"website"`
	ExtraURLs []string `json:"extra_urls"`
}

type createProspectResponse struct {
	Account model.Account  `json:"account"`
	Sources []model.Source `json:"sources"`
}

// HandleCreateProspect captures a new prospect: one account per domain,
// plus a fetched source row for each planned URL. A domain that already
// has an account comes back as a conflict.
func (h *ProspectHandler) HandleCreateProspect(w http.ResponseWriter, r *http.Request) error {
	var req createProspectRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Website == "" {
		return webutil.ErrBadRequest("website is required")
	}
	if _, err := fetch.Domain(req.Website); err != nil {
		return webutil.ErrBadRequest("Invalid website URL: " + err.Error())
	}

	account, sources, err := h.Research.Capture(r.Context(), req.Name, req.Website, req.ExtraURLs)
	if err != nil {
		// store.ErrAlreadyExists stays on the chain and maps to a 409.
		return fmt.Errorf("capture prospect %s: %w", req.Website, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, createProspectResponse{Account: *account, Sources: sources})
	return nil
}
