package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prospectorhq/prospector/internal/model"
	"github.com/prospectorhq/prospector/internal/render"
	"github.com/prospectorhq/prospector/internal/research"
	"github.com/prospectorhq/prospector/internal/store"
	"github.com/prospectorhq/prospector/internal/webutil"
)

type AccountHandler struct {
	Store    *store.Store
	Research *research.Service
	Renderer *render.Renderer
}

func NewAccountHandler(st *store.Store, svc *research.Service, renderer *render.Renderer) *AccountHandler {
	return &AccountHandler{Store: st, Research: svc, Renderer: renderer}
}

type summarizeTranscriptRequest struct {
	Transcript string `json:"transcript"`
}

func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) error {
	accounts, err := h.Store.Accounts.List(r.Context())
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, accounts)
	return nil
}

func (h *AccountHandler) HandleGetAccount(w http.ResponseWriter, r *http.Request) error {
	accountID, err := accountIDParam(r)
	if err != nil {
		return err
	}

	account, err := h.Store.Accounts.GetByID(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return webutil.ErrNotFound("Account not found")
		}
		return fmt.Errorf("failed to retrieve account %s: %w", accountID, err)
	}

	// The detail view is every row the research workflow has produced
	// for the account so far.
	detail := model.AccountDetail{Account: *account}
	if detail.Sources, err = h.Store.Sources.ListByAccount(r.Context(), accountID); err != nil {
		return fmt.Errorf("failed to list sources for account %s: %w", accountID, err)
	}
	if detail.Claims, err = h.Store.Claims.ListByAccount(r.Context(), accountID); err != nil {
		return fmt.Errorf("failed to list claims for account %s: %w", accountID, err)
	}
	if detail.Activities, err = h.Store.Activities.ListByAccount(r.Context(), accountID); err != nil {
		return fmt.Errorf("failed to list activities for account %s: %w", accountID, err)
	}
	if detail.Assets, err = h.Store.Assets.ListByAccount(r.Context(), accountID); err != nil {
		return fmt.Errorf("failed to list assets for account %s: %w", accountID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, detail)
	return nil
}

func (h *AccountHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) error {
	accountID, err := accountIDParam(r)
	if err != nil {
		return err
	}

	if err := h.Store.Accounts.Delete(r.Context(), accountID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return webutil.ErrNotFound("Account not found")
		}
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}

	// Rendered files are gone-by-best-effort: the rows are already deleted.
	if err := h.Renderer.RemoveAccountDir(accountID); err != nil {
		log.Printf("WARN (API): remove asset dir for account %s: %v", accountID, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// HandleGenerateProfile runs claim extraction over the account's fetched
// sources and responds with the persisted result.
func (h *AccountHandler) HandleGenerateProfile(w http.ResponseWriter, r *http.Request) error {
	accountID, err := accountIDParam(r)
	if err != nil {
		return err
	}

	result, err := h.Research.GenerateProfile(r.Context(), accountID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return webutil.ErrNotFound("Account not found")
		case errors.Is(err, research.ErrNoSources):
			return webutil.ErrBadRequest("No fetched sources available for this account; capture the website first")
		}
		return fmt.Errorf("failed to generate profile for account %s: %w", accountID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, result)
	return nil
}

func (h *AccountHandler) HandleSummarizeTranscript(w http.ResponseWriter, r *http.Request) error {
	accountID, err := accountIDParam(r)
	if err != nil {
		return err
	}

	var req summarizeTranscriptRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.Transcript) == "" {
		return webutil.ErrBadRequest("transcript is required")
	}

	activity, err := h.Research.SummarizeTranscript(r.Context(), accountID, req.Transcript)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return webutil.ErrNotFound("Account not found")
		}
		return fmt.Errorf("failed to summarize transcript for account %s: %w", accountID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, activity)
	return nil
}

// accountIDParam pulls the account ID out of the route and rejects
// anything that is not a UUID before it reaches a query.
func accountIDParam(r *http.Request) (string, error) {
	accountID := chi.URLParam(r, paramAccountID)
	if _, err := uuid.Parse(accountID); err != nil {
		return "", webutil.ErrBadRequest("Invalid account ID format")
	}
	return accountID, nil
}
