package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/prospectorhq/prospector/internal/model"
	"github.com/prospectorhq/prospector/internal/render"
	"github.com/prospectorhq/prospector/internal/store"
	"github.com/prospectorhq/prospector/internal/webutil"
)

const headerContentDisposition = "Content-Disposition"

type AssetHandler struct {
	Store    *store.Store
	Renderer *render.Renderer
}

func NewAssetHandler(st *store.Store, renderer *render.Renderer) *AssetHandler {
	return &AssetHandler{Store: st, Renderer: renderer}
}

type renderAssetsRequest struct {
	Persona string   `json:"persona"`
	Kinds   []string `json:"kinds"`
}

// HandleRenderAssets generates outreach assets from the account's claim
// set. An empty body renders all three kinds for the exec persona.
func (h *AssetHandler) HandleRenderAssets(w http.ResponseWriter, r *http.Request) error {
	accountID, err := accountIDParam(r)
	if err != nil {
		return err
	}

	var req renderAssetsRequest
	// Allow an empty body for defaults.
	if r.ContentLength > 0 {
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
		}
		defer r.Body.Close()
	}

	persona := model.Persona(req.Persona)
	if persona != "" && !model.ValidPersona(persona) {
		return webutil.ErrBadRequest(fmt.Sprintf("Invalid persona value. Must be one of: %s, %s, %s",
			model.PersonaExec, model.PersonaBuyer, model.PersonaChampion))
	}

	kinds := make([]model.AssetKind, 0, len(req.Kinds))
	for _, raw := range req.Kinds {
		kind := model.AssetKind(raw)
		if !model.ValidAssetKind(kind) {
			return webutil.ErrBadRequest(fmt.Sprintf("Invalid asset kind %q. Must be one of: %s, %s, %s",
				raw, model.AssetKindEmail, model.AssetKindPitch, model.AssetKindLanding))
		}
		kinds = append(kinds, kind)
	}

	account, err := h.Store.Accounts.GetByID(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return webutil.ErrNotFound("Account not found")
		}
		return fmt.Errorf("failed to retrieve account %s: %w", accountID, err)
	}
	claims, err := h.Store.Claims.ListByAccount(r.Context(), accountID)
	if err != nil {
		return fmt.Errorf("failed to list claims for account %s: %w", accountID, err)
	}

	assets, err := h.Renderer.Render(account, claims, persona, kinds)
	if err != nil {
		return fmt.Errorf("failed to render assets for account %s: %w", accountID, err)
	}
	for i := range assets {
		if err := h.Store.Assets.Upsert(r.Context(), &assets[i]); err != nil {
			return fmt.Errorf("failed to persist %s asset for account %s: %w", assets[i].Kind, accountID, err)
		}
	}

	webutil.RespondWithJSON(w, http.StatusOK, assets)
	return nil
}

// HandleDownloadAsset streams the rendered file for one asset kind: the
// email as plain text, the pitch as markdown, the landing page as a zip
// of its directory.
func (h *AssetHandler) HandleDownloadAsset(w http.ResponseWriter, r *http.Request) error {
	accountID, err := accountIDParam(r)
	if err != nil {
		return err
	}

	kind := model.AssetKind(chi.URLParam(r, paramAssetKind))
	if !model.ValidAssetKind(kind) {
		return webutil.ErrBadRequest(fmt.Sprintf("Invalid asset kind %q. Must be one of: %s, %s, %s",
			kind, model.AssetKindEmail, model.AssetKindPitch, model.AssetKindLanding))
	}

	asset, err := h.Store.Assets.GetByAccountAndKind(r.Context(), accountID, kind)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return webutil.ErrNotFound(fmt.Sprintf("No %s asset generated for this account", kind))
		}
		return fmt.Errorf("failed to retrieve %s asset for account %s: %w", kind, accountID, err)
	}

	switch kind {
	case model.AssetKindEmail:
		return serveAssetFile(w, asset.Path, webutil.ContentTypeTextPlainUTF8, "email.txt")
	case model.AssetKindPitch:
		return serveAssetFile(w, asset.Path, webutil.ContentTypeMarkdownUTF8, "pitch.md")
	default:
		return serveAssetZip(w, asset.Path, "landing.zip")
	}
}

func serveAssetFile(w http.ResponseWriter, path, contentType, downloadName string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return webutil.ErrNotFound("Asset file is missing on disk; regenerate it")
		}
		return fmt.Errorf("failed to read asset file %s: %w", path, err)
	}

	w.Header().Set(webutil.HeaderContentType, contentType)
	w.Header().Set(headerContentDisposition, fmt.Sprintf("attachment; filename=%q", downloadName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	return nil
}

// serveAssetZip buffers the archive so a broken asset dir still gets a
// clean error response instead of a truncated stream.
func serveAssetZip(w http.ResponseWriter, dir, downloadName string) error {
	var buf bytes.Buffer
	if err := render.WriteZip(&buf, dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return webutil.ErrNotFound("Asset files are missing on disk; regenerate them")
		}
		return fmt.Errorf("failed to archive asset dir %s: %w", dir, err)
	}

	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeZip)
	w.Header().Set(headerContentDisposition, fmt.Sprintf("attachment; filename=%q", downloadName))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
	return nil
}
