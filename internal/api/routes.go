// Package api exposes the prospect research workflow over HTTP: capture
// a prospect, inspect accounts, run profile generation, render assets,
// and download the rendered files.
package api

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/prospectorhq/prospector/internal/render"
	"github.com/prospectorhq/prospector/internal/research"
	"github.com/prospectorhq/prospector/internal/store"
	"github.com/prospectorhq/prospector/internal/webutil"
)

const (
	apiBasePath       = "/api"
	prospectsBasePath = "/prospects"
	accountsBasePath  = "/accounts"
)

const (
	paramAccountID = "accountID"
	paramAssetKind = "kind"
)

// NewRouter wires the default handler set over the given dependencies.
func NewRouter(st *store.Store, svc *research.Service, renderer *render.Renderer) http.Handler {
	return SetupRoutes(st,
		NewProspectHandler(svc),
		NewAccountHandler(st, svc, renderer),
		NewAssetHandler(st, renderer),
	)
}

func SetupRoutes(
	st *store.Store,
	prospectHandler *ProspectHandler,
	accountHandler *AccountHandler,
	assetHandler *AssetHandler,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(ProcessTime)

	r.Route(apiBasePath, func(r chi.Router) {
		r.Post(prospectsBasePath, webutil.MakeHandler(prospectHandler.HandleCreateProspect))

		r.Route(accountsBasePath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(accountHandler.HandleListAccounts))
			r.Route("/{"+paramAccountID+"}", func(r chi.Router) {
				r.Get("/", webutil.MakeHandler(accountHandler.HandleGetAccount))
				r.Delete("/", webutil.MakeHandler(accountHandler.HandleDeleteAccount))
				r.Post("/profile", webutil.MakeHandler(accountHandler.HandleGenerateProfile))
				r.Post("/transcript", webutil.MakeHandler(accountHandler.HandleSummarizeTranscript))
				r.Post("/assets", webutil.MakeHandler(assetHandler.HandleRenderAssets))
				r.Get("/assets/{"+paramAssetKind+"}/download", webutil.MakeHandler(assetHandler.HandleDownloadAsset))
			})
		})
	})

	// Health check endpoint
	r.Get("/healthz", handleHealthCheck(st))

	return r
}

// handleHealthCheck reports liveness after a database ping.
func handleHealthCheck(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			log.Printf("ERROR (API): health check ping failed: %v", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}
