// Package webutil holds the HTTP plumbing shared by all API handlers:
// an error-returning handler adapter, a typed HTTP error, and JSON
// response helpers.
package webutil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/prospectorhq/prospector/internal/store"
)

// AppHandler is a handler that reports failure by returning an error
// instead of writing its own error response.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an AppHandler to http.HandlerFunc, translating
// returned errors into JSON error responses. Store sentinels map to
// 404 and 409; anything unrecognized becomes a 500 with the cause
// logged server-side only.
func MakeHandler(handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}

		var httpErr *HTTPError
		var status int
		var message string

		switch {
		case errors.As(err, &httpErr):
			status = httpErr.Code
			message = httpErr.Message
			level := slog.LevelWarn
			if status >= 500 {
				level = slog.LevelError
			}
			args := []any{"code", status, "msg", message, "method", r.Method, "path", r.URL.Path}
			if cause := errors.Unwrap(httpErr); cause != nil && cause.Error() != message {
				args = append(args, "cause", cause)
			}
			slog.Log(r.Context(), level, "request failed", args...)

		case errors.Is(err, store.ErrNotFound):
			status = http.StatusNotFound
			message = msgNotFound
			slog.Info("resource not found", "method", r.Method, "path", r.URL.Path, "error", err)

		case errors.Is(err, store.ErrAlreadyExists):
			status = http.StatusConflict
			message = msgConflict
			slog.Info("resource conflict", "method", r.Method, "path", r.URL.Path, "error", err)

		default:
			status = http.StatusInternalServerError
			message = msgInternalServer
			slog.Error("unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
		}

		if headerSent(w) {
			// Too late for an error response, the handler already wrote one
			slog.Warn("handler returned error after writing response",
				"method", r.Method, "path", r.URL.Path, "error", err)
			return
		}
		RespondWithError(w, status, message)
	}
}
