package api

import (
	"fmt"
	"net/http"
	"time"
)

const headerProcessTime = "X-Process-Time"

// ProcessTime reports the handler's wall-clock time in seconds on the
// X-Process-Time response header.
func ProcessTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&processTimer{ResponseWriter: w, start: time.Now()}, r)
	})
}

// processTimer stamps the timing header just before the status line goes
// out, so the measurement covers the handler's actual work.
type processTimer struct {
	http.ResponseWriter
	start       time.Time
	wroteHeader bool
}

func (t *processTimer) WriteHeader(code int) {
	if !t.wroteHeader {
		t.wroteHeader = true
		t.Header().Set(headerProcessTime, fmt.Sprintf("%.6f", time.Since(t.start).Seconds()))
	}
	t.ResponseWriter.WriteHeader(code)
}

func (t *processTimer) Write(b []byte) (int, error) {
	if !t.wroteHeader {
		t.WriteHeader(http.StatusOK)
	}
	return t.ResponseWriter.Write(b)
}
