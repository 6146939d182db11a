package report

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cohortlab/channelscout/internal/quota"
)

// RouterConfig wires the read-only report endpoints.
type RouterConfig struct {
	LedgerPath string
	Progress   ProgressSource
}

// NewRouter builds the report HTTP surface: /health, /quota, /progress.
// Read-only by construction; the server never writes discovery state.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(AccessLog)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/quota", func(w http.ResponseWriter, req *http.Request) {
		entries, err := quota.ReadEntries(cfg.LedgerPath)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, Quota(entries, time.Now()))
	})

	r.Get("/progress", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Progress(cfg.Progress))
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}
