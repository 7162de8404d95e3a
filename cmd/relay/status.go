package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/JaimeStill/relay/internal/scheduler"
	"github.com/JaimeStill/relay/pkg/middleware"
)

const defaultHistoryLimit = 20

// statusHandler builds the watcher-mode HTTP surface: liveness, lifecycle
// readiness, the latest pass report, and pass history when persistence is
// enabled.
func (a *App) statusHandler(watcher *scheduler.Watcher) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !a.infra.Lifecycle.Ready() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	mux.HandleFunc("GET /report", func(w http.ResponseWriter, r *http.Request) {
		report := watcher.Latest()
		if report == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no pass has completed yet"})
			return
		}
		writeJSON(w, http.StatusOK, report)
	})

	mux.HandleFunc("GET /reports", func(w http.ResponseWriter, r *http.Request) {
		if a.history == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "pass history is not enabled"})
			return
		}

		limit := defaultHistoryLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				limit = parsed
			}
		}

		records, err := a.history.List(r.Context(), limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "pass history unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, records)
	})

	stack := middleware.New()
	stack.Use(middleware.Logger(a.infra.Logger))
	return stack.Apply(mux)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
