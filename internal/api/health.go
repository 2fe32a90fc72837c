package api

import (
	"log/slog"
	"net/http"

	"github.com/faqpilot/faqpilot/internal/taxonomy"
)

// health is a liveness probe for Docker/Kubernetes.
func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, slog.Default())
}

// readiness reports whether the server can answer questions: ready means a
// taxonomy tree is loaded and non-empty.
func readiness(store *taxonomy.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		tree := store.Tree()
		if tree == nil || tree.Len() == 0 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": "taxonomy not loaded",
			}, slog.Default())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "ready",
			"categories": tree.Len(),
		}, slog.Default())
	})
}
