package api

import (
	"errors"
	"net/http"

	"github.com/faqpilot/faqpilot/internal/log"
	"github.com/faqpilot/faqpilot/internal/taxonomy"
)

// taxonomyHandler serves the operator endpoints backed by the store.
type taxonomyHandler struct {
	store  *taxonomy.Store
	logger log.Logger
}

// reload re-reads the FAQ document and swaps in the new tree. A rejected
// document returns 409 and leaves the serving tree untouched, so reload is
// always safe to call.
func (h *taxonomyHandler) reload(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reload(); err != nil {
		requestID, _ := requestIDFromContext(r.Context())
		h.logger.Warn("taxonomy reload failed",
			"error", err,
			"request_id", requestID,
		)

		if errors.Is(err, taxonomy.ErrMalformedTaxonomy) {
			writeError(w, http.StatusConflict, "taxonomy_rejected", err.Error(), h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, "reload_failed", "could not reload taxonomy", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "reloaded",
		"categories": h.store.Tree().Len(),
	}, h.logger)
}

// directory returns the current classification directory rendering, the
// exact text the classifier sees. Answers are never included.
func (h *taxonomyHandler) directory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"directory":  h.store.RenderDirectory(),
		"categories": h.store.Tree().Len(),
	}, h.logger)
}
