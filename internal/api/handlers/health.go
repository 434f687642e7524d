package handlers

import (
	"net/http"
)

// HealthHandler reports liveness along with which backends the service is
// wired to.
type HealthHandler struct {
	EngineURL    string
	SessionStore string
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]string{
		"status":        "ok",
		"engine":        h.EngineURL,
		"session_store": h.SessionStore,
	}
	writeJSON(w, r, http.StatusOK, res)
}
