package httpapi

import (
	"context"
	"net/http"
)

type DBHandler struct {
	Maintain func(ctx context.Context) error
}

// Checkpoint is for local tooling only.
func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	if !isLoopback(r) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if h.Maintain != nil {
		if err := h.Maintain(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
