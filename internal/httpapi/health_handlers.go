package httpapi

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"leadhub-engine/internal/domain"
)

type HealthHandler struct {
	Repo domain.Repository
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	writeJSON(w, map[string]any{
		"success":           true,
		"message":           "API is working",
		"databaseConnected": h.Repo != nil && h.Repo.Ping(ctx) == nil,
		"goVersion":         runtime.Version(),
	})
}
