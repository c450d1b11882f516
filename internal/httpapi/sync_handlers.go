package httpapi

import (
	"net/http"

	"leadhub-engine/internal/sheetsync"
)

type SyncHandler struct {
	Sync *sheetsync.Dispatcher
}

func (h SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Sync.Status())
}
