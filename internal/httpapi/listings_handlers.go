package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"leadhub-engine/internal/domain"
	"leadhub-engine/internal/events"
	"leadhub-engine/internal/metrics"
	"leadhub-engine/internal/sheetsync"
)

type ListingsHandler struct {
	Repo    domain.ListingRepository
	Hub     *events.Hub
	Sync    *sheetsync.Dispatcher
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

func (h ListingsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var l domain.Listing
	if err := decodeJSON(w, r, maxFormBody, &l); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	// the store owns identity and timestamps
	l.ID, l.CreatedAt = 0, time.Time{}

	if err := l.Validate(); err != nil {
		writeFailure(w, http.StatusBadRequest, "Email is required")
		return
	}
	if err := h.Repo.InsertListing(r.Context(), &l); err != nil {
		h.Log.Error("insert listing", zap.String("request_id", RequestIDFrom(r.Context())), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "Failed to save property listing")
		return
	}

	h.Metrics.RecordCreated("listing")
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeListingCreated, map[string]any{"id": l.ID})
	h.Sync.Enqueue(sheetsync.ListingRecord(l))

	writeJSON(w, map[string]any{"success": true, "id": l.ID})
}

func (h ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listings, err := h.Repo.ListListings(r.Context(), domain.ListingQuery{
		Search: q.Get("search"),
		SortBy: q.Get("sortBy"),
		Order:  q.Get("order"),
	})
	if err != nil {
		h.Log.Error("list listings", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "Failed to fetch property listings")
		return
	}
	if listings == nil {
		listings = []domain.Listing{}
	}
	writeJSON(w, map[string]any{"success": true, "data": listings})
}

type deleteListingsReq struct {
	ID  int64   `json:"id"`
	IDs []int64 `json:"ids"`
}

func (h ListingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteListingsReq
	if err := decodeJSON(w, r, maxFormBody, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Property listing ID(s) required")
		return
	}
	ids := req.IDs
	if len(ids) == 0 && req.ID != 0 {
		ids = []int64{req.ID}
	}
	if len(ids) == 0 {
		writeFailure(w, http.StatusBadRequest, "Property listing ID(s) required")
		return
	}

	n, err := h.Repo.DeleteListings(r.Context(), ids)
	switch {
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		h.Log.Error("delete listings", zap.Int64s("ids", ids), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "Failed to delete property listing(s)")
		return
	case n == 0:
		writeFailure(w, http.StatusNotFound, "Property listing(s) not found")
		return
	}

	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeListingsDeleted, map[string]any{"ids": ids, "deleted": n})
	writeJSON(w, map[string]any{
		"success": true,
		"deleted": n,
		"message": fmt.Sprintf("Successfully deleted %d property listing(s)", n),
	})
}
