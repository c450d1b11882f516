package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"leadhub-engine/internal/domain"
	"leadhub-engine/internal/events"
	"leadhub-engine/internal/match"
	"leadhub-engine/internal/metrics"
	"leadhub-engine/internal/sheetsync"
)

type RequirementsHandler struct {
	Repo    domain.RequirementRepository
	Matcher *match.Engine
	Hub     *events.Hub
	Sync    *sheetsync.Dispatcher
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

func (h RequirementsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.BuyerRequirement
	if err := decodeJSON(w, r, maxFormBody, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.ID, req.CreatedAt, req.UpdatedAt = 0, time.Time{}, time.Time{}

	if err := req.Validate(); err != nil {
		writeFailure(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if err := h.Repo.InsertRequirement(r.Context(), &req); err != nil {
		h.Log.Error("insert buyer requirement", zap.String("request_id", RequestIDFrom(r.Context())), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "Failed to submit requirements")
		return
	}

	h.Metrics.RecordCreated("requirement")
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeRequirementCreated, map[string]any{"id": req.ID})
	h.Sync.Enqueue(sheetsync.RequirementRecord(req))

	writeJSON(w, map[string]any{
		"success": true,
		"message": "Buyer requirements submitted successfully",
		"id":      req.ID,
	})
}

func (h RequirementsHandler) List(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Repo.ListRequirements(r.Context())
	if err != nil {
		h.Log.Error("list buyer requirements", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "Failed to fetch buyer requirements")
		return
	}
	if reqs == nil {
		reqs = []domain.BuyerRequirement{}
	}
	writeJSON(w, map[string]any{"success": true, "requirements": reqs})
}

// Match runs the requirement in the body against stored listings. The
// requirement itself is not stored.
func (h RequirementsHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req domain.BuyerRequirement
	if err := decodeJSON(w, r, maxFormBody, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	matches, err := h.Matcher.Run(r.Context(), req)
	h.Metrics.ObserveMatch(len(matches), err)
	if err != nil {
		h.Log.Error("match properties", zap.String("request_id", RequestIDFrom(r.Context())), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "Failed to match properties")
		return
	}
	if matches == nil {
		matches = []domain.Listing{}
	}
	writeJSON(w, map[string]any{"success": true, "matches": matches, "count": len(matches)})
}
