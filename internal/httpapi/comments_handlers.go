package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"leadhub-engine/internal/domain"
	"leadhub-engine/internal/events"
	"leadhub-engine/internal/metrics"
)

type CommentsHandler struct {
	Repo    domain.CommentRepository
	Hub     *events.Hub
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

type createCommentReq struct {
	Comment           string      `json:"comment"`
	PropertyListingID domain.Text `json:"property_listing_id"`
	CreatedBy         domain.Text `json:"created_by"`
}

// parseListingID accepts a number, a numeric string, or nothing.
func parseListingID(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return &id, nil
}

func (h CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCommentReq
	if err := decodeJSON(w, r, maxFormBody, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	listingID, err := parseListingID(string(req.PropertyListingID))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid property_listing_id")
		return
	}

	c := domain.Comment{
		PropertyListingID: listingID,
		Comment:           req.Comment,
		CreatedBy:         req.CreatedBy,
	}
	if err := c.Validate(); err != nil {
		writeFailure(w, http.StatusBadRequest, "Comment is required")
		return
	}

	err = h.Repo.InsertComment(r.Context(), &c)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeFailure(w, http.StatusNotFound, "Property listing not found")
		return
	case err != nil:
		h.Log.Error("insert comment", zap.String("request_id", RequestIDFrom(r.Context())), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	h.Metrics.RecordCreated("comment")
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeCommentCreated, map[string]any{
		"id": c.ID, "property_listing_id": c.PropertyListingID,
	})
	writeJSON(w, map[string]any{"success": true, "id": c.ID, "created_at": c.CreatedAt})
}

func (h CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	listingID, err := parseListingID(r.URL.Query().Get("property_listing_id"))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid property_listing_id")
		return
	}
	comments, err := h.Repo.ListComments(r.Context(), listingID)
	if err != nil {
		h.Log.Error("list comments", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	writeJSON(w, map[string]any{"success": true, "data": comments})
}
