package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"leadhub-engine/internal/drive"
)

type DriveHandler struct {
	Proxy *drive.Proxy
	Log   *zap.Logger
}

type driveHTMLFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (h DriveHandler) Upload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBody))
	if err != nil || !json.Valid(body) {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	reply, err := h.Proxy.Forward(r.Context(), body)
	var htmlErr *drive.HTMLReplyError
	switch {
	case errors.Is(err, drive.ErrNotConfigured):
		writeFailure(w, http.StatusInternalServerError, "Google Drive upload URL not configured")
		return
	case errors.As(err, &htmlErr):
		WriteJSON(w, http.StatusInternalServerError, driveHTMLFailure{
			Error:   "Invalid response from Google Drive - likely HTML redirect or authorization issue",
			Details: htmlErr.Details,
			Hint:    "Check if the Google Apps Script is properly deployed and authorized",
		})
		return
	case err != nil:
		h.Log.Error("drive upload proxy", zap.String("request_id", RequestIDFrom(r.Context())), zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if !reply.OK {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(reply.Body)
}
