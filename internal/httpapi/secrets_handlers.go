package httpapi

import (
	"errors"
	"net/http"

	"github.com/zalando/go-keyring"

	"leadhub-engine/internal/secrets"
)

type SecretsHandler struct{}

type setWebhookReq struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
}

// SetWebhook keeps an Apps Script URL in the OS keychain instead of the
// config file. Config values still win when both are set.
func (h SecretsHandler) SetWebhook(w http.ResponseWriter, r *http.Request) {
	var req setWebhookReq
	if err := decodeJSON(w, r, maxFormBody, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	kind, err := secrets.ParseWebhookKind(req.Kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := secrets.SetWebhookURL(kind, req.URL); err != nil {
		http.Error(w, "failed to store webhook: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) DeleteWebhook(w http.ResponseWriter, r *http.Request) {
	kind, err := secrets.ParseWebhookKind(r.URL.Query().Get("kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := secrets.DeleteWebhookURL(kind); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		http.Error(w, "failed to delete webhook: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
