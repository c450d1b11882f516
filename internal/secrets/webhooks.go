package secrets

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// “Service” groups the engine's secrets in the OS keychain.
	KeyringService = "leadhub"
)

// WebhookKind names one of the Apps Script endpoints the engine posts to.
type WebhookKind string

const (
	WebhookListings     WebhookKind = "listings"
	WebhookRequirements WebhookKind = "requirements"
	WebhookDrive        WebhookKind = "drive"
)

var ErrUnknownKind = errors.New("unknown webhook kind")

func ParseWebhookKind(s string) (WebhookKind, error) {
	switch k := WebhookKind(strings.ToLower(strings.TrimSpace(s))); k {
	case WebhookListings, WebhookRequirements, WebhookDrive:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func account(kind WebhookKind) string {
	return "leadhub:webhook:" + string(kind)
}

func GetWebhookURL(kind WebhookKind) (string, error) {
	v, err := keyring.Get(KeyringService, account(kind))
	if err != nil {
		return "", fmt.Errorf("webhook %s: %w", kind, err)
	}
	return v, nil
}

func SetWebhookURL(kind WebhookKind, raw string) error {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("webhook %s: not an http(s) URL", kind)
	}
	return keyring.Set(KeyringService, account(kind), raw)
}

func DeleteWebhookURL(kind WebhookKind) error {
	return keyring.Delete(KeyringService, account(kind))
}

// Resolve prefers the configured URL and falls back to the keychain. A
// missing or unreadable keychain entry resolves to "".
func Resolve(kind WebhookKind, configured string) string {
	if s := strings.TrimSpace(configured); s != "" {
		return s
	}
	v, err := GetWebhookURL(kind)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}
