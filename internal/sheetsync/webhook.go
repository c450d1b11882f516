package sheetsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"leadhub-engine/internal/config"
)

// RequirementsSheet is the tab the Apps Script writes buyer requirements to.
const RequirementsSheet = "BuyerRequirements"

// Targets are the Apps Script web app URLs, read on every send so config
// reloads take effect immediately.
type Targets struct {
	Listings     string
	Requirements string
}

// WebhookSink posts records to Google Apps Script web apps.
type WebhookSink struct {
	targets func() Targets
	client  *http.Client
	limiter *HostLimiter
	log     *zap.Logger
}

func NewWebhookSink(targets func() Targets, client *http.Client, limiter *HostLimiter, log *zap.Logger) *WebhookSink {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &WebhookSink{targets: targets, client: client, limiter: limiter, log: log}
}

func (w *WebhookSink) Name() string { return "webhook" }

type requirementEnvelope struct {
	Sheet string `json:"sheet"`
	Data  any    `json:"data"`
}

func (w *WebhookSink) Send(ctx context.Context, rec Record) error {
	t := w.targets()
	var target string
	var body any
	switch rec.Kind {
	case KindListing:
		target, body = t.Listings, rec.Listing
	case KindRequirement:
		target, body = t.Requirements, requirementEnvelope{Sheet: RequirementsSheet, Data: rec.Requirement}
	default:
		return fmt.Errorf("webhook: unknown record kind %q", rec.Kind)
	}
	if !usableURL(target) {
		return ErrNotConfigured
	}

	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	if w.limiter != nil {
		if err := w.limiter.WaitURL(ctx, target); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer resp.Body.Close()

	reply, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook status=%s body=%q", resp.Status, strings.TrimSpace(string(reply)))
	}
	w.log.Debug("webhook response", zap.String("kind", string(rec.Kind)), zap.ByteString("body", reply))
	return nil
}

// usableURL rejects empty URLs and setup-guide placeholders.
func usableURL(u string) bool {
	u = strings.TrimSpace(u)
	return u != "" && !strings.Contains(u, config.PlaceholderDeploymentID)
}
