// Package drive relays file uploads from the browser to a Google Apps Script
// web app that writes them into Drive.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("drive upload url not configured")

// detailsLimit caps how much of a non-JSON upstream reply is echoed back.
const detailsLimit = 1000

// Uploads carry base64 files, so allow far more than a form post.
const maxReplyBytes = 8 << 20

// HTMLReplyError means the script answered with a page instead of JSON,
// usually a login redirect or an undeployed script.
type HTMLReplyError struct {
	Status  int
	Title   string
	Details string
}

func (e *HTMLReplyError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("drive upload: non-JSON reply (status %d, page %q)", e.Status, e.Title)
	}
	return fmt.Sprintf("drive upload: non-JSON reply (status %d)", e.Status)
}

// Reply is the upstream JSON, relayed verbatim.
type Reply struct {
	OK   bool
	Body json.RawMessage
}

type Proxy struct {
	url    func() string
	client *http.Client
	log    *zap.Logger
}

func NewProxy(url func() string, client *http.Client, log *zap.Logger) *Proxy {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Proxy{url: url, client: client, log: log}
}

// Forward posts payload to the configured script and returns its JSON reply.
func (p *Proxy) Forward(ctx context.Context, payload []byte) (Reply, error) {
	target := strings.TrimSpace(p.url())
	if target == "" {
		return Reply{}, ErrNotConfigured
	}
	p.log.Info("proxying drive upload", zap.String("url", target), zap.Int("bytes", len(payload)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return Reply{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Reply{}, fmt.Errorf("drive upload: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return Reply{}, fmt.Errorf("drive upload: read reply: %w", err)
	}
	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	p.log.Debug("drive reply", zap.Int("status", resp.StatusCode), zap.String("head", head(string(body), 500)))

	if !json.Valid(body) {
		herr := &HTMLReplyError{
			Status:  resp.StatusCode,
			Title:   pageTitle(body),
			Details: head(string(body), detailsLimit),
		}
		p.log.Warn("drive reply was not JSON", zap.Int("status", herr.Status), zap.String("title", herr.Title))
		return Reply{}, herr
	}
	return Reply{OK: ok, Body: json.RawMessage(body)}, nil
}

func pageTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// head returns at most n runes of s.
func head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
