package sheetsync

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leadhub-engine/internal/domain"
)

type captured struct {
	mu     sync.Mutex
	bodies []map[string]any
	paths  []string
}

func fakeScript(t *testing.T, status int) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		var m map[string]any
		_ = json.Unmarshal(b, &m)
		c.mu.Lock()
		c.bodies = append(c.bodies, m)
		c.paths = append(c.paths, r.URL.Path)
		c.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func TestWebhookSink_ListingBody(t *testing.T) {
	srv, got := fakeScript(t, http.StatusOK)
	sink := NewWebhookSink(func() Targets {
		return Targets{Listings: srv.URL + "/listings", Requirements: srv.URL + "/reqs"}
	}, srv.Client(), NewHostLimiter(100, 10), zap.NewNop())

	l := domain.Listing{ID: 7, Email: "a@x.ae", Emirate: "Dubai"}
	require.NoError(t, sink.Send(context.Background(), ListingRecord(l)))

	require.Len(t, got.bodies, 1)
	assert.Equal(t, "/listings", got.paths[0])
	assert.Equal(t, float64(7), got.bodies[0]["id"])
	assert.Equal(t, "Dubai", got.bodies[0]["emirate"])
}

func TestWebhookSink_RequirementEnvelope(t *testing.T) {
	srv, got := fakeScript(t, http.StatusOK)
	sink := NewWebhookSink(func() Targets {
		return Targets{Requirements: srv.URL + "/reqs"}
	}, srv.Client(), nil, nil)

	r := domain.BuyerRequirement{Email: "b@x.ae", Purpose: "Rent"}
	require.NoError(t, sink.Send(context.Background(), RequirementRecord(r)))

	require.Len(t, got.bodies, 1)
	assert.Equal(t, RequirementsSheet, got.bodies[0]["sheet"])
	data, ok := got.bodies[0]["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Rent", data["purpose"])
}

func TestWebhookSink_NotConfigured(t *testing.T) {
	sink := NewWebhookSink(func() Targets {
		return Targets{Listings: "https://script.google.com/macros/s/YOUR_DEPLOYMENT_ID/exec"}
	}, nil, nil, nil)

	err := sink.Send(context.Background(), ListingRecord(domain.Listing{}))
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = sink.Send(context.Background(), RequirementRecord(domain.BuyerRequirement{}))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestWebhookSink_ErrorStatus(t *testing.T) {
	srv, _ := fakeScript(t, http.StatusInternalServerError)
	sink := NewWebhookSink(func() Targets { return Targets{Listings: srv.URL} }, srv.Client(), nil, nil)

	err := sink.Send(context.Background(), ListingRecord(domain.Listing{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestRecordRow(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	row := ListingRecord(domain.Listing{ID: 3, Email: "a@x.ae", CreatedAt: created}).Row()

	require.Len(t, row, len(domain.ListingColumns)+2)
	assert.Equal(t, int64(3), row[0])
	assert.Equal(t, "2024-03-01T10:00:00Z", row[1])
	assert.Equal(t, "a@x.ae", row[2])

	assert.Nil(t, Record{Kind: KindListing}.Row())
}

type fakeSink struct {
	name string
	err  error

	mu   sync.Mutex
	recs []Record
}

func (f *fakeSink) Name() string { return f.name }

func (f *fakeSink) Send(_ context.Context, rec Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, rec)
	return f.err
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recs)
}

func TestDispatcher_FansOutToSinks(t *testing.T) {
	ok := &fakeSink{name: "ok"}
	bad := &fakeSink{name: "bad", err: errors.New("boom")}
	skip := &fakeSink{name: "skip", err: ErrNotConfigured}
	d := NewDispatcher(8, time.Second, zap.NewNop(), nil, ok, bad, skip)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	assert.True(t, d.Enqueue(ListingRecord(domain.Listing{ID: 1})))
	assert.True(t, d.Enqueue(RequirementRecord(domain.BuyerRequirement{ID: 2})))

	assert.Eventually(t, func() bool { return d.Status().Failed == 2 }, 2*time.Second, 10*time.Millisecond)
	st := d.Status()
	assert.Equal(t, int64(2), st.Sent)
	assert.Contains(t, st.LastError, "boom")
	assert.NotEmpty(t, st.LastRunAt)
	assert.Equal(t, 2, ok.count())
	assert.Equal(t, 2, skip.count())

	cancel()
	assert.NoError(t, <-done)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, time.Second, nil, nil)

	assert.True(t, d.Enqueue(ListingRecord(domain.Listing{ID: 1})))
	assert.False(t, d.Enqueue(ListingRecord(domain.Listing{ID: 2})))

	st := d.Status()
	assert.Equal(t, int64(1), st.Dropped)
	assert.Equal(t, 1, st.Pending)
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.True(t, d.Enqueue(ListingRecord(domain.Listing{})))
	assert.Equal(t, Status{}, d.Status())
}
