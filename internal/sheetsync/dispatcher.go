package sheetsync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"leadhub-engine/internal/metrics"
)

// Status is what GET /api/sync/status reports.
type Status struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	Sent      int64  `json:"sent"`
	Failed    int64  `json:"failed"`
	Dropped   int64  `json:"dropped"`
	Pending   int    `json:"pending"`
}

// Dispatcher owns a bounded queue of records and delivers each one to every
// sink. Enqueue never blocks the request path.
type Dispatcher struct {
	queue   chan Record
	sinks   []Sink
	timeout time.Duration
	log     *zap.Logger
	metrics *metrics.Metrics

	mu     sync.Mutex
	status Status

	dropped atomic.Int64
	now     func() time.Time
}

func NewDispatcher(queueSize int, timeout time.Duration, log *zap.Logger, m *metrics.Metrics, sinks ...Sink) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		queue:   make(chan Record, queueSize),
		sinks:   sinks,
		timeout: timeout,
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

// Enqueue reports false when the queue is full and the record was dropped.
// A nil dispatcher accepts and discards everything.
func (d *Dispatcher) Enqueue(rec Record) bool {
	if d == nil {
		return true
	}
	select {
	case d.queue <- rec:
		return true
	default:
		d.dropped.Add(1)
		d.metrics.RecordSync("queue", metrics.SyncDropped)
		d.log.Warn("sync queue full, record dropped", zap.String("kind", string(rec.Kind)))
		return false
	}
}

// Run drains the queue until ctx is done. Records still queued at shutdown
// are abandoned.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case rec := <-d.queue:
			d.deliver(ctx, rec)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, rec Record) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var (
		g        errgroup.Group
		mu       sync.Mutex
		failures []error
		sent     int64
	)
	for _, s := range d.sinks {
		g.Go(func() error {
			err := s.Send(ctx, rec)
			switch {
			case errors.Is(err, ErrNotConfigured):
				d.metrics.RecordSync(s.Name(), metrics.SyncSkipped)
				return nil
			case err != nil:
				d.metrics.RecordSync(s.Name(), metrics.SyncFailed)
				d.log.Warn("sheet sync failed",
					zap.String("sink", s.Name()),
					zap.String("kind", string(rec.Kind)),
					zap.Error(err),
				)
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return nil
			}
			d.metrics.RecordSync(s.Name(), metrics.SyncSent)
			mu.Lock()
			sent++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	now := d.now().Format(time.RFC3339)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status.LastRunAt = now
	d.status.Sent += sent
	if len(failures) > 0 {
		d.status.Failed += int64(len(failures))
		d.status.LastError = errors.Join(failures...).Error()
		return
	}
	d.status.LastError = ""
	if sent > 0 {
		d.status.LastOkAt = now
	}
}

func (d *Dispatcher) Status() Status {
	if d == nil {
		return Status{}
	}
	d.mu.Lock()
	st := d.status
	d.mu.Unlock()
	st.Dropped = d.dropped.Load()
	st.Pending = len(d.queue)
	return st
}
