// Package verdictlog drains audit verdicts to storage in the background so the
// request path never waits on the database.
package verdictlog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"phishguard/internal/domain"
	"phishguard/internal/metrics"
	"phishguard/internal/ports"
)

type Pool struct {
	repo         ports.VerdictRepository
	queue        chan domain.VerdictRecord
	writeTimeout time.Duration
	metrics      *metrics.Metrics
	logger       *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

type Option func(*Pool)

func WithMetrics(m *metrics.Metrics) Option { return func(p *Pool) { p.metrics = m } }

func WithLogger(l *slog.Logger) Option { return func(p *Pool) { p.logger = l } }

// WithWriteTimeout bounds each repository insert. Default 5s.
func WithWriteTimeout(d time.Duration) Option { return func(p *Pool) { p.writeTimeout = d } }

func New(repo ports.VerdictRepository, queueSize int, opts ...Option) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	p := &Pool{
		repo:         repo,
		queue:        make(chan domain.VerdictRecord, queueSize),
		writeTimeout: 5 * time.Second,
		logger:       slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Submit enqueues v without blocking. It returns false when the queue is full
// or the pool is closed; the record is then dropped.
func (p *Pool) Submit(v domain.VerdictRecord) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.closed {
		select {
		case p.queue <- v:
			return true
		default:
		}
	}
	p.metrics.VerdictDropped()
	p.logger.Warn("verdict queue full, dropping record", "id", v.ID, "domain", v.RegistrableDomain)
	return false
}

// Run starts concurrency workers that write queued verdicts until Close.
// Writes keep going after ctx is cancelled so the queue can drain.
func (p *Pool) Run(ctx context.Context, concurrency int) {
	if concurrency < 1 {
		return
	}
	base := context.WithoutCancel(ctx)
	for i := 0; i < concurrency; i++ {
		p.wg.Add(1)
		go func(idx int) {
			defer p.wg.Done()
			for v := range p.queue {
				p.write(base, idx, v)
			}
		}(i)
	}
}

func (p *Pool) write(ctx context.Context, worker int, v domain.VerdictRecord) {
	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()
	if err := p.repo.Insert(ctx, v); err != nil {
		p.logger.Error("verdict write failed", "worker", worker, "id", v.ID, "err", err)
	}
}

// Close stops accepting records and waits for queued ones to be written.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	p.wg.Wait()
}
