// Package acquisition builds the AnalysisContext for a URL. Every external
// call is single-attempt and bounded; failures degrade to absent data and are
// never returned to the caller.
package acquisition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/errgroup"

	"phishguard/internal/domain"
	"phishguard/internal/markup"
	"phishguard/internal/metrics"
	"phishguard/internal/ports"
)

// Timeouts bound each acquisition call. Overall caps the whole acquisition
// phase; anything still pending at that point is treated as absent.
type Timeouts struct {
	Fetch        time.Duration
	DNS          time.Duration
	Registration time.Duration
	Overall      time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Fetch:        10 * time.Second,
		DNS:          5 * time.Second,
		Registration: 10 * time.Second,
		Overall:      25 * time.Second,
	}
}

type Service struct {
	fetcher  ports.DocumentFetcher
	resolver ports.DNSResolver
	registry ports.RegistrationLookup
	timeouts Timeouts
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

// WithClock fixes the reference time stamped on every context.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func New(fetcher ports.DocumentFetcher, resolver ports.DNSResolver, registry ports.RegistrationLookup, t Timeouts, opts ...Option) *Service {
	s := &Service{
		fetcher:  fetcher,
		resolver: resolver,
		registry: registry,
		timeouts: t,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ParseURL requires a scheme and a host. A '%' that does not start a valid
// escape is read as a literal percent sign, the way browsers do.
func ParseURL(rawurl string) (domain.URLParts, error) {
	u, err := url.Parse(rawurl)
	var escErr url.EscapeError
	if errors.As(err, &escErr) {
		u, err = url.Parse(escapeStrayPercents(rawurl))
	}
	if err != nil {
		return domain.URLParts{}, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return domain.URLParts{}, fmt.Errorf("%w: scheme and host are required", domain.ErrInvalidURL)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return domain.URLParts{}, fmt.Errorf("%w: empty host", domain.ErrInvalidURL)
	}
	return domain.URLParts{
		Raw:      rawurl,
		Scheme:   strings.ToLower(u.Scheme),
		Hostname: host,
		Port:     u.Port(),
	}, nil
}

func escapeStrayPercents(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && (i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2])) {
			b.WriteString("%25")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// RegistrableDomain returns eTLD+1 for host. IP literals and hosts without a
// registrable part are returned unchanged.
func RegistrableDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if net.ParseIP(host) != nil {
		return host
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return registrable
}

func isIPLiteral(host string) bool { return net.ParseIP(host) != nil }

// Acquire runs the document fetch, DNS resolution and registration lookup
// concurrently and assembles the context. It never fails.
func (s *Service) Acquire(ctx context.Context, parts domain.URLParts) domain.AnalysisContext {
	registrable := RegistrableDomain(parts.Hostname)
	actx := domain.AnalysisContext{
		URL:               parts,
		RegistrableDomain: registrable,
		Now:               s.now(),
	}

	if s.timeouts.Overall > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeouts.Overall)
		defer cancel()
	}

	var (
		html   string
		exists bool
		record *domain.RegistrationRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		html = s.fetchDocument(gctx, parts.Raw)
		return nil
	})
	if !isIPLiteral(registrable) {
		g.Go(func() error {
			exists = s.resolveDNS(gctx, registrable)
			return nil
		})
		g.Go(func() error {
			record = s.lookupRegistration(gctx, registrable)
			return nil
		})
	} else {
		s.miss(metrics.SourceDNS, registrable, errIPLiteral)
		s.miss(metrics.SourceRegistration, registrable, errIPLiteral)
	}
	_ = g.Wait()

	if doc := markup.Parse(html); doc != nil {
		actx.Document = doc
	}
	actx.DNSExists = exists
	actx.Registration = record
	return actx
}

var (
	errIPLiteral = errors.New("host is an IP literal")
	errNoDates   = errors.New("no dates in record")
)

func (s *Service) fetchDocument(ctx context.Context, rawurl string) string {
	if s.fetcher == nil {
		return ""
	}
	html, err := call(ctx, s.timeouts.Fetch, func(ctx context.Context) (string, error) {
		return s.fetcher.Fetch(ctx, rawurl)
	})
	if err != nil {
		s.miss(metrics.SourceDocument, rawurl, err)
		return ""
	}
	return html
}

func (s *Service) resolveDNS(ctx context.Context, name string) bool {
	if s.resolver == nil {
		return false
	}
	ok, err := call(ctx, s.timeouts.DNS, func(ctx context.Context) (bool, error) {
		return s.resolver.HasARecord(ctx, name)
	})
	if err != nil || !ok {
		s.miss(metrics.SourceDNS, name, err)
		return false
	}
	return true
}

func (s *Service) lookupRegistration(ctx context.Context, name string) *domain.RegistrationRecord {
	if s.registry == nil {
		return nil
	}
	rec, err := call(ctx, s.timeouts.Registration, func(ctx context.Context) (domain.RegistrationRecord, error) {
		return s.registry.Lookup(ctx, name)
	})
	if err != nil {
		s.miss(metrics.SourceRegistration, name, err)
		return nil
	}
	if rec.CreatedAt == nil && rec.ExpiresAt == nil {
		s.miss(metrics.SourceRegistration, name, errNoDates)
		return nil
	}
	return &rec
}

// call runs fn under its own timeout and gives up when ctx ends, even if fn
// ignores cancellation.
func call[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("acquisition panic: %v", r)}
			}
		}()
		v, err := fn(ctx)
		ch <- result{v, err}
	}()
	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (s *Service) miss(source, target string, err error) {
	s.metrics.AcquisitionMiss(source)
	s.logger.Debug("acquisition miss", "source", source, "target", target, "err", err)
}
