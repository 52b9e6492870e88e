// Package scanner runs the analysis pipeline for one URL: validate, acquire,
// evaluate, aggregate, recommend.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"phishguard/internal/domain"
	"phishguard/internal/metrics"
	"phishguard/internal/ports"
	"phishguard/internal/services/acquisition"
	"phishguard/internal/services/features"
	"phishguard/internal/services/scoring"
)

type Service struct {
	acquirer ports.ContextAcquirer
	sink     ports.VerdictSink
	metrics  *metrics.Metrics
	logger   *slog.Logger

	// evaluate is swapped in tests to exercise the failure boundary.
	evaluate func(*domain.AnalysisContext) []domain.FeatureResult
}

type Option func(*Service)

// WithVerdictSink enables write-behind auditing of every completed analysis.
func WithVerdictSink(sink ports.VerdictSink) Option { return func(s *Service) { s.sink = sink } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

func New(acquirer ports.ContextAcquirer, opts ...Option) *Service {
	s := &Service{
		acquirer: acquirer,
		logger:   slog.Default(),
		evaluate: features.EvaluateAll,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Validate accepts only absolute http and https URLs.
func Validate(rawurl string) (domain.URLParts, error) {
	if !strings.HasPrefix(rawurl, "http://") && !strings.HasPrefix(rawurl, "https://") {
		return domain.URLParts{}, fmt.Errorf("%w: must start with http:// or https://", domain.ErrInvalidURL)
	}
	return acquisition.ParseURL(rawurl)
}

// Analyze returns the full report for rawurl. Errors wrap either
// domain.ErrInvalidURL, in which case nothing was fetched, or
// domain.ErrAnalysisFailed.
func (s *Service) Analyze(ctx context.Context, rawurl string) (domain.AnalysisReport, error) {
	start := time.Now()
	parts, err := Validate(rawurl)
	if err != nil {
		s.metrics.AnalysisFailed(metrics.ReasonInvalidURL)
		return domain.AnalysisReport{}, err
	}

	actx := s.acquirer.Acquire(ctx, parts)
	report, err := s.assemble(&actx)
	if err != nil {
		s.metrics.AnalysisFailed(metrics.ReasonInternal)
		s.logger.Error("analysis failed", "url", rawurl, "err", err)
		return domain.AnalysisReport{}, fmt.Errorf("%w: %v", domain.ErrAnalysisFailed, err)
	}

	s.metrics.ObserveAnalysis(report.Classification, time.Since(start))
	s.logger.Debug("analysis complete", "url", rawurl,
		"classification", report.Classification, "score", report.OverallScore)
	s.record(report, actx)
	return report, nil
}

// assemble is the single failure boundary for evaluation and aggregation.
func (s *Service) assemble(actx *domain.AnalysisContext) (report domain.AnalysisReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			report, err = domain.AnalysisReport{}, fmt.Errorf("evaluation panic: %v", r)
		}
	}()
	results := s.evaluate(actx)
	if len(results) != features.Count {
		return domain.AnalysisReport{}, fmt.Errorf("got %d feature results, want %d", len(results), features.Count)
	}
	v := scoring.Aggregate(results)
	return domain.AnalysisReport{
		URL:             actx.URL.Raw,
		OverallScore:    v.Score,
		Classification:  v.Classification,
		Confidence:      v.Confidence,
		Features:        results,
		Recommendations: scoring.Recommend(results, v.Classification),
	}, nil
}

func (s *Service) record(report domain.AnalysisReport, actx domain.AnalysisContext) {
	if s.sink == nil {
		return
	}
	v := domain.VerdictRecord{
		ID:                uuid.NewString(),
		URL:               report.URL,
		RegistrableDomain: actx.RegistrableDomain,
		Classification:    report.Classification,
		Score:             report.OverallScore,
		Confidence:        report.Confidence,
		HighRiskCount:     report.HighRiskCount(),
		CreatedAt:         actx.Now,
	}
	if !s.sink.Submit(v) {
		s.logger.Warn("verdict dropped", "url", report.URL)
	}
}
