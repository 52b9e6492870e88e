package ports

import (
	"context"

	"phishguard/internal/domain"
)

// Analyzer scores a single URL.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (domain.AnalysisReport, error)
}

// History returns recent audit verdicts for a registrable domain.
type History interface {
	Recent(ctx context.Context, registrable string, limit int) ([]domain.VerdictRecord, error)
}

// ContextAcquirer assembles the evaluation context for a parsed URL. It never
// fails; missing data is left absent.
type ContextAcquirer interface {
	Acquire(ctx context.Context, parts domain.URLParts) domain.AnalysisContext
}

// DocumentFetcher retrieves the page markup for a URL in one attempt.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// DNSResolver reports whether a name has an A record.
type DNSResolver interface {
	HasARecord(ctx context.Context, name string) (bool, error)
}

// RegistrationLookup returns registration dates for a registrable domain.
type RegistrationLookup interface {
	Lookup(ctx context.Context, registrable string) (domain.RegistrationRecord, error)
}
