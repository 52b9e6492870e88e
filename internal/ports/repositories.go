package ports

import (
	"context"

	"phishguard/internal/domain"
)

// VerdictRepository stores audit verdicts keyed by registrable domain (eTLD+1).
type VerdictRepository interface {
	Insert(ctx context.Context, v domain.VerdictRecord) error
	ListByDomain(ctx context.Context, registrable string, limit int) ([]domain.VerdictRecord, error)
}
