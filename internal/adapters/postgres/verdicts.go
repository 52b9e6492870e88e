package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"phishguard/internal/domain"
)

// Insert stores one audit verdict. Re-inserting the same id is a no-op.
func (db *DB) Insert(ctx context.Context, v domain.VerdictRecord) error {
	_, err := db.Pool.Exec(ctx, `
        INSERT INTO verdicts (id, url, registrable_domain, classification, overall_score, confidence, high_risk_count, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (id) DO NOTHING
    `, v.ID, v.URL, strings.ToLower(v.RegistrableDomain), string(v.Classification),
		v.Score, v.Confidence, v.HighRiskCount, v.CreatedAt)
	return err
}

// ListByDomain returns the newest verdicts for a registrable domain first.
func (db *DB) ListByDomain(ctx context.Context, registrable string, limit int) ([]domain.VerdictRecord, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT id::text, url, registrable_domain, classification, overall_score, confidence, high_risk_count, created_at
        FROM verdicts
        WHERE registrable_domain = $1
        ORDER BY created_at DESC, id
        LIMIT $2
    `, strings.ToLower(registrable), limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanVerdict)
}

func scanVerdict(row pgx.CollectableRow) (domain.VerdictRecord, error) {
	var (
		v     domain.VerdictRecord
		class string
	)
	err := row.Scan(&v.ID, &v.URL, &v.RegistrableDomain, &class, &v.Score, &v.Confidence, &v.HighRiskCount, &v.CreatedAt)
	v.Classification = domain.Classification(class)
	return v, err
}
