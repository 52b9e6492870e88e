// Package history serves the read side of the verdict audit log.
package history

import (
	"context"
	"strings"

	"phishguard/internal/domain"
	"phishguard/internal/ports"
	"phishguard/internal/services/acquisition"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Service struct {
	verdicts ports.VerdictRepository
}

// New returns a history service. A nil repository means auditing is off and
// every call reports ErrDisabled.
func New(verdicts ports.VerdictRepository) *Service { return &Service{verdicts: verdicts} }

// Recent returns up to limit verdicts for the registrable domain of name,
// newest first. Non-positive limits use DefaultLimit.
func (s *Service) Recent(ctx context.Context, name string, limit int) ([]domain.VerdictRecord, error) {
	if s == nil || s.verdicts == nil {
		return nil, ErrDisabled
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNotFound
	}
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	out, err := s.verdicts.ListByDomain(ctx, acquisition.RegistrableDomain(name), limit)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

var (
	ErrNotFound = errString("not found")
	ErrDisabled = errString("verdict history disabled")
)

type errString string

func (e errString) Error() string { return string(e) }
