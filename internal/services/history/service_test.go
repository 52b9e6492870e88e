package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishguard/internal/domain"
)

type fakeRepo struct {
	byDomain  map[string][]domain.VerdictRecord
	lastLimit int
	lastName  string
	err       error
}

func (f *fakeRepo) Insert(context.Context, domain.VerdictRecord) error { return nil }

func (f *fakeRepo) ListByDomain(_ context.Context, registrable string, limit int) ([]domain.VerdictRecord, error) {
	f.lastName, f.lastLimit = registrable, limit
	if f.err != nil {
		return nil, f.err
	}
	out := f.byDomain[registrable]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestRecent(t *testing.T) {
	repo := &fakeRepo{byDomain: map[string][]domain.VerdictRecord{
		"example.co.uk": {{ID: "b"}, {ID: "a"}},
	}}
	svc := New(repo)

	got, err := svc.Recent(context.Background(), "login.Example.co.uk", 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "example.co.uk", repo.lastName)
	assert.Equal(t, DefaultLimit, repo.lastLimit)

	_, err = svc.Recent(context.Background(), "example.co.uk", 1000)
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, repo.lastLimit)
}

func TestRecent_NotFound(t *testing.T) {
	svc := New(&fakeRepo{})
	_, err := svc.Recent(context.Background(), "unknown.org", 5)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Recent(context.Background(), "  ", 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecent_Disabled(t *testing.T) {
	_, err := New(nil).Recent(context.Background(), "example.com", 5)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestRecent_RepositoryError(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := New(&fakeRepo{err: boom}).Recent(context.Background(), "example.com", 5)
	assert.ErrorIs(t, err, boom)
}
