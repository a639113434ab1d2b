package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
	"github.com/skyphotography/wedding-portal-backend/internal/gateway"
)

var _ gateway.Backend = (*Backend)(nil)

// Backend is the live persistence gateway. Row ownership is enforced by the
// database's row-level security; queries here run as issued.
type Backend struct {
	db       *sql.DB
	profiles gateway.Profiles
}

// New wires the sql store. Profile reads and writes go through profiles.
func New(db *sql.DB, profiles gateway.Profiles) *Backend {
	return &Backend{db: db, profiles: profiles}
}

func (b *Backend) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	return b.profiles.GetProfile(ctx, id)
}

func (b *Backend) EnsureProfile(ctx context.Context, req domain.EnsureProfileRequest) (*domain.Profile, error) {
	return b.profiles.EnsureProfile(ctx, req)
}

func (b *Backend) UpdateProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	return b.profiles.UpdateProfile(ctx, id, upd)
}

// classify maps driver errors onto the gateway's error kinds.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "42501":
			return fmt.Errorf("%s: %w", op, domain.ErrPermissionDenied)
		case "23505":
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		case "23503":
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		case "22P02", "23514":
			return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
		}
	}
	return &domain.TransportError{Op: op, Err: err}
}

// expectRow turns a zero-row exec into not found.
func expectRow(op string, res sql.Result, err error) error {
	if err != nil {
		return classify(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}
