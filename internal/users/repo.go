package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

// Repo reads and lazily creates profiles keyed by the hosted identity id.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const profileColumns = `id, email, coalesce(full_name, ''), coalesce(phone, ''), role, created_at, updated_at`

func (r *Repo) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	q := `select ` + profileColumns + ` from profiles where id = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, classify("get profile", err)
	}
	return p, nil
}

// EnsureProfile creates a client profile on first contact and fills blanks on later ones.
// Role is never changed here.
func (r *Repo) EnsureProfile(ctx context.Context, req domain.EnsureProfileRequest) (*domain.Profile, error) {
	if req.ID == "" {
		return nil, fmt.Errorf("profile id required: %w", domain.ErrInvalidInput)
	}

	q := `
insert into profiles (id, email, full_name, role, created_at, updated_at)
values ($1, $2, nullif($3, ''), 'client', now(), now())
on conflict (id) do update
set
  email = coalesce(nullif(excluded.email, ''), profiles.email),
  full_name = coalesce(profiles.full_name, excluded.full_name),
  updated_at = profiles.updated_at
returning ` + profileColumns + `;
`
	p, err := scanProfile(r.db.QueryRow(ctx, q, req.ID, req.Email, req.FullName))
	if err != nil {
		return nil, classify("ensure profile", err)
	}
	return p, nil
}

func (r *Repo) UpdateProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	q := `
update profiles
set
  full_name = coalesce($2, full_name),
  phone = coalesce($3, phone),
  role = coalesce($4, role),
  updated_at = now()
where id = $1
returning ` + profileColumns + `;
`
	p, err := scanProfile(r.db.QueryRow(ctx, q, id, upd.FullName, upd.Phone, upd.Role))
	if err != nil {
		return nil, classify("update profile", err)
	}
	return p, nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Phone, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func classify(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42501":
			return fmt.Errorf("%s: %w", op, domain.ErrPermissionDenied)
		case "23505":
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		}
	}
	return &domain.TransportError{Op: op, Err: err}
}
