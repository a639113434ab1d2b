package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
	"github.com/skyphotography/wedding-portal-backend/internal/weddingform"
)

func (b *Backend) GetWeddingForm(ctx context.Context, userID string) (*domain.WeddingForm, error) {
	query := `
		SELECT user_id, form_data, updated_at
		FROM wedding_forms
		WHERE user_id = $1
	`

	var form domain.WeddingForm
	var raw []byte
	err := b.db.QueryRowContext(ctx, query, userID).Scan(&form.UserID, &raw, &form.UpdatedAt)
	if err != nil {
		return nil, classify("get wedding form", err)
	}
	if form.FormData, err = decodeFieldMap(raw); err != nil {
		return nil, classify("get wedding form", err)
	}
	return &form, nil
}

// SaveWeddingForm upserts by user id. Last write wins.
func (b *Backend) SaveWeddingForm(ctx context.Context, userID string, data domain.FieldMap) (*domain.WeddingForm, error) {
	query := `
		INSERT INTO wedding_forms (user_id, form_data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET form_data = EXCLUDED.form_data,
		    updated_at = NOW()
		RETURNING updated_at
	`

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode form data: %w", err)
	}

	form := &domain.WeddingForm{UserID: userID, FormData: data.Clone()}
	if err := b.db.QueryRowContext(ctx, query, userID, payload).Scan(&form.UpdatedAt); err != nil {
		return nil, classify("save wedding form", err)
	}
	return form, nil
}

const clientSelect = `
		SELECT p.id, p.email, COALESCE(p.full_name, ''), COALESCE(p.phone, ''), p.role,
		       p.created_at, p.updated_at, w.form_data, w.updated_at
		FROM profiles p
		LEFT JOIN wedding_forms w ON w.user_id = p.id
`

func (b *Backend) ListClients(ctx context.Context, search string) ([]domain.Client, error) {
	query := clientSelect + `
		WHERE p.role = 'client'
		  AND ($1 = ''
		       OR p.email ILIKE '%' || $1 || '%'
		       OR p.full_name ILIKE '%' || $1 || '%'
		       OR w.form_data->>'bride_name' ILIKE '%' || $1 || '%'
		       OR w.form_data->>'groom_name' ILIKE '%' || $1 || '%')
		ORDER BY p.created_at DESC
	`

	rows, err := b.db.QueryContext(ctx, query, strings.TrimSpace(search))
	if err != nil {
		return nil, classify("list clients", err)
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, classify("list clients", err)
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list clients", err)
	}
	return clients, nil
}

func (b *Backend) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	query := clientSelect + ` WHERE p.id = $1`
	c, err := scanClient(b.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify("get client", err)
	}
	return c, nil
}

// CreateClient inserts a client profile and, when wedding details were given, its first form.
func (b *Backend) CreateClient(ctx context.Context, req domain.NewClient) (*domain.Client, error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify("create client", err)
	}
	defer func() { _ = tx.Rollback() }()

	p := domain.Profile{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     domain.RoleClient,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO profiles (id, email, full_name, phone, role)
		VALUES ($1, $2, $3, NULLIF($4, ''), 'client')
		RETURNING created_at, updated_at
	`, p.ID, p.Email, p.FullName, p.Phone).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, classify("create client", err)
	}

	client := &domain.Client{Profile: p}
	if initial := req.InitialForm(); initial != nil {
		payload, err := json.Marshal(initial)
		if err != nil {
			return nil, fmt.Errorf("encode form data: %w", err)
		}
		form := &domain.WeddingForm{UserID: p.ID, FormData: initial}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO wedding_forms (user_id, form_data)
			VALUES ($1, $2)
			RETURNING updated_at
		`, p.ID, payload).Scan(&form.UpdatedAt)
		if err != nil {
			return nil, classify("create client form", err)
		}
		client.Form = form
		client.CompletionPercentage = weddingform.CompletionPercentage(initial)
	}

	if err := tx.Commit(); err != nil {
		return nil, classify("create client", err)
	}
	return client, nil
}

func (b *Backend) DeleteClient(ctx context.Context, id string) error {
	res, err := b.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1 AND role = 'client'`, id)
	return expectRow("delete client", res, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var c domain.Client
	var raw []byte
	var formUpdated sql.NullTime
	if err := row.Scan(&c.ID, &c.Email, &c.FullName, &c.Phone, &c.Role,
		&c.CreatedAt, &c.UpdatedAt, &raw, &formUpdated); err != nil {
		return nil, err
	}
	if raw != nil {
		data, err := decodeFieldMap(raw)
		if err != nil {
			return nil, err
		}
		c.Form = &domain.WeddingForm{UserID: c.ID, FormData: data, UpdatedAt: timeOrZero(formUpdated)}
		c.CompletionPercentage = weddingform.CompletionPercentage(data)
	}
	return &c, nil
}

func decodeFieldMap(raw []byte) (domain.FieldMap, error) {
	data := domain.FieldMap{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode form data: %w", err)
	}
	return data, nil
}

func timeOrZero(t sql.NullTime) time.Time {
	if t.Valid {
		return t.Time
	}
	return time.Time{}
}
