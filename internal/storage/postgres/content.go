package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

func (b *Backend) ListFAQSets(ctx context.Context) ([]domain.FAQSet, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), category, faqs, created_at
		FROM faq_sets
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, classify("list faq sets", err)
	}
	defer rows.Close()

	out := []domain.FAQSet{}
	for rows.Next() {
		var s domain.FAQSet
		var raw []byte
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Category, &raw, &s.CreatedAt); err != nil {
			return nil, classify("list faq sets", err)
		}
		if err := decodeJSON(raw, &s.FAQs); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, classify("list faq sets", rows.Err())
}

func (b *Backend) CreateFAQSet(ctx context.Context, s domain.FAQSet) (*domain.FAQSet, error) {
	s.ID = uuid.NewString()
	faqs, err := encodeJSON(s.FAQs, "[]")
	if err != nil {
		return nil, err
	}
	err = b.db.QueryRowContext(ctx, `
		INSERT INTO faq_sets (id, name, description, category, faqs)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, s.ID, s.Name, s.Description, s.Category, faqs).Scan(&s.CreatedAt)
	if err != nil {
		return nil, classify("create faq set", err)
	}
	return &s, nil
}

func (b *Backend) UpdateFAQSet(ctx context.Context, s domain.FAQSet) (*domain.FAQSet, error) {
	faqs, err := encodeJSON(s.FAQs, "[]")
	if err != nil {
		return nil, err
	}
	err = b.db.QueryRowContext(ctx, `
		UPDATE faq_sets
		SET name = $2, description = $3, category = $4, faqs = $5
		WHERE id = $1
		RETURNING created_at
	`, s.ID, s.Name, s.Description, s.Category, faqs).Scan(&s.CreatedAt)
	if err != nil {
		return nil, classify("update faq set", err)
	}
	return &s, nil
}

func (b *Backend) DeleteFAQSet(ctx context.Context, id string) error {
	res, err := b.db.ExecContext(ctx, `DELETE FROM faq_sets WHERE id = $1`, id)
	return expectRow("delete faq set", res, err)
}

// SendFAQSet records one notification per client.
func (b *Backend) SendFAQSet(ctx context.Context, setID string, clientIDs []string) ([]domain.FAQNotification, error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify("send faq set", err)
	}
	defer func() { _ = tx.Rollback() }()

	out := make([]domain.FAQNotification, 0, len(clientIDs))
	for _, cid := range clientIDs {
		n := domain.FAQNotification{ID: uuid.NewString(), FAQSetID: setID, ClientID: cid, Status: "sent"}
		err := tx.QueryRowContext(ctx, `
			INSERT INTO faq_notifications (id, faq_set_id, client_id, status)
			VALUES ($1, $2, $3, 'sent')
			RETURNING sent_at
		`, n.ID, n.FAQSetID, n.ClientID).Scan(&n.SentAt)
		if err != nil {
			return nil, classify("send faq set", err)
		}
		out = append(out, n)
	}
	if err := tx.Commit(); err != nil {
		return nil, classify("send faq set", err)
	}
	return out, nil
}

func (b *Backend) ListCustomForms(ctx context.Context) ([]domain.CustomForm, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), COALESCE(category, ''), fields, created_at
		FROM custom_forms
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, classify("list custom forms", err)
	}
	defer rows.Close()

	out := []domain.CustomForm{}
	for rows.Next() {
		var f domain.CustomForm
		var raw []byte
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.Category, &raw, &f.CreatedAt); err != nil {
			return nil, classify("list custom forms", err)
		}
		if err := decodeJSON(raw, &f.Fields); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, classify("list custom forms", rows.Err())
}

func (b *Backend) CreateCustomForm(ctx context.Context, f domain.CustomForm) (*domain.CustomForm, error) {
	f.ID = uuid.NewString()
	fields, err := encodeJSON(f.Fields, "[]")
	if err != nil {
		return nil, err
	}
	err = b.db.QueryRowContext(ctx, `
		INSERT INTO custom_forms (id, name, description, category, fields)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, f.ID, f.Name, f.Description, f.Category, fields).Scan(&f.CreatedAt)
	if err != nil {
		return nil, classify("create custom form", err)
	}
	return &f, nil
}

func (b *Backend) UpdateCustomForm(ctx context.Context, f domain.CustomForm) (*domain.CustomForm, error) {
	fields, err := encodeJSON(f.Fields, "[]")
	if err != nil {
		return nil, err
	}
	err = b.db.QueryRowContext(ctx, `
		UPDATE custom_forms
		SET name = $2, description = $3, category = $4, fields = $5
		WHERE id = $1
		RETURNING created_at
	`, f.ID, f.Name, f.Description, f.Category, fields).Scan(&f.CreatedAt)
	if err != nil {
		return nil, classify("update custom form", err)
	}
	return &f, nil
}

func (b *Backend) DeleteCustomForm(ctx context.Context, id string) error {
	res, err := b.db.ExecContext(ctx, `DELETE FROM custom_forms WHERE id = $1`, id)
	return expectRow("delete custom form", res, err)
}

// SendCustomForm creates a pending request per client.
func (b *Backend) SendCustomForm(ctx context.Context, formID string, clientIDs []string) ([]domain.FormRequest, error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify("send custom form", err)
	}
	defer func() { _ = tx.Rollback() }()

	ids := make([]string, 0, len(clientIDs))
	for _, cid := range clientIDs {
		id := uuid.NewString()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO form_requests (id, form_id, client_id, status)
			VALUES ($1, $2, $3, 'pending')
		`, id, formID, cid); err != nil {
			return nil, classify("send custom form", err)
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, classify("send custom form", err)
	}

	out := make([]domain.FormRequest, 0, len(ids))
	for _, id := range ids {
		r, err := b.getFormRequest(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

const requestSelect = `
		SELECT r.id, r.form_id, COALESCE(f.name, ''), r.client_id, COALESCE(p.full_name, ''), r.status, r.sent_at
		FROM form_requests r
		LEFT JOIN custom_forms f ON f.id = r.form_id
		LEFT JOIN profiles p ON p.id = r.client_id
`

func (b *Backend) ListFormRequests(ctx context.Context) ([]domain.FormRequest, error) {
	rows, err := b.db.QueryContext(ctx, requestSelect+` ORDER BY r.sent_at DESC`)
	if err != nil {
		return nil, classify("list form requests", err)
	}
	defer rows.Close()

	out := []domain.FormRequest{}
	for rows.Next() {
		var r domain.FormRequest
		if err := rows.Scan(&r.ID, &r.FormID, &r.FormName, &r.ClientID, &r.ClientName, &r.Status, &r.SentAt); err != nil {
			return nil, classify("list form requests", err)
		}
		out = append(out, r)
	}
	return out, classify("list form requests", rows.Err())
}

func (b *Backend) UpdateFormRequestStatus(ctx context.Context, id, status string) (*domain.FormRequest, error) {
	res, err := b.db.ExecContext(ctx, `UPDATE form_requests SET status = $2 WHERE id = $1`, id, status)
	if err := expectRow("update form request", res, err); err != nil {
		return nil, err
	}
	return b.getFormRequest(ctx, id)
}

func (b *Backend) getFormRequest(ctx context.Context, id string) (*domain.FormRequest, error) {
	var r domain.FormRequest
	err := b.db.QueryRowContext(ctx, requestSelect+` WHERE r.id = $1`, id).
		Scan(&r.ID, &r.FormID, &r.FormName, &r.ClientID, &r.ClientName, &r.Status, &r.SentAt)
	if err != nil {
		return nil, classify("get form request", err)
	}
	return &r, nil
}

func encodeJSON(v any, empty string) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	if string(payload) == "null" {
		return []byte(empty), nil
	}
	return payload, nil
}

func decodeJSON(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}
