package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

func (b *Backend) ListEmailTemplates(ctx context.Context) ([]domain.EmailTemplate, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, name, subject, template, type, created_at
		FROM email_templates
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, classify("list email templates", err)
	}
	defer rows.Close()

	out := []domain.EmailTemplate{}
	for rows.Next() {
		var t domain.EmailTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.Template, &t.Type, &t.CreatedAt); err != nil {
			return nil, classify("list email templates", err)
		}
		out = append(out, t)
	}
	return out, classify("list email templates", rows.Err())
}

func (b *Backend) GetEmailTemplate(ctx context.Context, id string) (*domain.EmailTemplate, error) {
	var t domain.EmailTemplate
	err := b.db.QueryRowContext(ctx, `
		SELECT id, name, subject, template, type, created_at
		FROM email_templates
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Subject, &t.Template, &t.Type, &t.CreatedAt)
	if err != nil {
		return nil, classify("get email template", err)
	}
	return &t, nil
}

func (b *Backend) CreateEmailTemplate(ctx context.Context, t domain.EmailTemplate) (*domain.EmailTemplate, error) {
	t.ID = uuid.NewString()
	err := b.db.QueryRowContext(ctx, `
		INSERT INTO email_templates (id, name, subject, template, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, t.ID, t.Name, t.Subject, t.Template, t.Type).Scan(&t.CreatedAt)
	if err != nil {
		return nil, classify("create email template", err)
	}
	return &t, nil
}

func (b *Backend) UpdateEmailTemplate(ctx context.Context, t domain.EmailTemplate) (*domain.EmailTemplate, error) {
	err := b.db.QueryRowContext(ctx, `
		UPDATE email_templates
		SET name = $2, subject = $3, template = $4, type = $5
		WHERE id = $1
		RETURNING created_at
	`, t.ID, t.Name, t.Subject, t.Template, t.Type).Scan(&t.CreatedAt)
	if err != nil {
		return nil, classify("update email template", err)
	}
	return &t, nil
}

func (b *Backend) DeleteEmailTemplate(ctx context.Context, id string) error {
	res, err := b.db.ExecContext(ctx, `DELETE FROM email_templates WHERE id = $1`, id)
	return expectRow("delete email template", res, err)
}

const scheduledSelect = `
		SELECT s.id, s.template_id, COALESCE(t.name, ''), s.client_ids, s.scheduled_for, s.status, s.sent_at
		FROM scheduled_emails s
		LEFT JOIN email_templates t ON t.id = s.template_id
`

func (b *Backend) ListScheduledEmails(ctx context.Context) ([]domain.ScheduledEmail, error) {
	return b.queryScheduled(ctx, "list scheduled emails", scheduledSelect+` ORDER BY s.scheduled_for ASC`)
}

func (b *Backend) DueScheduledEmails(ctx context.Context, now time.Time) ([]domain.ScheduledEmail, error) {
	return b.queryScheduled(ctx, "due scheduled emails",
		scheduledSelect+` WHERE s.status = 'scheduled' AND s.scheduled_for <= $1 ORDER BY s.scheduled_for ASC`, now)
}

func (b *Backend) ScheduleEmail(ctx context.Context, e domain.ScheduledEmail) (*domain.ScheduledEmail, error) {
	e.ID = uuid.NewString()
	e.Status = domain.EmailScheduled
	e.SentAt = nil
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO scheduled_emails (id, template_id, client_ids, scheduled_for, status)
		VALUES ($1, $2, $3, $4, 'scheduled')
	`, e.ID, e.TemplateID, pq.Array(e.ClientIDs), e.ScheduledFor)
	if err != nil {
		return nil, classify("schedule email", err)
	}
	return b.getScheduled(ctx, e.ID)
}

func (b *Backend) CancelScheduledEmail(ctx context.Context, id string) (*domain.ScheduledEmail, error) {
	res, err := b.db.ExecContext(ctx, `
		UPDATE scheduled_emails SET status = 'cancelled'
		WHERE id = $1 AND status = 'scheduled'
	`, id)
	if err := expectRow("cancel scheduled email", res, err); err != nil {
		return nil, err
	}
	return b.getScheduled(ctx, id)
}

func (b *Backend) MarkScheduledEmailSent(ctx context.Context, id string, sentAt time.Time) error {
	res, err := b.db.ExecContext(ctx, `
		UPDATE scheduled_emails SET status = 'sent', sent_at = $2
		WHERE id = $1
	`, id, sentAt)
	return expectRow("mark scheduled email sent", res, err)
}

func (b *Backend) getScheduled(ctx context.Context, id string) (*domain.ScheduledEmail, error) {
	list, err := b.queryScheduled(ctx, "get scheduled email", scheduledSelect+` WHERE s.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, classify("get scheduled email", sql.ErrNoRows)
	}
	return &list[0], nil
}

func (b *Backend) queryScheduled(ctx context.Context, op, query string, args ...any) ([]domain.ScheduledEmail, error) {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	out := []domain.ScheduledEmail{}
	for rows.Next() {
		var e domain.ScheduledEmail
		var sentAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.TemplateID, &e.TemplateName, pq.Array(&e.ClientIDs),
			&e.ScheduledFor, &e.Status, &sentAt); err != nil {
			return nil, classify(op, err)
		}
		if sentAt.Valid {
			e.SentAt = &sentAt.Time
		}
		out = append(out, e)
	}
	return out, classify(op, rows.Err())
}
