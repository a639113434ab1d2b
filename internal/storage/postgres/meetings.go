package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

const integrationSettingsKey = "integration_settings"

func (b *Backend) ListMeetings(ctx context.Context) ([]domain.Meeting, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT m.id, COALESCE(m.client_id, ''), COALESCE(p.full_name, ''), m.meeting_type,
		       m.scheduled_for, m.duration, COALESCE(m.meet_id, ''), COALESCE(m.link, ''), m.status
		FROM meetings m
		LEFT JOIN profiles p ON p.id = m.client_id
		ORDER BY m.scheduled_for ASC
	`)
	if err != nil {
		return nil, classify("list meetings", err)
	}
	defer rows.Close()

	out := []domain.Meeting{}
	for rows.Next() {
		var m domain.Meeting
		if err := rows.Scan(&m.ID, &m.ClientID, &m.ClientName, &m.MeetingType,
			&m.ScheduledFor, &m.Duration, &m.MeetID, &m.Link, &m.Status); err != nil {
			return nil, classify("list meetings", err)
		}
		out = append(out, m)
	}
	return out, classify("list meetings", rows.Err())
}

func (b *Backend) CreateMeeting(ctx context.Context, m domain.Meeting) (*domain.Meeting, error) {
	m.ID = uuid.NewString()
	if m.Status == "" {
		m.Status = domain.MeetingScheduled
	}
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO meetings (id, client_id, meeting_type, scheduled_for, duration, meet_id, link, status)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8)
	`, m.ID, m.ClientID, m.MeetingType, m.ScheduledFor, m.Duration, m.MeetID, m.Link, m.Status)
	if err != nil {
		return nil, classify("create meeting", err)
	}
	return &m, nil
}

func (b *Backend) ListAvailability(ctx context.Context) ([]domain.AvailabilitySlot, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, to_char(date, 'YYYY-MM-DD'), start_time, end_time, duration, COALESCE(meeting_type, ''), is_booked
		FROM availability_slots
		ORDER BY date ASC, start_time ASC
	`)
	if err != nil {
		return nil, classify("list availability", err)
	}
	defer rows.Close()

	out := []domain.AvailabilitySlot{}
	for rows.Next() {
		var s domain.AvailabilitySlot
		if err := rows.Scan(&s.ID, &s.Date, &s.StartTime, &s.EndTime, &s.Duration, &s.MeetingType, &s.IsBooked); err != nil {
			return nil, classify("list availability", err)
		}
		out = append(out, s)
	}
	return out, classify("list availability", rows.Err())
}

func (b *Backend) CreateAvailability(ctx context.Context, s domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	s.ID = uuid.NewString()
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO availability_slots (id, date, start_time, end_time, duration, meeting_type, is_booked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.Date, s.StartTime, s.EndTime, s.Duration, s.MeetingType, s.IsBooked)
	if err != nil {
		return nil, classify("create availability", err)
	}
	return &s, nil
}

// BookAvailability flips an open slot to booked. A booked slot is a conflict.
func (b *Backend) BookAvailability(ctx context.Context, id string) (*domain.AvailabilitySlot, error) {
	var s domain.AvailabilitySlot
	err := b.db.QueryRowContext(ctx, `
		UPDATE availability_slots SET is_booked = TRUE
		WHERE id = $1 AND is_booked = FALSE
		RETURNING id, to_char(date, 'YYYY-MM-DD'), start_time, end_time, duration, COALESCE(meeting_type, ''), is_booked
	`, id).Scan(&s.ID, &s.Date, &s.StartTime, &s.EndTime, &s.Duration, &s.MeetingType, &s.IsBooked)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if qerr := b.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM availability_slots WHERE id = $1)`, id).Scan(&exists); qerr != nil {
			return nil, classify("book availability", qerr)
		}
		if exists {
			return nil, domain.ErrConflict
		}
		return nil, classify("book availability", err)
	}
	if err != nil {
		return nil, classify("book availability", err)
	}
	return &s, nil
}

// GetIntegrationSettings falls back to defaults when nothing is stored.
func (b *Backend) GetIntegrationSettings(ctx context.Context) (domain.IntegrationSettings, error) {
	var raw []byte
	err := b.db.QueryRowContext(ctx, `
		SELECT setting_value FROM admin_settings WHERE setting_key = $1
	`, integrationSettingsKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultIntegrationSettings(), nil
	}
	if err != nil {
		return domain.IntegrationSettings{}, classify("get integration settings", err)
	}

	settings := domain.DefaultIntegrationSettings()
	if err := decodeJSON(raw, &settings); err != nil {
		return domain.IntegrationSettings{}, err
	}
	return settings, nil
}

func (b *Backend) SaveIntegrationSettings(ctx context.Context, s domain.IntegrationSettings) (domain.IntegrationSettings, error) {
	payload, err := encodeJSON(s, "{}")
	if err != nil {
		return domain.IntegrationSettings{}, err
	}
	_, err = b.db.ExecContext(ctx, `
		INSERT INTO admin_settings (setting_key, setting_value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (setting_key) DO UPDATE
		SET setting_value = EXCLUDED.setting_value, updated_at = NOW()
	`, integrationSettingsKey, payload)
	if err != nil {
		return domain.IntegrationSettings{}, classify("save integration settings", err)
	}
	return s, nil
}
