package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

func setupBackend(t *testing.T) (*Backend, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, nil), mock
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"no rows", sql.ErrNoRows, domain.IsNotFound},
		{"rls denied", &pq.Error{Code: "42501"}, domain.IsPermissionDenied},
		{"unique", &pq.Error{Code: "23505"}, domain.IsConflict},
		{"foreign key", &pq.Error{Code: "23503"}, domain.IsNotFound},
		{"bad uuid", &pq.Error{Code: "22P02"}, func(err error) bool { return errors.Is(err, domain.ErrInvalidInput) }},
		{"network", errors.New("connection refused"), domain.IsTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(classify("op", tt.err)))
		})
	}
	assert.NoError(t, classify("op", nil))
}

func TestSaveWeddingForm(t *testing.T) {
	backend, mock := setupBackend(t)
	updated := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("upserts and returns timestamp", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO wedding_forms`).
			WithArgs("user-1", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updated))

		form, err := backend.SaveWeddingForm(context.Background(), "user-1", domain.FieldMap{"bride_name": "Ali"})
		require.NoError(t, err)
		assert.Equal(t, updated, form.UpdatedAt)
		assert.Equal(t, "Ali", form.FormData["bride_name"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("policy rejection is permission denied", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO wedding_forms`).
			WithArgs("user-2", sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "42501"})

		_, err := backend.SaveWeddingForm(context.Background(), "user-2", domain.FieldMap{})
		assert.True(t, domain.IsPermissionDenied(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetWeddingFormNotFound(t *testing.T) {
	backend, mock := setupBackend(t)

	mock.ExpectQuery(`SELECT user_id, form_data, updated_at\s+FROM wedding_forms`).
		WithArgs("user-1").
		WillReturnError(sql.ErrNoRows)

	_, err := backend.GetWeddingForm(context.Background(), "user-1")
	assert.True(t, domain.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListClients(t *testing.T) {
	backend, mock := setupBackend(t)
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "email", "full_name", "phone", "role", "created_at", "updated_at", "form_data", "form_updated"}).
		AddRow("c1", "sarah@example.com", "Sarah", "", "client", created, created,
			[]byte(`{"bride_name":"Sarah","groom_name":"Michael","wedding_date":"2024-07-15","venue_name":"Manor"}`), created).
		AddRow("c2", "new@example.com", "New", "", "client", created, created, nil, nil)

	mock.ExpectQuery(`FROM profiles p\s+LEFT JOIN wedding_forms w`).
		WithArgs("sarah").
		WillReturnRows(rows)

	clients, err := backend.ListClients(context.Background(), "  sarah ")
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, 57, clients[0].CompletionPercentage)
	require.NotNil(t, clients[0].Form)
	assert.Equal(t, "Michael", clients[0].Form.FormData["groom_name"])
	assert.Nil(t, clients[1].Form)
	assert.Equal(t, 0, clients[1].CompletionPercentage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteClientMissing(t *testing.T) {
	backend, mock := setupBackend(t)

	mock.ExpectExec(`DELETE FROM profiles`).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := backend.DeleteClient(context.Background(), "nope")
	assert.True(t, domain.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookAvailability(t *testing.T) {
	backend, mock := setupBackend(t)
	cols := []string{"id", "date", "start_time", "end_time", "duration", "meeting_type", "is_booked"}

	t.Run("books open slot", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE availability_slots SET is_booked = TRUE`).
			WithArgs("s1").
			WillReturnRows(sqlmock.NewRows(cols).AddRow("s1", "2025-03-02", "10:00", "11:00", 60, "consultation", true))

		slot, err := backend.BookAvailability(context.Background(), "s1")
		require.NoError(t, err)
		assert.True(t, slot.IsBooked)
		assert.Equal(t, "2025-03-02", slot.Date)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already booked is a conflict", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE availability_slots SET is_booked = TRUE`).
			WithArgs("s1").
			WillReturnRows(sqlmock.NewRows(cols))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("s1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		_, err := backend.BookAvailability(context.Background(), "s1")
		assert.True(t, domain.IsConflict(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown slot is not found", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE availability_slots SET is_booked = TRUE`).
			WithArgs("s9").
			WillReturnRows(sqlmock.NewRows(cols))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("s9").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := backend.BookAvailability(context.Background(), "s9")
		assert.True(t, domain.IsNotFound(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDueScheduledEmails(t *testing.T) {
	backend, mock := setupBackend(t)
	now := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE s.status = 'scheduled' AND s.scheduled_for <= \$1`).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "template_id", "name", "client_ids", "scheduled_for", "status", "sent_at"}).
			AddRow("e1", "t1", "Reminder", "{c1,c2}", now.Add(-time.Hour), "scheduled", nil))

	due, err := backend.DueScheduledEmails(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, []string{"c1", "c2"}, due[0].ClientIDs)
	assert.Nil(t, due[0].SentAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetIntegrationSettingsDefaults(t *testing.T) {
	backend, mock := setupBackend(t)

	mock.ExpectQuery(`SELECT setting_value FROM admin_settings`).
		WithArgs(integrationSettingsKey).
		WillReturnError(sql.ErrNoRows)

	settings, err := backend.GetIntegrationSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultIntegrationSettings(), settings)
	require.NoError(t, mock.ExpectationsWereMet())
}
