package weddingform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		name string
		data domain.FieldMap
		want int
	}{
		{"defaults", Defaults(), 0},
		{"bride and groom", domain.FieldMap{"bride_name": "A", "groom_name": "B"}, 29},
		{"whitespace is empty", domain.FieldMap{"bride_name": "   "}, 0},
		{"optional fields ignored", domain.FieldMap{"first_dance_song": "x", "family_photos": true}, 0},
		{"all required", domain.FieldMap{
			"bride_name": "A", "groom_name": "B", "wedding_date": "2025-06-15", "venue_name": "V",
			"ceremony_time": "14:00", "reception_time": "18:00", "contact_phone": "555",
		}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompletionPercentage(tt.data))
		})
	}
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Len(t, d, 39)
	assert.Equal(t, "", d["bride_name"])
	assert.Equal(t, false, d["getting_ready_photos"])
	assert.Equal(t, float64(0), d["bridal_party_count"])
	assert.True(t, IsKnownField("print_packages"))
	assert.False(t, IsKnownField("favourite_colour"))
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	state := Defaults()
	next := Reduce(state, UpdateField{Name: "bride_name", Value: "Alice"})

	assert.Equal(t, "", state["bride_name"])
	assert.Equal(t, "Alice", next["bride_name"])
}

func TestReduce_NormalizesNumbers(t *testing.T) {
	next := Reduce(Defaults(), UpdateField{Name: "bridal_party_count", Value: 8})
	assert.Equal(t, float64(8), next["bridal_party_count"])
}

func TestReduce_LoadSkipsNil(t *testing.T) {
	state := Reduce(Defaults(), UpdateField{Name: "venue_name", Value: "Local"})
	next := Reduce(state, LoadForm{Data: domain.FieldMap{"venue_name": nil, "bride_name": "Sarah"}})

	assert.Equal(t, "Local", next["venue_name"])
	assert.Equal(t, "Sarah", next["bride_name"])
}

func TestReduce_Reset(t *testing.T) {
	state := Reduce(Defaults(), UpdateSection{Values: domain.FieldMap{"bride_name": "A", "extra": "x"}})
	next := Reduce(state, ResetForm{})
	assert.Equal(t, Defaults(), next)
}

func TestDaysUntilWedding(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	days := DaysUntilWedding(domain.FieldMap{"wedding_date": "2025-06-15"}, now)
	require.NotNil(t, days)
	assert.Equal(t, 5, *days)

	assert.Nil(t, DaysUntilWedding(domain.FieldMap{"wedding_date": ""}, now))
	assert.Nil(t, DaysUntilWedding(domain.FieldMap{"wedding_date": "June 15"}, now))
}

func TestTimelineSortedAndFiltered(t *testing.T) {
	events := Timeline(domain.FieldMap{
		"ceremony_time":            "14:00",
		"reception_time":           "18:00",
		"bride_getting_ready_time": "10:30",
		"venue_name":               "Rose Hall",
	})

	require.Len(t, events, 3)
	assert.Equal(t, "Bride getting ready photos", events[0].Event)
	assert.Equal(t, "Ceremony", events[1].Event)
	assert.Equal(t, "Rose Hall", events[1].Location)
	assert.Equal(t, "Reception", events[2].Event)
}

func TestStatusMessageThresholds(t *testing.T) {
	assert.Contains(t, StatusMessage(0), "Welcome")
	assert.Contains(t, StatusMessage(29), "Nice start")
	assert.Contains(t, StatusMessage(57), "halfway")
	assert.Contains(t, StatusMessage(86), "Almost there")
	assert.Contains(t, StatusMessage(100), "complete")
}
