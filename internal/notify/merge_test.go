package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

var testBrand = Branding{CompanyName: "Sky Photography", PhotographerName: "Sky Photography Team"}

func TestMerge(t *testing.T) {
	data := domain.FieldMap{
		"bride_name":    "Sarah",
		"groom_name":    "Michael",
		"wedding_date":  "2024-07-15",
		"venue_name":    "Thornton Manor",
		"contact_phone": "+44 123",
	}

	got := Merge("{{bride_name}} & {{groom_name}} at {{venue_name}} on {{wedding_date}}. Love, {{bride_name}}", data, testBrand)
	assert.Equal(t, "Sarah & Michael at Thornton Manor on 15/07/2024. Love, Sarah", got)

	got = Merge("{{photographer_name}} / {{company_name}} / {{contact_phone}}", data, testBrand)
	assert.Equal(t, "Sky Photography Team / Sky Photography / +44 123", got)
}

func TestMerge_MissingAndUnknown(t *testing.T) {
	got := Merge("Hi {{bride_name}}, {{favourite_colour}}", domain.FieldMap{}, testBrand)
	assert.Equal(t, "Hi , {{favourite_colour}}", got)
}

func TestMerge_UnparsableDateKeptRaw(t *testing.T) {
	got := Merge("{{wedding_date}}", domain.FieldMap{"wedding_date": "next June"}, testBrand)
	assert.Equal(t, "next June", got)
}

func TestMerge_ValuesNotEscaped(t *testing.T) {
	got := Merge("{{venue_name}}", domain.FieldMap{"venue_name": "<b>Hall</b> & Co"}, testBrand)
	assert.Equal(t, "<b>Hall</b> & Co", got)
}

func TestLogMailerRecords(t *testing.T) {
	m := NewLogMailer()
	require.NoError(t, m.Send(context.Background(), Message{To: "a@example.com", Subject: "Hi"}))
	sent := m.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "a@example.com", sent[0].To)
}
