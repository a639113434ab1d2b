package weddingform

import (
	"math"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindBool
	kindNumber
)

type fieldSpec struct {
	name string
	kind fieldKind
}

var schema = []fieldSpec{
	{"bride_name", kindText},
	{"groom_name", kindText},
	{"wedding_date", kindText},
	{"venue_name", kindText},
	{"venue_address", kindText},
	{"ceremony_time", kindText},
	{"reception_time", kindText},
	{"contact_phone", kindText},
	{"contact_email", kindText},

	{"bride_getting_ready_location", kindText},
	{"bride_getting_ready_time", kindText},
	{"groom_getting_ready_location", kindText},
	{"groom_getting_ready_time", kindText},
	{"getting_ready_photos", kindBool},

	{"ceremony_style", kindText},
	{"ceremony_duration", kindText},
	{"special_traditions", kindText},
	{"ring_bearer", kindBool},
	{"flower_girl", kindBool},

	{"first_dance_song", kindText},
	{"special_dances", kindText},
	{"cake_cutting_time", kindText},
	{"bouquet_toss", kindBool},
	{"confetti_shot", kindBool},
	{"confetti_type", kindText},

	{"family_photos", kindBool},
	{"bridal_party_count", kindNumber},
	{"family_photo_list", kindText},
	{"special_group_requests", kindText},

	{"must_have_shots", kindText},
	{"do_not_photograph", kindText},
	{"surprise_plans", kindText},
	{"special_considerations", kindText},

	{"custom_timeline", kindText},
	{"timeline_notes", kindText},

	{"engagement_photos", kindBool},
	{"bridal_portraits", kindBool},
	{"album_interest", kindBool},
	{"print_packages", kindBool},
}

var schemaIndex = func() map[string]fieldKind {
	m := make(map[string]fieldKind, len(schema))
	for _, f := range schema {
		m[f.name] = f.kind
	}
	return m
}()

// RequiredFields drive the completion percentage.
var RequiredFields = []string{
	"bride_name",
	"groom_name",
	"wedding_date",
	"venue_name",
	"ceremony_time",
	"reception_time",
	"contact_phone",
}

// Defaults returns a fresh record with every schema field at its zero value.
func Defaults() domain.FieldMap {
	m := make(domain.FieldMap, len(schema))
	for _, f := range schema {
		switch f.kind {
		case kindBool:
			m[f.name] = false
		case kindNumber:
			m[f.name] = float64(0)
		default:
			m[f.name] = ""
		}
	}
	return m
}

func IsKnownField(name string) bool {
	_, ok := schemaIndex[name]
	return ok
}

// FieldNames lists the schema in declaration order.
func FieldNames() []string {
	out := make([]string, len(schema))
	for i, f := range schema {
		out[i] = f.name
	}
	return out
}

// normalize coerces JSON-decoded numbers so stored values stay string, bool or float64.
func normalize(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

// CompletionPercentage is round(100 * filled required fields / 7).
func CompletionPercentage(data domain.FieldMap) int {
	filled := 0
	for _, name := range RequiredFields {
		if data.Filled(name) {
			filled++
		}
	}
	return int(math.Round(100 * float64(filled) / float64(len(RequiredFields))))
}
