package notify

import (
	"strings"
	"time"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

type Branding struct {
	CompanyName      string
	PhotographerName string
}

// Merge substitutes every merge token globally. Values are inserted unescaped and
// unknown tokens are left in place.
func Merge(template string, data domain.FieldMap, brand Branding) string {
	return mergeReplacer(data, brand).Replace(template)
}

func mergeReplacer(data domain.FieldMap, brand Branding) *strings.Replacer {
	return strings.NewReplacer(
		"{{bride_name}}", data.String("bride_name"),
		"{{groom_name}}", data.String("groom_name"),
		"{{wedding_date}}", formatWeddingDate(data.String("wedding_date")),
		"{{venue_name}}", data.String("venue_name"),
		"{{contact_phone}}", data.String("contact_phone"),
		"{{photographer_name}}", brand.PhotographerName,
		"{{company_name}}", brand.CompanyName,
	)
}

func formatWeddingDate(raw string) string {
	if raw == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return raw
	}
	return t.Format("02/01/2006")
}
