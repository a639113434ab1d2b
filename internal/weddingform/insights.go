package weddingform

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

const dateLayout = "2006-01-02"

// DaysUntilWedding rounds up to whole days. Nil when the date is missing or unparsable.
func DaysUntilWedding(data domain.FieldMap, now time.Time) *int {
	raw := strings.TrimSpace(data.String("wedding_date"))
	if raw == "" {
		return nil
	}
	wedding, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil
	}
	days := int(math.Ceil(wedding.Sub(now.UTC()).Hours() / 24))
	return &days
}

type TimelineEvent struct {
	Time     string `json:"time"`
	Event    string `json:"event"`
	Location string `json:"location,omitempty"`
}

// Timeline lists the day's photographed moments that have a time set, earliest first.
func Timeline(data domain.FieldMap) []TimelineEvent {
	candidates := []struct {
		timeField, event, locationField string
	}{
		{"bride_getting_ready_time", "Bride getting ready photos", "bride_getting_ready_location"},
		{"groom_getting_ready_time", "Groom getting ready photos", "groom_getting_ready_location"},
		{"ceremony_time", "Ceremony", "venue_name"},
		{"reception_time", "Reception", "venue_name"},
		{"cake_cutting_time", "Cake cutting", "venue_name"},
	}

	out := []TimelineEvent{}
	for _, c := range candidates {
		t := strings.TrimSpace(data.String(c.timeField))
		if t == "" {
			continue
		}
		out = append(out, TimelineEvent{Time: t, Event: c.event, Location: data.String(c.locationField)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

func StatusMessage(percent int) string {
	switch {
	case percent >= 100:
		return "🎉 Perfect! Your wedding details are complete. We're ready to capture your special day!"
	case percent >= 75:
		return "✨ Almost there! Just a few more details and we'll have everything we need."
	case percent >= 50:
		return "💫 Great progress! You're halfway through sharing your wedding vision with us."
	case percent >= 25:
		return "🌟 Nice start! Keep going - each detail helps us capture your perfect day."
	default:
		return "💑 Welcome! Let's start gathering the details to make your wedding photography perfect."
	}
}
