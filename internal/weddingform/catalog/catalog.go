// Package catalog lists the wedding form sections in wizard order.
package catalog

import "github.com/skyphotography/wedding-portal-backend/internal/domain"

type Section struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Fields      []string `json:"fields"`
}

type Status string

// A section has no explicit completion state. Any answered field marks it complete.
const (
	StatusNotStarted Status = "not_started"
	StatusComplete   Status = "complete"
)

var sections = []Section{
	{
		ID:          "basic",
		Title:       "Basic Information",
		Description: "Essential details about your wedding day",
		Icon:        "💑",
		Fields:      []string{"bride_name", "groom_name", "wedding_date", "venue_name", "contact_phone"},
	},
	{
		ID:          "getting-ready",
		Title:       "Getting Ready",
		Description: "Where and when you'll be preparing",
		Icon:        "✨",
		Fields:      []string{"bride_getting_ready_location", "groom_getting_ready_location"},
	},
	{
		ID:          "ceremony",
		Title:       "Ceremony Details",
		Description: "Your ceremony preferences and traditions",
		Icon:        "💒",
		Fields:      []string{"ceremony_style", "ceremony_time", "special_traditions"},
	},
	{
		ID:          "reception",
		Title:       "Reception Details",
		Description: "Reception timeline and special moments",
		Icon:        "🎉",
		Fields:      []string{"reception_time", "first_dance_song", "cake_cutting_time"},
	},
	{
		ID:          "groups",
		Title:       "Group Photos",
		Description: "Family and group photo requirements",
		Icon:        "👨‍👩‍👧‍👦",
		Fields:      []string{"family_photos", "bridal_party_count", "family_photo_list"},
	},
	{
		ID:          "special",
		Title:       "Special Requests",
		Description: "Must-have shots and special considerations",
		Icon:        "📸",
		Fields:      []string{"must_have_shots", "special_considerations"},
	},
}

// Sections returns the ordered section list. Callers must not modify it.
func Sections() []Section {
	return sections
}

// Find looks a section up by its deep-link id.
func Find(id string) (Section, bool) {
	i := Index(id)
	if i < 0 {
		return Section{}, false
	}
	return sections[i], true
}

func Index(id string) int {
	for i, s := range sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Neighbours returns the previous and next section ids ("" at either end).
func Neighbours(id string) (prev, next string) {
	i := Index(id)
	if i < 0 {
		return "", ""
	}
	if i > 0 {
		prev = sections[i-1].ID
	}
	if i < len(sections)-1 {
		next = sections[i+1].ID
	}
	return prev, next
}

// StatusOf infers a section's badge from data presence only.
func StatusOf(s Section, data domain.FieldMap) Status {
	for _, f := range s.Fields {
		if data.Filled(f) {
			return StatusComplete
		}
	}
	return StatusNotStarted
}

// Touched is true once any owned field has a value. Touched and complete are the same test.
func Touched(s Section, data domain.FieldMap) bool {
	return StatusOf(s, data) != StatusNotStarted
}

type SectionState struct {
	Section
	Status Status `json:"status"`
}

func States(data domain.FieldMap) []SectionState {
	out := make([]SectionState, len(sections))
	for i, s := range sections {
		out[i] = SectionState{Section: s, Status: StatusOf(s, data)}
	}
	return out
}
