// Package memory is the demo-mode backend. Wedding form reads always return a
// fixed sample and writes echo their input; admin entities live in process
// memory, seeded from an embedded YAML document.
package memory

import (
	_ "embed"
	"fmt"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
	"github.com/skyphotography/wedding-portal-backend/internal/gateway"
)

//go:embed seed.yaml
var seedYAML []byte

var _ gateway.Backend = (*Backend)(nil)

type seedClient struct {
	ID        string          `yaml:"id"`
	Email     string          `yaml:"email"`
	FullName  string          `yaml:"full_name"`
	Phone     string          `yaml:"phone"`
	CreatedAt time.Time       `yaml:"created_at"`
	Form      domain.FieldMap `yaml:"form"`
}

type seedMeeting struct {
	domain.Meeting `yaml:",inline"`
	Offset         time.Duration `yaml:"offset"`
}

type seedSlot struct {
	domain.AvailabilitySlot `yaml:",inline"`
	Offset                  time.Duration `yaml:"offset"`
}

type seedEmail struct {
	domain.ScheduledEmail `yaml:",inline"`
	Offset                time.Duration `yaml:"offset"`
}

type seedData struct {
	SampleForm      domain.FieldMap        `yaml:"sample_form"`
	Clients         []seedClient           `yaml:"clients"`
	EmailTemplates  []domain.EmailTemplate `yaml:"email_templates"`
	FAQSets         []domain.FAQSet        `yaml:"faq_sets"`
	CustomForms     []domain.CustomForm    `yaml:"custom_forms"`
	FormRequests    []domain.FormRequest   `yaml:"form_requests"`
	Meetings        []seedMeeting          `yaml:"meetings"`
	Availability    []seedSlot             `yaml:"availability"`
	ScheduledEmails []seedEmail            `yaml:"scheduled_emails"`
}

// Backend keeps demo data in-process. All reads return copies.
type Backend struct {
	mu  sync.RWMutex
	now func() time.Time

	sample domain.FieldMap

	profiles      map[string]domain.Profile
	forms         map[string]domain.WeddingForm
	templates     map[string]domain.EmailTemplate
	scheduled     map[string]domain.ScheduledEmail
	faqSets       map[string]domain.FAQSet
	notifications []domain.FAQNotification
	customForms   map[string]domain.CustomForm
	requests      map[string]domain.FormRequest
	meetings      map[string]domain.Meeting
	slots         map[string]domain.AvailabilitySlot
	settings      *domain.IntegrationSettings
}

// New builds a backend from the embedded seed document.
func New() (*Backend, error) {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) (*Backend, error) {
	var seed seedData
	if err := yaml.Unmarshal(seedYAML, &seed); err != nil {
		return nil, fmt.Errorf("parse demo seed: %w", err)
	}

	b := &Backend{
		now:         now,
		sample:      seed.SampleForm,
		profiles:    make(map[string]domain.Profile),
		forms:       make(map[string]domain.WeddingForm),
		templates:   make(map[string]domain.EmailTemplate),
		scheduled:   make(map[string]domain.ScheduledEmail),
		faqSets:     make(map[string]domain.FAQSet),
		customForms: make(map[string]domain.CustomForm),
		requests:    make(map[string]domain.FormRequest),
		meetings:    make(map[string]domain.Meeting),
		slots:       make(map[string]domain.AvailabilitySlot),
	}

	start := now().UTC()
	for _, c := range seed.Clients {
		b.profiles[c.ID] = domain.Profile{
			ID:        c.ID,
			Email:     c.Email,
			FullName:  c.FullName,
			Phone:     c.Phone,
			Role:      domain.RoleClient,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.CreatedAt,
		}
		if len(c.Form) > 0 {
			b.forms[c.ID] = domain.WeddingForm{UserID: c.ID, FormData: c.Form, UpdatedAt: c.CreatedAt}
		}
	}
	for _, t := range seed.EmailTemplates {
		b.templates[t.ID] = t
	}
	for _, s := range seed.FAQSets {
		b.faqSets[s.ID] = s
	}
	for _, f := range seed.CustomForms {
		b.customForms[f.ID] = f
	}
	for _, r := range seed.FormRequests {
		b.requests[r.ID] = r
	}
	for _, m := range seed.Meetings {
		mt := m.Meeting
		mt.ScheduledFor = start.Add(m.Offset).Truncate(time.Hour)
		mt.Link = "https://meet.google.com/" + mt.MeetID
		b.meetings[mt.ID] = mt
	}
	for _, s := range seed.Availability {
		slot := s.AvailabilitySlot
		slot.Date = start.Add(s.Offset).Format("2006-01-02")
		b.slots[slot.ID] = slot
	}
	for _, e := range seed.ScheduledEmails {
		se := e.ScheduledEmail
		se.ScheduledFor = start.Add(e.Offset).Truncate(time.Minute)
		b.scheduled[se.ID] = se
	}

	return b, nil
}

// SampleForm returns a copy of the fixed record served to every demo read.
func (b *Backend) SampleForm() domain.FieldMap {
	return b.sample.Clone()
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
