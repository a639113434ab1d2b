package domain

import "time"

// Email template types
const (
	TemplateReminder    = "reminder"
	TemplateWelcome     = "welcome"
	TemplateFollowUp    = "follow-up"
	TemplateFormRequest = "form-request"
)

// Scheduled email statuses
const (
	EmailScheduled = "scheduled"
	EmailSent      = "sent"
	EmailCancelled = "cancelled"
)

// Form request statuses
const (
	RequestPending   = "pending"
	RequestCompleted = "completed"
	RequestOverdue   = "overdue"
)

// Meeting statuses
const (
	MeetingScheduled = "scheduled"
	MeetingCompleted = "completed"
	MeetingCancelled = "cancelled"
)

var (
	TemplateTypes       = []string{TemplateReminder, TemplateWelcome, TemplateFollowUp, TemplateFormRequest}
	FAQCategories       = []string{"general", "timeline", "photography", "venue", "pricing", "planning"}
	CustomFieldTypes    = []string{"text", "textarea", "select", "checkbox", "radio", "date", "time", "email", "phone", "number", "file"}
	FormRequestStatuses = []string{RequestPending, RequestCompleted, RequestOverdue}
)

type EmailTemplate struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name" binding:"required"`
	Subject   string    `json:"subject" yaml:"subject" binding:"required"`
	Template  string    `json:"template" yaml:"template" binding:"required"`
	Type      string    `json:"type" yaml:"type" binding:"required"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

type ScheduledEmail struct {
	ID           string     `json:"id" yaml:"id"`
	TemplateID   string     `json:"template_id" yaml:"template_id"`
	TemplateName string     `json:"template_name,omitempty" yaml:"-"`
	ClientIDs    []string   `json:"client_ids" yaml:"client_ids"`
	ScheduledFor time.Time  `json:"scheduled_for" yaml:"scheduled_for"`
	Status       string     `json:"status" yaml:"status"`
	SentAt       *time.Time `json:"sent_at,omitempty" yaml:"sent_at"`
}

type FAQ struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

type FAQSet struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name" binding:"required"`
	Description string    `json:"description" yaml:"description"`
	Category    string    `json:"category" yaml:"category" binding:"required"`
	FAQs        []FAQ     `json:"faqs" yaml:"faqs"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

type FAQNotification struct {
	ID       string    `json:"id"`
	FAQSetID string    `json:"faq_set_id"`
	ClientID string    `json:"client_id"`
	Status   string    `json:"status"`
	SentAt   time.Time `json:"sent_at"`
}

type CustomField struct {
	Type        string   `json:"type" yaml:"type"`
	Label       string   `json:"label" yaml:"label"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder"`
	Required    bool     `json:"required" yaml:"required"`
	Options     []string `json:"options,omitempty" yaml:"options"`
}

type CustomForm struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name" binding:"required"`
	Description string        `json:"description" yaml:"description"`
	Category    string        `json:"category" yaml:"category"`
	Fields      []CustomField `json:"fields" yaml:"fields"`
	CreatedAt   time.Time     `json:"created_at" yaml:"created_at"`
}

type FormRequest struct {
	ID         string    `json:"id" yaml:"id"`
	FormID     string    `json:"form_id" yaml:"form_id"`
	FormName   string    `json:"form_name,omitempty" yaml:"-"`
	ClientID   string    `json:"client_id" yaml:"client_id"`
	ClientName string    `json:"client_name,omitempty" yaml:"-"`
	Status     string    `json:"status" yaml:"status"`
	SentAt     time.Time `json:"sent_at" yaml:"sent_at"`
}

type AvailabilitySlot struct {
	ID          string `json:"id" yaml:"id"`
	Date        string `json:"date" yaml:"date" binding:"required"`
	StartTime   string `json:"start_time" yaml:"start_time" binding:"required"`
	EndTime     string `json:"end_time" yaml:"end_time" binding:"required"`
	Duration    int    `json:"duration" yaml:"duration"`
	MeetingType string `json:"meeting_type" yaml:"meeting_type"`
	IsBooked    bool   `json:"is_booked" yaml:"is_booked"`
}

type Meeting struct {
	ID           string    `json:"id" yaml:"id"`
	ClientID     string    `json:"client_id" yaml:"client_id"`
	ClientName   string    `json:"client_name,omitempty" yaml:"-"`
	MeetingType  string    `json:"meeting_type" yaml:"meeting_type"`
	ScheduledFor time.Time `json:"scheduled_for" yaml:"scheduled_for"`
	Duration     int       `json:"duration" yaml:"duration"`
	MeetID       string    `json:"meet_id,omitempty" yaml:"meet_id"`
	Link         string    `json:"link,omitempty" yaml:"link"`
	Status       string    `json:"status" yaml:"status"`
}

// IntegrationSettings is stored under the integration_settings admin key.
type IntegrationSettings struct {
	GoogleCalendarEnabled bool   `json:"google_calendar_enabled" yaml:"google_calendar_enabled"`
	ZoomEnabled           bool   `json:"zoom_enabled" yaml:"zoom_enabled"`
	ZoomLink              string `json:"zoom_link,omitempty" yaml:"zoom_link"`
	MeetEnabled           bool   `json:"meet_enabled" yaml:"meet_enabled"`
	DefaultDuration       int    `json:"default_duration" yaml:"default_duration"`
	BufferTime            int    `json:"buffer_time" yaml:"buffer_time"`
}

func DefaultIntegrationSettings() IntegrationSettings {
	return IntegrationSettings{
		MeetEnabled:     true,
		DefaultDuration: 60,
		BufferTime:      15,
	}
}

func Contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
