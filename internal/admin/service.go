package admin

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
	"github.com/skyphotography/wedding-portal-backend/internal/export"
	"github.com/skyphotography/wedding-portal-backend/internal/gateway"
	"github.com/skyphotography/wedding-portal-backend/internal/meetings"
	"github.com/skyphotography/wedding-portal-backend/internal/notify"
	"github.com/skyphotography/wedding-portal-backend/internal/platform/logger"
)

const recentActivityLimit = 10

// Service backs the admin console. It adds validation and cross-entity views
// on top of the persistence gateway.
type Service struct {
	backend gateway.Backend
	links   meetings.LinkGenerator
	brand   notify.Branding
	now     func() time.Time
}

// NewService creates an admin service. A nil link generator falls back to stub Meet links.
func NewService(backend gateway.Backend, links meetings.LinkGenerator, brand notify.Branding) *Service {
	if links == nil {
		links = meetings.StubLinks{}
	}
	return &Service{backend: backend, links: links, brand: brand, now: time.Now}
}

// Activity is one entry of the dashboard feed.
type Activity struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// DashboardStats summarises the studio's workload.
type DashboardStats struct {
	TotalClients     int        `json:"total_clients"`
	CompletedForms   int        `json:"completed_forms"`
	UpcomingMeetings int        `json:"upcoming_meetings"`
	PendingEmails    int        `json:"pending_emails"`
	RecentActivity   []Activity `json:"recent_activity"`
}

// Dashboard computes the admin overview from clients, meetings and scheduled emails.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	clients, err := s.backend.ListClients(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	meets, err := s.backend.ListMeetings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	emails, err := s.backend.ListScheduledEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scheduled emails: %w", err)
	}

	now := s.now()
	stats := &DashboardStats{TotalClients: len(clients)}
	var feed []Activity

	for _, c := range clients {
		if c.CompletionPercentage == 100 {
			stats.CompletedForms++
		}
		if !c.CreatedAt.IsZero() {
			feed = append(feed, Activity{Type: "client_added", Message: displayName(c) + " added as new client", Timestamp: c.CreatedAt})
		}
		if c.Form != nil && !c.Form.UpdatedAt.IsZero() {
			kind, verb := "form_updated", "updated their wedding form"
			if c.CompletionPercentage == 100 {
				kind, verb = "form_completed", "completed their wedding form"
			}
			feed = append(feed, Activity{Type: kind, Message: coupleName(c) + " " + verb, Timestamp: c.Form.UpdatedAt})
		}
	}
	for _, m := range meets {
		if !m.ScheduledFor.Before(now) && m.Status != domain.MeetingCancelled {
			stats.UpcomingMeetings++
		}
		feed = append(feed, Activity{Type: "meeting_scheduled", Message: "Meeting scheduled: " + m.MeetingType, Timestamp: m.ScheduledFor})
	}
	for _, e := range emails {
		switch e.Status {
		case domain.EmailScheduled:
			stats.PendingEmails++
		case domain.EmailSent:
			if e.SentAt != nil {
				feed = append(feed, Activity{
					Type:      "email_sent",
					Message:   fmt.Sprintf("%s sent to %d clients", nonEmpty(e.TemplateName, "Email"), len(e.ClientIDs)),
					Timestamp: *e.SentAt,
				})
			}
		}
	}

	// only past events belong in the feed
	past := make([]Activity, 0, len(feed))
	for _, a := range feed {
		if !a.Timestamp.After(now) {
			past = append(past, a)
		}
	}
	sort.SliceStable(past, func(i, j int) bool { return past[i].Timestamp.After(past[j].Timestamp) })
	if len(past) > recentActivityLimit {
		past = past[:recentActivityLimit]
	}
	stats.RecentActivity = past
	return stats, nil
}

// ---- clients ----

func (s *Service) ListClients(ctx context.Context, search string) ([]domain.Client, error) {
	return s.backend.ListClients(ctx, strings.TrimSpace(search))
}

func (s *Service) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.backend.GetClient(ctx, id)
}

func (s *Service) CreateClient(ctx context.Context, req domain.NewClient) (*domain.Client, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	return s.backend.CreateClient(ctx, req)
}

// UpdateClient applies an admin edit, which may promote or demote the role.
func (s *Service) UpdateClient(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	if upd.Role != nil && *upd.Role != domain.RoleClient && *upd.Role != domain.RoleAdmin {
		return nil, invalid("unknown role %q", *upd.Role)
	}
	return s.backend.UpdateProfile(ctx, id, upd)
}

func (s *Service) DeleteClient(ctx context.Context, id string) error {
	return s.backend.DeleteClient(ctx, id)
}

// ExportClients writes the (optionally filtered) client list as CSV.
func (s *Service) ExportClients(ctx context.Context, w io.Writer, search string) error {
	clients, err := s.ListClients(ctx, search)
	if err != nil {
		return err
	}
	return export.WriteClientsCSV(w, clients)
}

// ---- email templates & scheduling ----

func (s *Service) ListEmailTemplates(ctx context.Context) ([]domain.EmailTemplate, error) {
	return s.backend.ListEmailTemplates(ctx)
}

func (s *Service) CreateEmailTemplate(ctx context.Context, t domain.EmailTemplate) (*domain.EmailTemplate, error) {
	if !domain.Contains(domain.TemplateTypes, t.Type) {
		return nil, invalid("unknown template type %q", t.Type)
	}
	return s.backend.CreateEmailTemplate(ctx, t)
}

func (s *Service) UpdateEmailTemplate(ctx context.Context, t domain.EmailTemplate) (*domain.EmailTemplate, error) {
	if !domain.Contains(domain.TemplateTypes, t.Type) {
		return nil, invalid("unknown template type %q", t.Type)
	}
	return s.backend.UpdateEmailTemplate(ctx, t)
}

func (s *Service) DeleteEmailTemplate(ctx context.Context, id string) error {
	return s.backend.DeleteEmailTemplate(ctx, id)
}

// Preview is a template rendered for one client.
type Preview struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// PreviewEmailTemplate merges a template with a client's wedding form. Without a
// client every wedding token renders empty.
func (s *Service) PreviewEmailTemplate(ctx context.Context, templateID, clientID string) (*Preview, error) {
	t, err := s.backend.GetEmailTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	data := domain.FieldMap{}
	if clientID != "" {
		c, err := s.backend.GetClient(ctx, clientID)
		if err != nil {
			return nil, err
		}
		if c.Form != nil {
			data = c.Form.FormData
		}
	}
	return &Preview{
		Subject: notify.Merge(t.Subject, data, s.brand),
		Body:    notify.Merge(t.Template, data, s.brand),
	}, nil
}

func (s *Service) ListScheduledEmails(ctx context.Context) ([]domain.ScheduledEmail, error) {
	return s.backend.ListScheduledEmails(ctx)
}

func (s *Service) ScheduleEmail(ctx context.Context, e domain.ScheduledEmail) (*domain.ScheduledEmail, error) {
	if e.TemplateID == "" {
		return nil, invalid("template_id is required")
	}
	if len(e.ClientIDs) == 0 {
		return nil, invalid("at least one client is required")
	}
	if e.ScheduledFor.IsZero() {
		e.ScheduledFor = s.now()
	}
	e.Status = domain.EmailScheduled
	e.SentAt = nil
	return s.backend.ScheduleEmail(ctx, e)
}

func (s *Service) CancelScheduledEmail(ctx context.Context, id string) (*domain.ScheduledEmail, error) {
	return s.backend.CancelScheduledEmail(ctx, id)
}

// ---- FAQs ----

func (s *Service) ListFAQSets(ctx context.Context) ([]domain.FAQSet, error) {
	return s.backend.ListFAQSets(ctx)
}

func (s *Service) CreateFAQSet(ctx context.Context, set domain.FAQSet) (*domain.FAQSet, error) {
	if err := validateFAQSet(set); err != nil {
		return nil, err
	}
	return s.backend.CreateFAQSet(ctx, set)
}

func (s *Service) UpdateFAQSet(ctx context.Context, set domain.FAQSet) (*domain.FAQSet, error) {
	if err := validateFAQSet(set); err != nil {
		return nil, err
	}
	return s.backend.UpdateFAQSet(ctx, set)
}

func (s *Service) DeleteFAQSet(ctx context.Context, id string) error {
	return s.backend.DeleteFAQSet(ctx, id)
}

func (s *Service) SendFAQSet(ctx context.Context, id string, clientIDs []string) ([]domain.FAQNotification, error) {
	if len(clientIDs) == 0 {
		return nil, invalid("at least one client is required")
	}
	return s.backend.SendFAQSet(ctx, id, clientIDs)
}

func validateFAQSet(set domain.FAQSet) error {
	if !domain.Contains(domain.FAQCategories, set.Category) {
		return invalid("unknown faq category %q", set.Category)
	}
	for i, f := range set.FAQs {
		if strings.TrimSpace(f.Question) == "" || strings.TrimSpace(f.Answer) == "" {
			return invalid("faq %d needs a question and an answer", i+1)
		}
	}
	return nil
}

// ---- custom forms ----

func (s *Service) ListCustomForms(ctx context.Context) ([]domain.CustomForm, error) {
	return s.backend.ListCustomForms(ctx)
}

func (s *Service) CreateCustomForm(ctx context.Context, f domain.CustomForm) (*domain.CustomForm, error) {
	if err := validateCustomForm(f); err != nil {
		return nil, err
	}
	return s.backend.CreateCustomForm(ctx, f)
}

func (s *Service) UpdateCustomForm(ctx context.Context, f domain.CustomForm) (*domain.CustomForm, error) {
	if err := validateCustomForm(f); err != nil {
		return nil, err
	}
	return s.backend.UpdateCustomForm(ctx, f)
}

func (s *Service) DeleteCustomForm(ctx context.Context, id string) error {
	return s.backend.DeleteCustomForm(ctx, id)
}

func (s *Service) SendCustomForm(ctx context.Context, id string, clientIDs []string) ([]domain.FormRequest, error) {
	if len(clientIDs) == 0 {
		return nil, invalid("at least one client is required")
	}
	return s.backend.SendCustomForm(ctx, id, clientIDs)
}

func (s *Service) ListFormRequests(ctx context.Context) ([]domain.FormRequest, error) {
	return s.backend.ListFormRequests(ctx)
}

func (s *Service) UpdateFormRequestStatus(ctx context.Context, id, status string) (*domain.FormRequest, error) {
	if !domain.Contains(domain.FormRequestStatuses, status) {
		return nil, invalid("unknown request status %q", status)
	}
	return s.backend.UpdateFormRequestStatus(ctx, id, status)
}

func validateCustomForm(f domain.CustomForm) error {
	for i, field := range f.Fields {
		if !domain.Contains(domain.CustomFieldTypes, field.Type) {
			return invalid("field %d has unknown type %q", i+1, field.Type)
		}
		if strings.TrimSpace(field.Label) == "" {
			return invalid("field %d needs a label", i+1)
		}
		if (field.Type == "select" || field.Type == "radio") && len(field.Options) == 0 {
			return invalid("field %d (%s) needs options", i+1, field.Type)
		}
	}
	return nil
}

// ---- meetings ----

func (s *Service) ListMeetings(ctx context.Context) ([]domain.Meeting, error) {
	return s.backend.ListMeetings(ctx)
}

// CreateMeeting fills defaults from the integration settings and attaches a join link.
// A failed link lookup is logged and the meeting is stored with the fallback link.
func (s *Service) CreateMeeting(ctx context.Context, m domain.Meeting) (*domain.Meeting, error) {
	if m.ClientID == "" {
		return nil, invalid("client_id is required")
	}
	if m.ScheduledFor.IsZero() {
		return nil, invalid("scheduled_for is required")
	}

	settings, err := s.backend.GetIntegrationSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load integration settings: %w", err)
	}
	if m.Duration <= 0 {
		m.Duration = settings.DefaultDuration
	}
	if m.MeetingType == "" {
		m.MeetingType = "consultation"
	}
	m.Status = domain.MeetingScheduled

	if settings.MeetEnabled && !(settings.ZoomEnabled && settings.ZoomLink != "") {
		meetID, link, err := s.links.Generate(ctx, m)
		if err != nil {
			logger.New(ctx).LogWarnf("admin.create_meeting", "link generation failed: %v", err)
		} else {
			m.MeetID, m.Link = meetID, link
		}
	}
	m.Link = meetings.JoinLink(settings, m)

	return s.backend.CreateMeeting(ctx, m)
}

func (s *Service) ListAvailability(ctx context.Context) ([]domain.AvailabilitySlot, error) {
	return s.backend.ListAvailability(ctx)
}

func (s *Service) CreateAvailability(ctx context.Context, slot domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	if _, err := time.Parse("2006-01-02", slot.Date); err != nil {
		return nil, invalid("date must be YYYY-MM-DD")
	}
	start, err := time.Parse("15:04", slot.StartTime)
	if err != nil {
		return nil, invalid("start_time must be HH:MM")
	}
	end, err := time.Parse("15:04", slot.EndTime)
	if err != nil {
		return nil, invalid("end_time must be HH:MM")
	}
	if !end.After(start) {
		return nil, invalid("end_time must be after start_time")
	}
	if slot.Duration <= 0 {
		slot.Duration = int(end.Sub(start) / time.Minute)
	}
	slot.IsBooked = false
	return s.backend.CreateAvailability(ctx, slot)
}

func (s *Service) BookAvailability(ctx context.Context, id string) (*domain.AvailabilitySlot, error) {
	return s.backend.BookAvailability(ctx, id)
}

func (s *Service) GetIntegrationSettings(ctx context.Context) (domain.IntegrationSettings, error) {
	return s.backend.GetIntegrationSettings(ctx)
}

func (s *Service) SaveIntegrationSettings(ctx context.Context, set domain.IntegrationSettings) (domain.IntegrationSettings, error) {
	if set.DefaultDuration <= 0 {
		return domain.IntegrationSettings{}, invalid("default_duration must be positive")
	}
	if set.BufferTime < 0 {
		return domain.IntegrationSettings{}, invalid("buffer_time cannot be negative")
	}
	if set.ZoomEnabled && set.ZoomLink == "" {
		return domain.IntegrationSettings{}, invalid("zoom_link is required when zoom is enabled")
	}
	return s.backend.SaveIntegrationSettings(ctx, set)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func displayName(c domain.Client) string {
	return nonEmpty(c.FullName, c.Email)
}

func coupleName(c domain.Client) string {
	if c.Form != nil {
		bride, groom := c.Form.FormData.String("bride_name"), c.Form.FormData.String("groom_name")
		if bride != "" && groom != "" {
			return bride + " & " + groom
		}
	}
	return displayName(c)
}

func nonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
