// Package gateway defines the persistence capability shared by the live
// Postgres store and the in-memory demo store. One implementation is chosen
// at startup; callers never branch on which one they hold.
package gateway

import (
	"context"
	"time"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

type WeddingForms interface {
	GetWeddingForm(ctx context.Context, userID string) (*domain.WeddingForm, error)
	SaveWeddingForm(ctx context.Context, userID string, data domain.FieldMap) (*domain.WeddingForm, error)
}

type Profiles interface {
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	EnsureProfile(ctx context.Context, req domain.EnsureProfileRequest) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Profile, error)
}

type Clients interface {
	ListClients(ctx context.Context, search string) ([]domain.Client, error)
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	CreateClient(ctx context.Context, req domain.NewClient) (*domain.Client, error)
	DeleteClient(ctx context.Context, id string) error
}

type EmailTemplates interface {
	ListEmailTemplates(ctx context.Context) ([]domain.EmailTemplate, error)
	GetEmailTemplate(ctx context.Context, id string) (*domain.EmailTemplate, error)
	CreateEmailTemplate(ctx context.Context, t domain.EmailTemplate) (*domain.EmailTemplate, error)
	UpdateEmailTemplate(ctx context.Context, t domain.EmailTemplate) (*domain.EmailTemplate, error)
	DeleteEmailTemplate(ctx context.Context, id string) error
}

type ScheduledEmails interface {
	ListScheduledEmails(ctx context.Context) ([]domain.ScheduledEmail, error)
	ScheduleEmail(ctx context.Context, e domain.ScheduledEmail) (*domain.ScheduledEmail, error)
	CancelScheduledEmail(ctx context.Context, id string) (*domain.ScheduledEmail, error)
	DueScheduledEmails(ctx context.Context, now time.Time) ([]domain.ScheduledEmail, error)
	MarkScheduledEmailSent(ctx context.Context, id string, sentAt time.Time) error
}

type FAQSets interface {
	ListFAQSets(ctx context.Context) ([]domain.FAQSet, error)
	CreateFAQSet(ctx context.Context, s domain.FAQSet) (*domain.FAQSet, error)
	UpdateFAQSet(ctx context.Context, s domain.FAQSet) (*domain.FAQSet, error)
	DeleteFAQSet(ctx context.Context, id string) error
	SendFAQSet(ctx context.Context, setID string, clientIDs []string) ([]domain.FAQNotification, error)
}

type CustomForms interface {
	ListCustomForms(ctx context.Context) ([]domain.CustomForm, error)
	CreateCustomForm(ctx context.Context, f domain.CustomForm) (*domain.CustomForm, error)
	UpdateCustomForm(ctx context.Context, f domain.CustomForm) (*domain.CustomForm, error)
	DeleteCustomForm(ctx context.Context, id string) error
	SendCustomForm(ctx context.Context, formID string, clientIDs []string) ([]domain.FormRequest, error)
	ListFormRequests(ctx context.Context) ([]domain.FormRequest, error)
	UpdateFormRequestStatus(ctx context.Context, id, status string) (*domain.FormRequest, error)
}

type Meetings interface {
	ListMeetings(ctx context.Context) ([]domain.Meeting, error)
	CreateMeeting(ctx context.Context, m domain.Meeting) (*domain.Meeting, error)
	ListAvailability(ctx context.Context) ([]domain.AvailabilitySlot, error)
	CreateAvailability(ctx context.Context, s domain.AvailabilitySlot) (*domain.AvailabilitySlot, error)
	BookAvailability(ctx context.Context, id string) (*domain.AvailabilitySlot, error)
	GetIntegrationSettings(ctx context.Context) (domain.IntegrationSettings, error)
	SaveIntegrationSettings(ctx context.Context, s domain.IntegrationSettings) (domain.IntegrationSettings, error)
}

// Backend is the full persistence capability.
type Backend interface {
	WeddingForms
	Profiles
	Clients
	EmailTemplates
	ScheduledEmails
	FAQSets
	CustomForms
	Meetings
}
