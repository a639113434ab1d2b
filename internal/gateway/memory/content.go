package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

func (b *Backend) ListEmailTemplates(_ context.Context) ([]domain.EmailTemplate, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.EmailTemplate, 0, len(b.templates))
	for _, t := range b.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (b *Backend) GetEmailTemplate(_ context.Context, id string) (*domain.EmailTemplate, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.templates[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (b *Backend) CreateEmailTemplate(_ context.Context, t domain.EmailTemplate) (*domain.EmailTemplate, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t.ID = uuid.NewString()
	t.CreatedAt = b.now().UTC()
	b.templates[t.ID] = t
	return &t, nil
}

func (b *Backend) UpdateEmailTemplate(_ context.Context, t domain.EmailTemplate) (*domain.EmailTemplate, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	existing, ok := b.templates[t.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t.CreatedAt = existing.CreatedAt
	b.templates[t.ID] = t
	return &t, nil
}

func (b *Backend) DeleteEmailTemplate(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.templates[id]; !ok {
		return domain.ErrNotFound
	}
	delete(b.templates, id)
	return nil
}

func (b *Backend) ListScheduledEmails(_ context.Context) ([]domain.ScheduledEmail, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.ScheduledEmail, 0, len(b.scheduled))
	for _, e := range b.scheduled {
		out = append(out, b.scheduledViewLocked(e))
	}
	sortScheduled(out)
	return out, nil
}

func (b *Backend) ScheduleEmail(_ context.Context, e domain.ScheduledEmail) (*domain.ScheduledEmail, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.templates[e.TemplateID]; !ok {
		return nil, domain.ErrNotFound
	}
	e.ID = uuid.NewString()
	e.Status = domain.EmailScheduled
	e.ClientIDs = cloneStrings(e.ClientIDs)
	e.SentAt = nil
	b.scheduled[e.ID] = e
	view := b.scheduledViewLocked(e)
	return &view, nil
}

func (b *Backend) CancelScheduledEmail(_ context.Context, id string) (*domain.ScheduledEmail, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.scheduled[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if e.Status != domain.EmailScheduled {
		return nil, domain.ErrConflict
	}
	e.Status = domain.EmailCancelled
	b.scheduled[id] = e
	view := b.scheduledViewLocked(e)
	return &view, nil
}

func (b *Backend) DueScheduledEmails(_ context.Context, now time.Time) ([]domain.ScheduledEmail, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []domain.ScheduledEmail
	for _, e := range b.scheduled {
		if e.Status == domain.EmailScheduled && !e.ScheduledFor.After(now) {
			out = append(out, b.scheduledViewLocked(e))
		}
	}
	sortScheduled(out)
	return out, nil
}

func (b *Backend) MarkScheduledEmailSent(_ context.Context, id string, sentAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.scheduled[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Status = domain.EmailSent
	e.SentAt = &sentAt
	b.scheduled[id] = e
	return nil
}

func (b *Backend) scheduledViewLocked(e domain.ScheduledEmail) domain.ScheduledEmail {
	e.ClientIDs = cloneStrings(e.ClientIDs)
	if t, ok := b.templates[e.TemplateID]; ok {
		e.TemplateName = t.Name
	}
	return e
}

func sortScheduled(out []domain.ScheduledEmail) {
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledFor.Before(out[j].ScheduledFor) })
}

func (b *Backend) ListFAQSets(_ context.Context) ([]domain.FAQSet, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.FAQSet, 0, len(b.faqSets))
	for _, s := range b.faqSets {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (b *Backend) CreateFAQSet(_ context.Context, s domain.FAQSet) (*domain.FAQSet, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s.ID = uuid.NewString()
	s.CreatedAt = b.now().UTC()
	b.faqSets[s.ID] = s
	return &s, nil
}

func (b *Backend) UpdateFAQSet(_ context.Context, s domain.FAQSet) (*domain.FAQSet, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	existing, ok := b.faqSets[s.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.CreatedAt = existing.CreatedAt
	b.faqSets[s.ID] = s
	return &s, nil
}

func (b *Backend) DeleteFAQSet(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.faqSets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(b.faqSets, id)
	return nil
}

func (b *Backend) SendFAQSet(_ context.Context, setID string, clientIDs []string) ([]domain.FAQNotification, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.faqSets[setID]; !ok {
		return nil, domain.ErrNotFound
	}
	now := b.now().UTC()
	out := make([]domain.FAQNotification, 0, len(clientIDs))
	for _, cid := range clientIDs {
		n := domain.FAQNotification{
			ID:       uuid.NewString(),
			FAQSetID: setID,
			ClientID: cid,
			Status:   domain.EmailSent,
			SentAt:   now,
		}
		b.notifications = append(b.notifications, n)
		out = append(out, n)
	}
	return out, nil
}

func (b *Backend) ListCustomForms(_ context.Context) ([]domain.CustomForm, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.CustomForm, 0, len(b.customForms))
	for _, f := range b.customForms {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (b *Backend) CreateCustomForm(_ context.Context, f domain.CustomForm) (*domain.CustomForm, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f.ID = uuid.NewString()
	f.CreatedAt = b.now().UTC()
	b.customForms[f.ID] = f
	return &f, nil
}

func (b *Backend) UpdateCustomForm(_ context.Context, f domain.CustomForm) (*domain.CustomForm, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	existing, ok := b.customForms[f.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	f.CreatedAt = existing.CreatedAt
	b.customForms[f.ID] = f
	return &f, nil
}

func (b *Backend) DeleteCustomForm(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.customForms[id]; !ok {
		return domain.ErrNotFound
	}
	delete(b.customForms, id)
	return nil
}

func (b *Backend) SendCustomForm(_ context.Context, formID string, clientIDs []string) ([]domain.FormRequest, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.customForms[formID]; !ok {
		return nil, domain.ErrNotFound
	}
	now := b.now().UTC()
	out := make([]domain.FormRequest, 0, len(clientIDs))
	for _, cid := range clientIDs {
		r := domain.FormRequest{
			ID:       uuid.NewString(),
			FormID:   formID,
			ClientID: cid,
			Status:   domain.RequestPending,
			SentAt:   now,
		}
		b.requests[r.ID] = r
		out = append(out, b.requestViewLocked(r))
	}
	return out, nil
}

func (b *Backend) ListFormRequests(_ context.Context) ([]domain.FormRequest, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.FormRequest, 0, len(b.requests))
	for _, r := range b.requests {
		out = append(out, b.requestViewLocked(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	return out, nil
}

func (b *Backend) UpdateFormRequestStatus(_ context.Context, id, status string) (*domain.FormRequest, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r.Status = status
	b.requests[id] = r
	view := b.requestViewLocked(r)
	return &view, nil
}

func (b *Backend) requestViewLocked(r domain.FormRequest) domain.FormRequest {
	if f, ok := b.customForms[r.FormID]; ok {
		r.FormName = f.Name
	}
	r.ClientName = b.clientName(r.ClientID)
	return r
}
