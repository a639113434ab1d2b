package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

func (b *Backend) ListMeetings(_ context.Context) ([]domain.Meeting, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.Meeting, 0, len(b.meetings))
	for _, m := range b.meetings {
		m.ClientName = b.clientName(m.ClientID)
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledFor.Before(out[j].ScheduledFor) })
	return out, nil
}

func (b *Backend) CreateMeeting(_ context.Context, m domain.Meeting) (*domain.Meeting, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m.ID = uuid.NewString()
	if m.Status == "" {
		m.Status = domain.MeetingScheduled
	}
	b.meetings[m.ID] = m
	m.ClientName = b.clientName(m.ClientID)
	return &m, nil
}

func (b *Backend) ListAvailability(_ context.Context) ([]domain.AvailabilitySlot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.AvailabilitySlot, 0, len(b.slots))
	for _, s := range b.slots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (b *Backend) CreateAvailability(_ context.Context, s domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s.ID = uuid.NewString()
	b.slots[s.ID] = s
	return &s, nil
}

func (b *Backend) BookAvailability(_ context.Context, id string) (*domain.AvailabilitySlot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.slots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.IsBooked {
		return nil, domain.ErrConflict
	}
	s.IsBooked = true
	b.slots[id] = s
	return &s, nil
}

func (b *Backend) GetIntegrationSettings(_ context.Context) (domain.IntegrationSettings, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.settings == nil {
		return domain.DefaultIntegrationSettings(), nil
	}
	return *b.settings, nil
}

func (b *Backend) SaveIntegrationSettings(_ context.Context, s domain.IntegrationSettings) (domain.IntegrationSettings, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settings = &s
	return s, nil
}
