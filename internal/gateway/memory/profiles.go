package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
	"github.com/skyphotography/wedding-portal-backend/internal/weddingform"
)

// GetWeddingForm returns the fixed sample for any user.
func (b *Backend) GetWeddingForm(_ context.Context, userID string) (*domain.WeddingForm, error) {
	return &domain.WeddingForm{
		UserID:    userID,
		FormData:  b.sample.Clone(),
		UpdatedAt: b.now().UTC(),
	}, nil
}

// SaveWeddingForm echoes its input and stores nothing.
func (b *Backend) SaveWeddingForm(_ context.Context, userID string, data domain.FieldMap) (*domain.WeddingForm, error) {
	return &domain.WeddingForm{
		UserID:    userID,
		FormData:  data.Clone(),
		UpdatedAt: b.now().UTC(),
	}, nil
}

func (b *Backend) GetProfile(_ context.Context, id string) (*domain.Profile, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (b *Backend) EnsureProfile(_ context.Context, req domain.EnsureProfileRequest) (*domain.Profile, error) {
	if req.ID == "" {
		return nil, domain.ErrInvalidInput
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.profiles[req.ID]; ok {
		return &p, nil
	}
	now := b.now().UTC()
	p := domain.Profile{
		ID:        req.ID,
		Email:     req.Email,
		FullName:  req.FullName,
		Role:      domain.RoleClient,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.profiles[p.ID] = p
	return &p, nil
}

func (b *Backend) UpdateProfile(_ context.Context, id string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.FullName != nil {
		p.FullName = *upd.FullName
	}
	if upd.Phone != nil {
		p.Phone = *upd.Phone
	}
	if upd.Role != nil {
		p.Role = *upd.Role
	}
	p.UpdatedAt = b.now().UTC()
	b.profiles[id] = p
	return &p, nil
}

func (b *Backend) ListClients(_ context.Context, search string) ([]domain.Client, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Client, 0, len(b.profiles))
	for _, p := range b.profiles {
		if p.Role != domain.RoleClient {
			continue
		}
		c := b.clientLocked(p)
		if needle != "" && !matchesClient(c, needle) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (b *Backend) GetClient(_ context.Context, id string) (*domain.Client, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := b.clientLocked(p)
	return &c, nil
}

func (b *Backend) CreateClient(_ context.Context, req domain.NewClient) (*domain.Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	for _, p := range b.profiles {
		if strings.EqualFold(p.Email, email) {
			return nil, domain.ErrConflict
		}
	}

	now := b.now().UTC()
	p := domain.Profile{
		ID:        uuid.NewString(),
		Email:     email,
		FullName:  req.FullName,
		Phone:     req.Phone,
		Role:      domain.RoleClient,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.profiles[p.ID] = p
	if initial := req.InitialForm(); initial != nil {
		b.forms[p.ID] = domain.WeddingForm{UserID: p.ID, FormData: initial, UpdatedAt: now}
	}
	c := b.clientLocked(p)
	return &c, nil
}

func (b *Backend) DeleteClient(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.profiles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(b.profiles, id)
	delete(b.forms, id)
	return nil
}

func (b *Backend) clientLocked(p domain.Profile) domain.Client {
	c := domain.Client{Profile: p}
	if f, ok := b.forms[p.ID]; ok {
		f.FormData = f.FormData.Clone()
		c.Form = &f
		c.CompletionPercentage = weddingform.CompletionPercentage(f.FormData)
	}
	return c
}

func (b *Backend) clientName(id string) string {
	if p, ok := b.profiles[id]; ok {
		return p.FullName
	}
	return ""
}

func matchesClient(c domain.Client, needle string) bool {
	candidates := []string{c.Email, c.FullName}
	if c.Form != nil {
		candidates = append(candidates, c.Form.FormData.String("bride_name"), c.Form.FormData.String("groom_name"))
	}
	for _, s := range candidates {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}
