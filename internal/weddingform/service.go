package weddingform

import (
	"context"
	"sync"
	"time"

	"github.com/skyphotography/wedding-portal-backend/internal/gateway"
	"github.com/skyphotography/wedding-portal-backend/internal/platform/logger"
	"github.com/skyphotography/wedding-portal-backend/internal/platform/schedule"
)

// Service owns one Store per signed-in client.
type Service struct {
	backend  gateway.WeddingForms
	sched    schedule.Scheduler
	debounce time.Duration

	mu     sync.Mutex
	stores map[string]*Store
}

func NewService(backend gateway.WeddingForms, sched schedule.Scheduler, debounce time.Duration) *Service {
	if sched == nil {
		sched = schedule.Timer{}
	}
	return &Service{
		backend:  backend,
		sched:    sched,
		debounce: debounce,
		stores:   make(map[string]*Store),
	}
}

// For returns the client's store, creating it on first access. The stored
// record is fetched until one fetch succeeds.
func (s *Service) For(ctx context.Context, userID string) *Store {
	s.mu.Lock()
	st, ok := s.stores[userID]
	if !ok {
		st = NewStore(userID, s.backend, s.sched, s.debounce)
		s.stores[userID] = st
	}
	s.mu.Unlock()

	st.ensureLoaded(ctx)
	return st
}

// Release tears the client's store down. A pending autosave is dropped.
func (s *Service) Release(userID string) {
	s.mu.Lock()
	st, ok := s.stores[userID]
	delete(s.stores, userID)
	s.mu.Unlock()

	if ok {
		st.Close()
	}
}

// Active counts live stores.
func (s *Service) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

// FlushAll saves every store with a pending autosave. Used on shutdown.
func (s *Service) FlushAll(ctx context.Context) {
	s.mu.Lock()
	stores := make([]*Store, 0, len(s.stores))
	for _, st := range s.stores {
		stores = append(stores, st)
	}
	s.mu.Unlock()

	log := logger.New(ctx)
	for _, st := range stores {
		if !st.HasPendingSave() {
			continue
		}
		if _, err := st.Save(ctx); err != nil {
			log.LogErrorf("form.flush_all", "user_id=%s error=%v", st.UserID(), err)
		}
	}
}
