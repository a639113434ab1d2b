package weddingform

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
	"github.com/skyphotography/wedding-portal-backend/internal/gateway"
	"github.com/skyphotography/wedding-portal-backend/internal/platform/logger"
	"github.com/skyphotography/wedding-portal-backend/internal/platform/schedule"
	"github.com/skyphotography/wedding-portal-backend/internal/weddingform/catalog"
)

const persistTimeout = 10 * time.Second

// Store is one client's working copy of their wedding form. Local state is
// authoritative for reads; writes reach the backend through a trailing debounce.
type Store struct {
	userID   string
	backend  gateway.WeddingForms
	sched    schedule.Scheduler
	debounce time.Duration
	log      *logger.Logger

	mu      sync.Mutex
	state   domain.FieldMap
	pending schedule.Handle
	gen     uint64
	closed  bool

	// guarded by mu
	load  loadState
	dirty map[string]struct{}

	// persists from one store never overlap
	persistMu sync.Mutex
	// serializes fetches of the stored record
	loadMu sync.Mutex
}

type loadState int

const (
	loadNotAttempted loadState = iota
	loadDone
	loadFailed
)

func NewStore(userID string, backend gateway.WeddingForms, sched schedule.Scheduler, debounce time.Duration) *Store {
	return &Store{
		userID:   userID,
		backend:  backend,
		sched:    sched,
		debounce: debounce,
		log:      logger.Background("form-store:" + userID),
		state:    Defaults(),
	}
}

func (s *Store) UserID() string {
	return s.userID
}

// Load fetches the persisted record and merges it over local state. A missing
// record counts as loaded. A transport failure leaves defaults in place and is
// returned; until a later load succeeds nothing is persisted. Fields edited
// while the load was failing keep their local values.
func (s *Store) Load(ctx context.Context) error {
	form, err := s.backend.GetWeddingForm(ctx, s.userID)
	if err != nil && !domain.IsNotFound(err) {
		logger.New(ctx).LogErrorf("form.load", "user_id=%s error=%v", s.userID, err)
		s.mu.Lock()
		s.load = loadFailed
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err != nil:
		s.log.LogInfo("load", "no saved form yet")
	case form != nil:
		data := form.FormData
		if len(s.dirty) > 0 {
			data = data.Clone()
			for name := range s.dirty {
				delete(data, name)
			}
		}
		s.state = Reduce(s.state, LoadForm{Data: data})
	}
	s.load = loadDone
	s.dirty = nil
	return nil
}

// ensureLoaded loads once per store, retrying on each call after a failure.
func (s *Store) ensureLoaded(ctx context.Context) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.loadStatus() == loadDone {
		return
	}
	_ = s.Load(ctx)
}

// retryFailedLoad is called before any write so defaults never overwrite a
// record that could not be read.
func (s *Store) retryFailedLoad(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.loadStatus() != loadFailed {
		return nil
	}
	return s.Load(ctx)
}

func (s *Store) loadStatus() loadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load
}

// UpdateField applies an optimistic single-field change and schedules a persist.
func (s *Store) UpdateField(name string, value any) {
	if !IsKnownField(name) {
		s.log.LogWarnf("update_field", "unknown field=%q accepted", name)
	}
	s.dispatch(UpdateField{Name: name, Value: value}, true)
}

// UpdateSection merges several fields in one transition and schedules a persist.
func (s *Store) UpdateSection(values domain.FieldMap) {
	for name := range values {
		if !IsKnownField(name) {
			s.log.LogWarnf("update_section", "unknown field=%q accepted", name)
		}
	}
	s.dispatch(UpdateSection{Values: values}, true)
}

// Reset clears local state to defaults without persisting.
func (s *Store) Reset() {
	s.dispatch(ResetForm{}, false)
}

// Snapshot returns a copy of local state.
func (s *Store) Snapshot() domain.FieldMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) CompletionPercentage() int {
	return CompletionPercentage(s.Snapshot())
}

func (s *Store) Sections() []catalog.SectionState {
	return catalog.States(s.Snapshot())
}

// Save persists the full current state immediately and supersedes any pending
// debounced persist. The backend error is returned to the caller.
func (s *Store) Save(ctx context.Context) (*domain.WeddingForm, error) {
	s.mu.Lock()
	if s.pending != nil {
		s.pending.Cancel()
		s.pending = nil
	}
	s.gen++
	s.mu.Unlock()

	if err := s.retryFailedLoad(ctx); err != nil {
		return nil, fmt.Errorf("save wedding form: stored form not loaded: %w", err)
	}
	form, err := s.persist(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("save wedding form: %w", err)
	}
	return form, nil
}

// HasPendingSave reports whether a debounced persist is waiting.
func (s *Store) HasPendingSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Close cancels any pending persist without flushing it.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.gen++
	if s.pending != nil {
		s.pending.Cancel()
		s.pending = nil
	}
}

func (s *Store) dispatch(cmd Command, persist bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, cmd)
	if !persist || s.closed {
		return
	}
	if s.load == loadFailed {
		s.markDirty(cmd)
	}
	if s.pending != nil {
		s.pending.Cancel()
	}
	s.gen++
	gen := s.gen
	s.pending = s.sched.Schedule(s.debounce, func() { s.flush(gen) })
}

func (s *Store) markDirty(cmd Command) {
	if s.dirty == nil {
		s.dirty = map[string]struct{}{}
	}
	switch c := cmd.(type) {
	case UpdateField:
		s.dirty[c.Name] = struct{}{}
	case UpdateSection:
		for name := range c.Values {
			s.dirty[name] = struct{}{}
		}
	}
}

// flush runs when the quiescence window elapses. A superseded generation is dropped.
func (s *Store) flush(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.retryFailedLoad(ctx); err != nil {
		s.log.LogWarnf("autosave", "skipped, stored form not loaded: %v", err)
		return
	}
	current := func() bool { return !s.closed && gen == s.gen }
	if _, err := s.persist(ctx, current); err != nil {
		s.log.LogError("autosave", err)
	}
}

// persist writes the state as it is once persistMu is held, so writes land in
// the order their snapshots were taken. When still is non-nil it is checked
// under mu and a false result skips the write.
func (s *Store) persist(ctx context.Context, still func() bool) (*domain.WeddingForm, error) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	if still != nil && !still() {
		s.mu.Unlock()
		return nil, nil
	}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	return s.backend.SaveWeddingForm(ctx, s.userID, snapshot)
}
