package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/skyphotography/wedding-portal-backend/internal/auth/domain"
)

const sessionKeyPrefix = "portal:session:" // portal:session:{token}

type SessionStore interface {
	Create(ctx context.Context, rec domain.SessionRecord) (string, error)
	Get(ctx context.Context, token string) (*domain.SessionRecord, error)
	Delete(ctx context.Context, token string) error
}

// RedisSessionStore keeps opaque session tokens in Redis with a TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (r *RedisSessionStore) Create(ctx context.Context, rec domain.SessionRecord) (string, error) {
	token := uuid.NewString()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(token), data, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

func (r *RedisSessionStore) Get(ctx context.Context, token string) (*domain.SessionRecord, error) {
	data, err := r.client.Get(ctx, r.key(token)).Result()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var rec domain.SessionRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &rec, nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) key(token string) string {
	return sessionKeyPrefix + token
}

// MemorySessionStore is used when Redis is not configured.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memorySession
}

type memorySession struct {
	rec     domain.SessionRecord
	expires time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{ttl: ttl, now: time.Now, sessions: make(map[string]memorySession)}
}

func (m *MemorySessionStore) Create(_ context.Context, rec domain.SessionRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now.UTC()
	}
	token := uuid.NewString()
	m.sessions[token] = memorySession{rec: rec, expires: now.Add(m.ttl)}
	return token, nil
}

func (m *MemorySessionStore) Get(_ context.Context, token string) (*domain.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if m.now().After(s.expires) {
		delete(m.sessions, token)
		return nil, domain.ErrSessionNotFound
	}
	rec := s.rec
	return &rec, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
