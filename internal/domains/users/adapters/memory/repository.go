package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/itay19101973/E-commerce-system/internal/domains/users/domain"
	"github.com/itay19101973/E-commerce-system/internal/domains/users/ports"
)

var (
	_ ports.Repository = (*Repository)(nil)
	_ ports.TokenStore = (*TokenStore)(nil)
)

// Repository is an in-memory user store guarded by a mutex.
type Repository struct {
	mu      sync.RWMutex
	users   map[int64]*domain.User
	byEmail map[string]int64
	nextID  int64
}

// NewRepository returns an empty in-memory user repository.
func NewRepository() *Repository {
	return &Repository{
		users:   make(map[int64]*domain.User),
		byEmail: make(map[string]int64),
		nextID:  1,
	}
}

func (r *Repository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := emailKey(user.Email)
	if existingID, ok := r.byEmail[key]; ok && existingID != user.ID {
		return nil, ports.ErrEmailTaken
	}
	stored := cloneUser(user)
	now := time.Now().UTC()
	if stored.ID == 0 {
		stored.ID = r.nextID
		r.nextID++
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.users[stored.ID] = stored
	r.byEmail[key] = stored.ID
	return cloneUser(stored), nil
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneUser(r.users[id]), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneUser(user), nil
}

// TokenStore keeps revoked token ids in memory.
type TokenStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewTokenStore returns an empty in-memory revocation store.
func NewTokenStore() *TokenStore {
	return &TokenStore{revoked: make(map[string]time.Time)}
}

func (s *TokenStore) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = expiresAt
	return nil
}

func (s *TokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[jti]
	return ok, nil
}

func (s *TokenStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for jti, expiresAt := range s.revoked {
		if expiresAt.Before(now) {
			delete(s.revoked, jti)
			purged++
		}
	}
	return purged, nil
}

func cloneUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clone := *user
	return &clone
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
