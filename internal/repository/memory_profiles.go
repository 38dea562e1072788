package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

// MemoryProfilesRepository backs auth when the database is disabled, and the
// unit tests.
type MemoryProfilesRepository struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile // profileID -> profile
}

func NewMemoryProfilesRepository() *MemoryProfilesRepository {
	return &MemoryProfilesRepository{profiles: map[string]domain.Profile{}}
}

var _ ProfilesRepository = (*MemoryProfilesRepository)(nil)

func (r *MemoryProfilesRepository) CreateProfile(_ context.Context, p *domain.Profile) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.profiles {
		if strings.EqualFold(existing.Email, p.Email) {
			return "", ErrDuplicateEmail
		}
	}

	stored := *p
	stored.ProfileID = uuid.NewString()
	stored.CreatedAt = time.Now()
	r.profiles[stored.ProfileID] = stored
	return stored.ProfileID, nil
}

func (r *MemoryProfilesRepository) GetProfile(_ context.Context, profileID string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[profileID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (r *MemoryProfilesRepository) GetProfileByEmail(_ context.Context, email string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if strings.EqualFold(p.Email, email) {
			copied := p
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryProfilesRepository) UpdateEmail(_ context.Context, profileID, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[profileID]
	if !ok {
		return ErrNotFound
	}
	for id, existing := range r.profiles {
		if id != profileID && strings.EqualFold(existing.Email, email) {
			return ErrDuplicateEmail
		}
	}
	p.Email = email
	r.profiles[profileID] = p
	return nil
}

func (r *MemoryProfilesRepository) UpdatePasswordHash(_ context.Context, profileID string, hash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[profileID]
	if !ok {
		return ErrNotFound
	}
	p.PasswordHash = append([]byte(nil), hash...)
	r.profiles[profileID] = p
	return nil
}
