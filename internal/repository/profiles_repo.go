package repository

import (
	"context"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

// ProfilesRepository covers sign-up, credential lookup and account updates.
type ProfilesRepository interface {
	CreateProfile(ctx context.Context, p *domain.Profile) (string, error)
	GetProfile(ctx context.Context, profileID string) (*domain.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*domain.Profile, error)
	UpdateEmail(ctx context.Context, profileID, email string) error
	UpdatePasswordHash(ctx context.Context, profileID string, hash []byte) error
}
