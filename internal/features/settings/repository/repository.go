package repository

import (
	"context"
	"errors"

	"twitch-giveaway-backend/internal/features/settings/models"
)

var (
	ErrProfileNotFound = errors.New("broadcaster profile not found")
	ErrConflict        = errors.New("profile changed concurrently, retries exhausted")
	ErrStorage         = errors.New("profile storage failure")
)

// ProfileRepository stores one Profile per broadcaster. Backend failures
// wrap ErrStorage.
type ProfileRepository interface {
	Get(ctx context.Context, broadcasterID string) (*models.Profile, error)
	// Update applies fn to the stored profile atomically. Missing profiles
	// yield ErrProfileNotFound.
	Update(ctx context.Context, broadcasterID string, fn func(*models.Profile) error) (*models.Profile, error)
	// Upsert is Update that starts from an empty profile when none exists.
	Upsert(ctx context.Context, broadcasterID string, fn func(*models.Profile) error) (*models.Profile, error)
}
