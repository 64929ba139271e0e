package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"twitch-giveaway-backend/internal/features/settings/models"
	"twitch-giveaway-backend/internal/features/settings/repository"
)

const (
	keyProfile = "broadcaster:%s:profile"
	maxRetries = 3
)

type redisRepository struct {
	client *redis.Client
}

func NewRedisProfileRepository(client *redis.Client) repository.ProfileRepository {
	return &redisRepository{client: client}
}

func makeProfileKey(broadcasterID string) string {
	return fmt.Sprintf(keyProfile, broadcasterID)
}

func (r *redisRepository) Get(ctx context.Context, broadcasterID string) (*models.Profile, error) {
	data, err := r.client.Get(ctx, makeProfileKey(broadcasterID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: failed to get profile: %w", repository.ErrStorage, err)
	}

	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal profile: %w", repository.ErrStorage, err)
	}
	return &profile, nil
}

func (r *redisRepository) Update(ctx context.Context, broadcasterID string, fn func(*models.Profile) error) (*models.Profile, error) {
	return r.update(ctx, broadcasterID, false, fn)
}

func (r *redisRepository) Upsert(ctx context.Context, broadcasterID string, fn func(*models.Profile) error) (*models.Profile, error) {
	return r.update(ctx, broadcasterID, true, fn)
}

// update runs fn inside WATCH/MULTI and retries when another writer got in between.
func (r *redisRepository) update(ctx context.Context, broadcasterID string, create bool, fn func(*models.Profile) error) (*models.Profile, error) {
	key := makeProfileKey(broadcasterID)
	var (
		result *models.Profile
		fnErr  error
	)

	txf := func(tx *redis.Tx) error {
		profile := &models.Profile{BroadcasterID: broadcasterID}

		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if !create {
				return repository.ErrProfileNotFound
			}
		case err != nil:
			return err
		default:
			if err := json.Unmarshal(data, profile); err != nil {
				return fmt.Errorf("failed to unmarshal profile: %w", err)
			}
		}

		if err := fn(profile); err != nil {
			fnErr = err
			return err
		}
		profile.BroadcasterID = broadcasterID

		out, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err == nil {
			result = profile
		}
		return err
	}

	for i := 0; i < maxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if fnErr != nil || errors.Is(err, repository.ErrProfileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to update profile: %w", repository.ErrStorage, err)
	}
	return nil, repository.ErrConflict
}
