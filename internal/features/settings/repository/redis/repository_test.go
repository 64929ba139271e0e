package redis

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"twitch-giveaway-backend/internal/features/settings/models"
	"twitch-giveaway-backend/internal/features/settings/repository"
)

var (
	testRedisURL string
	containerErr error
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		containerErr = err
		fmt.Fprintf(os.Stderr, "redis container unavailable, integration tests will skip: %v\n", err)
		os.Exit(m.Run())
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get redis endpoint: %v\n", err)
		_ = container.Terminate(ctx)
		os.Exit(1)
	}
	testRedisURL = "redis://" + endpoint

	code := m.Run()

	_ = container.Terminate(ctx)
	os.Exit(code)
}

func setupRepository(t *testing.T) repository.ProfileRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if containerErr != nil {
		t.Skipf("redis container unavailable: %v", containerErr)
	}

	opts, err := redis.ParseURL(testRedisURL)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	require.NoError(t, client.FlushAll(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisProfileRepository(client)
}

func TestGet_NotFound(t *testing.T) {
	repo := setupRepository(t)

	_, err := repo.Get(context.Background(), "42")
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)
}

func seed(t *testing.T, repo repository.ProfileRepository, p models.Profile) {
	t.Helper()
	_, err := repo.Upsert(context.Background(), p.BroadcasterID, func(stored *models.Profile) error {
		*stored = p
		return nil
	})
	require.NoError(t, err)
}

func TestUpsertAndGet(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	active := "g1"

	seed(t, repo, models.Profile{
		BroadcasterID:    "42",
		BroadcasterName:  "Streamer",
		Weights:          models.Weights{"t3": 5},
		IsLooping:        true,
		CurrentCommand:   "!join",
		ActiveGiveawayID: &active,
	})

	got, err := repo.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Streamer", got.BroadcasterName)
	assert.Equal(t, 5, got.Weights["t3"])
	assert.True(t, got.IsLooping)
	assert.Equal(t, "g1", got.ActiveID())
}

func TestUpdate_MissingProfile(t *testing.T) {
	repo := setupRepository(t)

	_, err := repo.Update(context.Background(), "42", func(p *models.Profile) error { return nil })
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)
}

func TestUpsert_CreatesAndUpdates(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	p, err := repo.Upsert(ctx, "42", func(p *models.Profile) error {
		p.CurrentPrize = "Key"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "42", p.BroadcasterID)

	_, err = repo.Update(ctx, "42", func(p *models.Profile) error {
		p.ActiveGiveawayID = nil
		p.IsLooping = true
		return nil
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Key", got.CurrentPrize)
	assert.True(t, got.IsLooping)
	assert.Nil(t, got.ActiveGiveawayID)
}

func TestUpdate_FnErrorAborts(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	seed(t, repo, models.Profile{BroadcasterID: "42", CurrentPrize: "Key"})

	boom := errors.New("boom")
	_, err := repo.Update(ctx, "42", func(p *models.Profile) error {
		p.CurrentPrize = "changed"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Key", got.CurrentPrize)
}

func TestUpdate_ConcurrentWriters(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	seed(t, repo, models.Profile{BroadcasterID: "42"})

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, "42", func(p *models.Profile) error {
				p.CurrentDuration++
				return nil
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := repo.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, succeeded, got.CurrentDuration)
}

func TestStorageFailuresWrapErrStorage(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	repo := NewRedisProfileRepository(client)
	ctx := context.Background()

	_, err := repo.Get(ctx, "42")
	assert.ErrorIs(t, err, repository.ErrStorage)

	_, err = repo.Upsert(ctx, "42", func(p *models.Profile) error { return nil })
	assert.ErrorIs(t, err, repository.ErrStorage)
	assert.NotErrorIs(t, err, repository.ErrProfileNotFound)
}

func TestUpdate_FnErrorIsNotStorageFailure(t *testing.T) {
	repo := setupRepository(t)
	seed(t, repo, models.Profile{BroadcasterID: "42"})

	boom := errors.New("boom")
	_, err := repo.Update(context.Background(), "42", func(p *models.Profile) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, repository.ErrStorage)
}
