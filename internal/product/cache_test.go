package product

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kalasahayak/internal/catalog"
)

// unreachableRedis points at a closed port so every command fails fast.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15, DialTimeout: 200 * time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Skipf("Skipping test: cannot reach test redis: %v", err)
	}
	purge := func() {
		keys, _ := rdb.Keys(context.Background(), CandidatesKey+"*").Result()
		if len(keys) > 0 {
			_ = rdb.Del(context.Background(), keys...).Err()
		}
	}
	purge()
	t.Cleanup(func() {
		purge()
		_ = rdb.Close()
	})
	return rdb
}

func TestCachedRepo_FallsBackWhenRedisIsDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	inner := NewMockRepository(ctrl)
	repo := NewCachedRepo(inner, unreachableRedis(t), time.Minute, zap.NewNop())

	inner.EXPECT().Candidates(gomock.Any()).Return(SampleItems(), nil)

	got, err := repo.Candidates(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 8)
}

func TestCachedRepo_PropagatesInnerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	inner := NewMockRepository(ctrl)
	repo := NewCachedRepo(inner, unreachableRedis(t), time.Minute, zap.NewNop())

	boom := errors.New("db down")
	inner.EXPECT().Candidates(gomock.Any()).Return(nil, boom)

	_, err := repo.Candidates(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCachedRepo_UpsertSucceedsWhenInvalidationFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	inner := NewMockRepository(ctrl)
	repo := NewCachedRepo(inner, unreachableRedis(t), time.Minute, zap.NewNop())

	it := SampleItems()[0]
	inner.EXPECT().Upsert(gomock.Any(), it).Return(nil)
	assert.NoError(t, repo.Upsert(context.Background(), it))
}

func TestCachedRepo_ServesFromCacheUntilUpsert(t *testing.T) {
	rdb := setupTestRedis(t)
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	inner := NewMockRepository(ctrl)
	repo := NewCachedRepo(inner, rdb, time.Minute, zap.NewNop())

	inner.EXPECT().Candidates(gomock.Any()).Return(SampleItems(), nil).Times(2)

	first, err := repo.Candidates(ctx)
	require.NoError(t, err)
	second, err := repo.Candidates(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids(first), ids(second))
	assert.True(t, first[0].Price.Equal(second[0].Price))

	key, ok := repo.entryKey(ctx)
	require.True(t, ok)
	raw, err := rdb.Get(ctx, key).Bytes()
	require.NoError(t, err)
	assert.True(t, json.Valid(raw))

	it := SampleItems()[1]
	inner.EXPECT().Upsert(gomock.Any(), it).Return(nil)
	require.NoError(t, repo.Upsert(ctx, it))

	next, ok := repo.entryKey(ctx)
	require.True(t, ok)
	assert.NotEqual(t, key, next)
	_, err = rdb.Get(ctx, next).Bytes()
	assert.ErrorIs(t, err, redis.Nil)

	_, err = repo.Candidates(ctx)
	require.NoError(t, err)
}

func TestCachedRepo_DiscardsCorruptEntry(t *testing.T) {
	rdb := setupTestRedis(t)
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	inner := NewMockRepository(ctrl)
	repo := NewCachedRepo(inner, rdb, time.Minute, zap.NewNop())

	key, ok := repo.entryKey(ctx)
	require.True(t, ok)
	require.NoError(t, rdb.Set(ctx, key, "{not json", time.Minute).Err())

	inner.EXPECT().Candidates(gomock.Any()).Return(SampleItems(), nil)

	got, err := repo.Candidates(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 8)
}

func TestCachedRepo_WriteDuringFillDoesNotPinStaleList(t *testing.T) {
	rdb := setupTestRedis(t)
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	inner := NewMockRepository(ctrl)
	repo := NewCachedRepo(inner, rdb, time.Minute, zap.NewNop())

	stale := SampleItems()
	updated := SampleItems()
	updated[0].Title = "Renamed rug"

	inner.EXPECT().Upsert(gomock.Any(), updated[0]).Return(nil)
	gomock.InOrder(
		// The write lands after the read and before the cache fill.
		inner.EXPECT().Candidates(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]catalog.Item, error) {
			require.NoError(t, repo.Upsert(ctx, updated[0]))
			return stale, nil
		}),
		inner.EXPECT().Candidates(gomock.Any()).Return(updated, nil),
	)

	first, err := repo.Candidates(ctx)
	require.NoError(t, err)
	assert.Equal(t, stale[0].Title, first[0].Title)

	second, err := repo.Candidates(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed rug", second[0].Title)

	third, err := repo.Candidates(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed rug", third[0].Title)
}
