package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-career-coach/internal/adapter/cache"
	"github.com/fairyhunter13/ai-career-coach/internal/domain"
)

func newTestCache(t *testing.T) (*cache.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedis_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	_, ok := c.Get(ctx, "some resume text")
	assert.False(t, ok)

	want := domain.NormalizeAnalysis(domain.AnalysisResult{
		RoleAnalysis: []domain.RoleMatch{{RoleTitle: "Backend Developer", MatchPercentage: 72}},
	})
	c.Set(ctx, "some resume text", want)

	got, ok := c.Get(ctx, "some resume text")
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, ok = c.Get(ctx, "different resume text")
	assert.False(t, ok)
}

func TestRedis_EntryExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	c.Set(ctx, "text", domain.AnalysisResult{})
	mr.FastForward(2 * time.Hour)

	_, ok := c.Get(ctx, "text")
	assert.False(t, ok)
}

func TestRedis_BackendDownIsAMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	mr.Close()
	c.Set(ctx, "text", domain.AnalysisResult{})
	_, ok := c.Get(ctx, "text")
	assert.False(t, ok)
}
