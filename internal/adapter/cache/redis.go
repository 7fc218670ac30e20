// Package cache provides the Redis-backed analysis result cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
)

const keyPrefix = "analysis:"

// Redis caches normalized analysis results keyed by a digest of the resolved
// resume text. All operations are best-effort: backend errors are logged and
// treated as misses.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects a Redis cache from a redis:// URL.
func New(url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &Redis{client: redis.NewClient(opts), ttl: ttl}, nil
}

// NewWithClient wraps an existing client; used by tests.
func NewWithClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error { return r.client.Close() }

// Ping verifies connectivity; used by the readiness probe.
func (r *Redis) Ping(ctx domain.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get returns a cached result for the given resume text, if present.
func (r *Redis) Get(ctx domain.Context, text string) (domain.AnalysisResult, bool) {
	data, err := r.client.Get(ctx, cacheKey(text)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("analysis cache get failed", slog.Any("error", err))
		}
		return domain.AnalysisResult{}, false
	}
	var res domain.AnalysisResult
	if err := json.Unmarshal(data, &res); err != nil {
		slog.Warn("analysis cache entry corrupt; ignoring", slog.Any("error", err))
		return domain.AnalysisResult{}, false
	}
	return res, true
}

// Set stores a result under the text digest with the configured TTL.
func (r *Redis) Set(ctx domain.Context, text string, res domain.AnalysisResult) {
	data, err := json.Marshal(res)
	if err != nil {
		slog.Warn("analysis cache marshal failed", slog.Any("error", err))
		return
	}
	if err := r.client.Set(ctx, cacheKey(text), data, r.ttl).Err(); err != nil {
		slog.Warn("analysis cache set failed", slog.Any("error", err))
	}
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return keyPrefix + hex.EncodeToString(sum[:])
}
