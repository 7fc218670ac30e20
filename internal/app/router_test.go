package app_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-career-coach/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-career-coach/internal/app"
	"github.com/fairyhunter13/ai-career-coach/internal/config"
	"github.com/fairyhunter13/ai-career-coach/internal/domain"
	"github.com/fairyhunter13/ai-career-coach/internal/features"
	"github.com/fairyhunter13/ai-career-coach/internal/heuristic"
	"github.com/fairyhunter13/ai-career-coach/internal/interview"
	"github.com/fairyhunter13/ai-career-coach/internal/usecase"
)

type stubProfiles struct{}

func (stubProfiles) GetByUser(_ domain.Context, _ string) (domain.Profile, error) {
	return domain.Profile{}, domain.ErrNotFound
}

func (stubProfiles) UserExists(_ domain.Context, _ string) (bool, error) { return true, nil }

func buildTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Config{
		JWTSecret:       "secret",
		RateLimitPerMin: 100,
		RequestTimeout:  5 * time.Second,
	}
	profiles := stubProfiles{}
	analyze := usecase.NewAnalyzeService(profiles, nil, nil, heuristic.New(), nil, time.Second)
	interviewSvc := usecase.NewInterviewService(interview.New(features.New()))
	srv := httpserver.NewServer(cfg, analyze, interviewSvc, nil, nil)
	return app.BuildRouter(cfg, srv, profiles)
}

func TestRouter_HealthEndpointsOpen(t *testing.T) {
	t.Parallel()
	r := buildTestRouter(t)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouter_CoachingEndpointsRequireAuth(t *testing.T) {
	t.Parallel()
	r := buildTestRouter(t)

	for _, path := range []string{"/v1/resume/analyze", "/v1/interview/start", "/v1/interview/chat"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRouter_SetsRequestIDAndSecurityHeaders(t *testing.T) {
	t.Parallel()
	r := buildTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestParseOrigins(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"*"}, app.ParseOrigins(""))
	assert.Equal(t, []string{"*"}, app.ParseOrigins("*"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		app.ParseOrigins(" https://a.example, https://b.example ,"))
}
