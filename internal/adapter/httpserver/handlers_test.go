package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-career-coach/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-career-coach/internal/config"
	"github.com/fairyhunter13/ai-career-coach/internal/domain"
	"github.com/fairyhunter13/ai-career-coach/internal/features"
	"github.com/fairyhunter13/ai-career-coach/internal/heuristic"
	"github.com/fairyhunter13/ai-career-coach/internal/interview"
	"github.com/fairyhunter13/ai-career-coach/internal/usecase"
)

const testSecret = "test-secret"

var testUserID = uuid.NewString()

type stubProfiles struct {
	exists bool
}

func (s stubProfiles) GetByUser(_ domain.Context, _ string) (domain.Profile, error) {
	return domain.Profile{}, domain.ErrNotFound
}

func (s stubProfiles) UserExists(_ domain.Context, _ string) (bool, error) {
	return s.exists, nil
}

func signToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newTestServer(profiles domain.ProfileRepository) *httpserver.Server {
	cfg := config.Config{JWTSecret: testSecret}
	analyze := usecase.NewAnalyzeService(profiles, nil, nil, heuristic.New(), nil, time.Second)
	interviewSvc := usecase.NewInterviewService(interview.New(features.New()))
	return httpserver.NewServer(cfg, analyze, interviewSvc, nil, nil)
}

func authedHandler(s *httpserver.Server, profiles domain.ProfileRepository, h http.HandlerFunc) http.Handler {
	return httpserver.AuthMiddleware(s.Cfg.JWTSecret, profiles)(h)
}

func doJSON(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeHandler_Success(t *testing.T) {
	t.Parallel()
	profiles := stubProfiles{exists: true}
	s := newTestServer(profiles)
	h := authedHandler(s, profiles, s.AnalyzeHandler())

	body := `{"resumeText":"Frontend developer skilled in react, javascript, html, and css layouts"}`
	rec := doJSON(t, h, http.MethodPost, "/v1/resume/analyze", signToken(t, testUserID), body)

	require.Equal(t, http.StatusOK, rec.Code)
	var res domain.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.RoleAnalysis)
	assert.Equal(t, "Frontend Developer", res.RoleAnalysis[0].RoleTitle)
	assert.Len(t, res.ActionPlan, 4)
}

func TestAnalyzeHandler_EmptyBodyStillAnalyzes(t *testing.T) {
	t.Parallel()
	profiles := stubProfiles{exists: true}
	s := newTestServer(profiles)
	h := authedHandler(s, profiles, s.AnalyzeHandler())

	rec := doJSON(t, h, http.MethodPost, "/v1/resume/analyze", signToken(t, testUserID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res domain.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Empty(t, res.RoleAnalysis)
	assert.NotEmpty(t, res.ProTips)
}

func TestAnalyzeHandler_MissingToken(t *testing.T) {
	t.Parallel()
	profiles := stubProfiles{exists: true}
	s := newTestServer(profiles)
	h := authedHandler(s, profiles, s.AnalyzeHandler())

	rec := doJSON(t, h, http.MethodPost, "/v1/resume/analyze", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHENTICATED")
}

func TestAnalyzeHandler_BadToken(t *testing.T) {
	t.Parallel()
	profiles := stubProfiles{exists: true}
	s := newTestServer(profiles)
	h := authedHandler(s, profiles, s.AnalyzeHandler())

	rec := doJSON(t, h, http.MethodPost, "/v1/resume/analyze", "not-a-token", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnalyzeHandler_UnknownUser(t *testing.T) {
	t.Parallel()
	profiles := stubProfiles{exists: false}
	s := newTestServer(profiles)
	h := authedHandler(s, profiles, s.AnalyzeHandler())

	rec := doJSON(t, h, http.MethodPost, "/v1/resume/analyze", signToken(t, testUserID), `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestAnalyzeHandler_MalformedJSON(t *testing.T) {
	t.Parallel()
	profiles := stubProfiles{exists: true}
	s := newTestServer(profiles)
	h := authedHandler(s, profiles, s.AnalyzeHandler())

	rec := doJSON(t, h, http.MethodPost, "/v1/resume/analyze", signToken(t, testUserID), `{"resumeText":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")
}

func TestInterviewStartHandler_Success(t *testing.T) {
	t.Parallel()
	s := newTestServer(stubProfiles{exists: true})

	body := `{"resumeText":"5 years of experience with React","targetRole":"Frontend Developer"}`
	rec := doJSON(t, s.InterviewStartHandler(), http.MethodPost, "/v1/interview/start", "", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Contains(t, res.Message, "AVA")
	assert.Contains(t, res.Message, "Frontend Developer")
}

func TestInterviewStartHandler_MissingFields(t *testing.T) {
	t.Parallel()
	s := newTestServer(stubProfiles{exists: true})

	rec := doJSON(t, s.InterviewStartHandler(), http.MethodPost, "/v1/interview/start", "",
		`{"resumeText":"text only"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "required")
}

func TestInterviewChatHandler_Success(t *testing.T) {
	t.Parallel()
	s := newTestServer(stubProfiles{exists: true})

	body := `{
		"resumeText": "resume",
		"targetRole": "Backend Developer",
		"conversationHistory": [{"role":"user","content":"I built a rest api endpoint."}]
	}`
	rec := doJSON(t, s.InterviewChatHandler(), http.MethodPost, "/v1/interview/chat", "", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Contains(t, res.Message, "API")
}

func TestInterviewChatHandler_EmptyHistory(t *testing.T) {
	t.Parallel()
	s := newTestServer(stubProfiles{exists: true})

	rec := doJSON(t, s.InterviewChatHandler(), http.MethodPost, "/v1/interview/chat", "",
		`{"resumeText":"r","targetRole":"x","conversationHistory":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInterviewChatHandler_AssistantLastTurn(t *testing.T) {
	t.Parallel()
	s := newTestServer(stubProfiles{exists: true})

	body := `{
		"resumeText": "r",
		"targetRole": "x",
		"conversationHistory": [{"role":"assistant","content":"question?"}]
	}`
	rec := doJSON(t, s.InterviewChatHandler(), http.MethodPost, "/v1/interview/chat", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "user")
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	s := newTestServer(stubProfiles{exists: true})
	rec := doJSON(t, s.HealthzHandler(), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz_ReportsFailures(t *testing.T) {
	t.Parallel()
	s := newTestServer(stubProfiles{exists: true})
	s.DBCheck = func(context.Context) error { return nil }
	s.RedisCheck = func(context.Context) error { return assert.AnError }

	rec := doJSON(t, s.ReadyzHandler(), http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready":false`)
}
