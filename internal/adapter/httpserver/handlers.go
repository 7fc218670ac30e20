package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/ai-career-coach/internal/config"
	"github.com/fairyhunter13/ai-career-coach/internal/domain"
	"github.com/fairyhunter13/ai-career-coach/internal/usecase"
)

// maxBodyBytes bounds JSON request bodies; resume text dominates and is
// truncated to the model input budget downstream anyway.
const maxBodyBytes = 1 << 20

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Analyze    usecase.AnalyzeService
	Interview  usecase.InterviewService
	DBCheck    func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, analyze usecase.AnalyzeService, interview usecase.InterviewService, dbCheck, redisCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Analyze: analyze, Interview: interview, DBCheck: dbCheck, RedisCheck: redisCheck}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

func decodeBody(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body", domain.ErrInvalidArgument)
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body", domain.ErrInvalidArgument)
	}
	return nil
}

type analyzeRequest struct {
	ResumeText string `json:"resumeText" validate:"omitempty,max=200000"`
}

// AnalyzeHandler runs the resume analysis pipeline for the authenticated
// user and returns the normalized analysis document.
func (s *Server) AnalyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFrom(r)
		if !ok {
			writeError(w, r, fmt.Errorf("%w: missing identity", domain.ErrUnauthenticated), nil)
			return
		}

		var req analyzeRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		if err := getValidator().Struct(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		res, err := s.Analyze.Analyze(r.Context(), userID, req.ResumeText)
		if err != nil {
			LoggerFrom(r).Error("analysis failed", "error", err)
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

type interviewStartRequest struct {
	ResumeText string `json:"resumeText" validate:"required,max=200000"`
	TargetRole string `json:"targetRole" validate:"required,max=200"`
}

type interviewChatRequest struct {
	ResumeText          string                    `json:"resumeText" validate:"max=200000"`
	TargetRole          string                    `json:"targetRole" validate:"max=200"`
	ConversationHistory []domain.ConversationTurn `json:"conversationHistory" validate:"required,min=1,max=200"`
}

type interviewResponse struct {
	Message string `json:"message"`
}

// InterviewStartHandler opens a mock interview session.
func (s *Server) InterviewStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req interviewStartRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		if err := getValidator().Struct(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: resume text and target role are required", domain.ErrInvalidArgument), nil)
			return
		}

		msg, err := s.Interview.Start(req.ResumeText, req.TargetRole)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, interviewResponse{Message: msg})
	}
}

// InterviewChatHandler produces the interviewer's next utterance for the
// resubmitted conversation history.
func (s *Server) InterviewChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req interviewChatRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		if err := getValidator().Struct(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: conversation history is required", domain.ErrInvalidArgument), nil)
			return
		}

		msg, err := s.Interview.Chat(req.ResumeText, req.TargetRole, req.ConversationHistory)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, interviewResponse{Message: msg})
	}
}

// HealthzHandler reports process liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler reports dependency readiness.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 2)
		if s.DBCheck != nil {
			if err := s.DBCheck(ctx); err != nil {
				checks = append(checks, check{Name: "db", Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "db", OK: true})
			}
		}
		if s.RedisCheck != nil {
			if err := s.RedisCheck(ctx); err != nil {
				checks = append(checks, check{Name: "redis", Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "redis", OK: true})
			}
		}
		ok := true
		for _, c := range checks {
			if !c.OK {
				ok = false
				break
			}
		}
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]interface{}{"ready": ok, "checks": checks})
	}
}
