package usecase

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-career-coach/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-coach/internal/domain"
	"github.com/fairyhunter13/ai-career-coach/internal/interview"
)

// InterviewService drives mock interview sessions. Sessions are stateless;
// the caller resubmits the full conversation history on every turn.
type InterviewService struct {
	Engine *interview.Engine
}

// NewInterviewService constructs an InterviewService around the given engine.
func NewInterviewService(e *interview.Engine) InterviewService {
	return InterviewService{Engine: e}
}

// Start opens a session and returns the interviewer's greeting with the
// first question. Both the resume text and the target role are required.
func (s InterviewService) Start(resumeText, targetRole string) (string, error) {
	resumeText = strings.TrimSpace(resumeText)
	targetRole = strings.TrimSpace(targetRole)
	if resumeText == "" || targetRole == "" {
		return "", fmt.Errorf("%w: resume text and target role are required", domain.ErrInvalidArgument)
	}

	reply := s.Engine.Start(resumeText, targetRole)
	observability.InterviewTurnsTotal.WithLabelValues(interview.PhaseStart).Inc()
	return reply, nil
}

// Chat produces the interviewer's next utterance for the submitted history.
func (s InterviewService) Chat(resumeText, targetRole string, history []domain.ConversationTurn) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("%w: conversation history is required", domain.ErrInvalidArgument)
	}

	reply, err := s.Engine.Reply(resumeText, targetRole, history)
	if err != nil {
		return "", err
	}
	observability.InterviewTurnsTotal.WithLabelValues(interview.Phase(len(history))).Inc()
	return reply, nil
}
