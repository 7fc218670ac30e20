// Package interview implements the phase-based interview dialogue engine.
//
// The engine is stateless: every call receives the full conversation
// history and the phase is derived from its length alone, so retries are
// idempotent and no server-held session exists. Question selection is local
// pattern matching over the last user message plus resume features; the
// external model is never consulted.
package interview

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
)

// Phase names, selected solely by the number of turns so far.
const (
	PhaseStart = "start"
	PhaseEarly = "early"
	PhaseMid   = "mid"
	PhaseLate  = "late"
)

const greeting = "Hello! I'm AVA, your AI Virtual Advisor. I'm here to help you " +
	"practice for your %s interview. I've reviewed your resume and I'm excited " +
	"to learn more about your experience."

// trigger maps a set of case-insensitive substrings to a fixed follow-up.
// Within a phase, the first matching trigger in declared order wins.
type trigger struct {
	terms    []string
	question string
}

var earlyTriggers = []trigger{
	{
		terms: []string{"optimiz", "performance"},
		question: "That's interesting! When you mention optimization, what specific " +
			"metrics did you use to measure the improvement? And what tools or " +
			"techniques did you employ for monitoring performance?",
	},
	{
		terms: []string{"database", "sql", "mongodb"},
		question: "Great! Database work is crucial. Could you walk me through your " +
			"database design decisions? What considerations did you make regarding " +
			"scalability and data integrity?",
	},
	{
		terms: []string{"api", "rest", "endpoint"},
		question: "Excellent! API development is a key skill. How did you handle " +
			"error handling and authentication in your API? What was your approach " +
			"to API documentation?",
	},
	{
		terms: []string{"frontend", "ui", "user interface"},
		question: "That's great! User experience is so important. How did you " +
			"approach responsive design and accessibility? What was your process " +
			"for gathering user feedback?",
	},
}

var midTriggers = []trigger{
	{
		terms: []string{"team", "collaborat", "work with"},
		question: "That sounds like a great team experience! Can you tell me about " +
			"a time when you had a disagreement with a team member on a technical " +
			"decision? How did you handle it and what was the outcome?",
	},
	{
		terms: []string{"problem", "challenge", "issue"},
		question: "Problem-solving is a crucial skill. What's your typical approach " +
			"when you encounter a bug or issue you've never seen before? Walk me " +
			"through your debugging process.",
	},
	{
		terms: []string{"learn", "new", "first time"},
		question: "Learning new technologies is essential in our field. How do you " +
			"typically approach learning a new framework or technology? What " +
			"resources do you find most helpful?",
	},
}

const midDefault = "That's really insightful! Now, let me ask you a situational " +
	"question: If you were given a project with an unclear scope and tight " +
	"deadline, how would you approach it? What steps would you take to ensure success?"

var lateTriggers = []trigger{
	{
		terms: []string{"lead", "mentor", "guide"},
		question: "Leadership experience is valuable! Can you tell me about a time " +
			"when you had to mentor a junior developer? What was the most " +
			"challenging aspect and how did you help them grow?",
	},
	{
		terms: []string{"fail", "mistake", "wrong"},
		question: "It's important to learn from mistakes. What's the most " +
			"significant technical mistake you've made in your career? How did you " +
			"handle it and what did you learn from it?",
	},
}

// The achievement trigger interpolates the target role, so it lives apart
// from the fixed-text table.
var achievementTerms = []string{"success", "achieve", "proud"}

const achievementQuestion = "That's an impressive achievement! What do you think " +
	"contributed most to that success? And how do you think that experience has " +
	"prepared you for the challenges you might face in a %s role?"

var closingQuestions = []string{
	"Great conversation so far! Let me ask you about your career goals: Where do " +
		"you see yourself in 3-5 years, and how does this %s position align with " +
		"those goals?",
	"Excellent! One final question: What's your approach to staying updated with " +
		"the latest technologies and industry trends? How do you ensure you're " +
		"continuously learning and growing?",
	"That's very insightful! As we wrap up, can you tell me about a time when you " +
		"had to work with a difficult stakeholder or client? How did you manage " +
		"the relationship and ensure project success?",
}

// Engine generates interview utterances from resume features and history.
type Engine struct {
	features domain.FeatureExtractor
}

// New constructs an Engine over the given feature extractor.
func New(f domain.FeatureExtractor) *Engine { return &Engine{features: f} }

// Start returns the fixed greeting plus an opening question chosen by
// priority: first project mention, then primary skill, then years of
// experience, then a generic background question referencing the role.
func (e *Engine) Start(resumeText, targetRole string) string {
	var question string
	switch {
	case len(e.features.ProjectMentions(resumeText)) > 0:
		project := e.features.ProjectMentions(resumeText)[0]
		question = fmt.Sprintf("I see on your resume that you worked on %s. Could "+
			"you walk me through your specific contributions to that project and "+
			"what technologies you used?", project)
	case len(e.features.Skills(resumeText)) > 0:
		skill := e.features.Skills(resumeText)[0]
		question = fmt.Sprintf("I notice you have experience with %s. Could you "+
			"tell me about a specific project or challenge where you used %s and "+
			"how you approached solving it?", skill, skill)
	case e.features.ExperienceYears(resumeText) > 0:
		years := e.features.ExperienceYears(resumeText)
		question = fmt.Sprintf("You mentioned %d years of experience in your "+
			"field. Could you tell me about a significant challenge you faced in "+
			"your most recent role and how you overcame it?", years)
	default:
		question = fmt.Sprintf("I'd like to start by understanding your background "+
			"better. Could you tell me about your educational journey and what "+
			"initially drew you to %s?", targetRole)
	}
	return fmt.Sprintf(greeting, targetRole) + "\n\n" + question
}

// Phase returns the conversation phase for a history of the given length.
func Phase(turnCount int) string {
	switch {
	case turnCount == 0:
		return PhaseStart
	case turnCount <= 3:
		return PhaseEarly
	case turnCount <= 6:
		return PhaseMid
	default:
		return PhaseLate
	}
}

// Reply produces the next assistant utterance for the supplied history.
// The last turn must come from the user, else ErrInvalidSequence.
func (e *Engine) Reply(resumeText, targetRole string, history []domain.ConversationTurn) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("%w: conversation history is required", domain.ErrInvalidSequence)
	}
	last := history[len(history)-1]
	if last.Role != domain.RoleUser {
		return "", fmt.Errorf("%w: last message must be from user", domain.ErrInvalidSequence)
	}
	lower := strings.ToLower(last.Content)
	switch Phase(len(history)) {
	case PhaseEarly:
		return e.earlyReply(lower, resumeText), nil
	case PhaseMid:
		return midReply(lower), nil
	default:
		return e.lateReply(lower, resumeText, targetRole, len(history)), nil
	}
}

func (e *Engine) earlyReply(lower, resumeText string) string {
	if q, ok := firstMatch(earlyTriggers, lower); ok {
		return q
	}
	primary := "technology"
	if skills := e.features.Skills(resumeText); len(skills) > 0 {
		primary = skills[0]
	}
	return fmt.Sprintf("Thanks for sharing that! I'd like to dive deeper into your "+
		"%s experience. Can you tell me about a specific challenge you encountered "+
		"while working with %s and how you debugged or resolved it?", primary, primary)
}

func midReply(lower string) string {
	if q, ok := firstMatch(midTriggers, lower); ok {
		return q
	}
	return midDefault
}

func (e *Engine) lateReply(lower, resumeText, targetRole string, turnCount int) string {
	if q, ok := firstMatch(lateTriggers, lower); ok {
		return q
	}
	for _, term := range achievementTerms {
		if strings.Contains(lower, term) {
			return fmt.Sprintf(achievementQuestion, targetRole)
		}
	}
	// Deterministic closing pick seeded by resume text and turn count, so
	// identical requests produce identical answers.
	h := fnv.New64a()
	_, _ = h.Write([]byte(resumeText))
	idx := (h.Sum64() + uint64(turnCount)) % uint64(len(closingQuestions))
	q := closingQuestions[idx]
	if strings.Contains(q, "%s") {
		return fmt.Sprintf(q, targetRole)
	}
	return q
}

func firstMatch(triggers []trigger, lower string) (string, bool) {
	for _, tr := range triggers {
		for _, term := range tr.terms {
			if strings.Contains(lower, term) {
				return tr.question, true
			}
		}
	}
	return "", false
}
