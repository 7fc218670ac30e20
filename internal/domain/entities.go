// Package domain holds the core entities, ports, and error taxonomy for the
// career coach service. It has no dependencies on adapters or transports.
package domain

import (
	"context"
	"errors"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrNotFound          = errors.New("not found")
	ErrExternalService   = errors.New("external analysis unavailable")
	ErrExtractionTimeout = errors.New("document extraction timed out")
	ErrInvalidSequence   = errors.New("invalid conversation sequence")
	ErrInternal          = errors.New("internal error")
)

// Suggestion types recognized in analysis output. Anything else is folded to
// SuggestionResource during normalization.
const (
	SuggestionCourse        = "course"
	SuggestionBook          = "book"
	SuggestionCertification = "certification"
	SuggestionProject       = "project"
	SuggestionResource      = "resource"
)

// Action plan priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Language proficiencies.
const (
	ProficiencyBasic        = "basic"
	ProficiencyIntermediate = "intermediate"
	ProficiencyAdvanced     = "advanced"
	ProficiencyNative       = "native"
)

// Suggestion is one improvement resource attached to a skill gap.
type Suggestion struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Platform string `json:"platform"`
	Link     string `json:"link"`
}

// SkillGap is a missing competency for a role, with up to 3 suggestions.
type SkillGap struct {
	Gap         string       `json:"gap"`
	Suggestions []Suggestion `json:"suggestions"`
}

// RoleMatch pairs a candidate job title with a 0-100 fit score.
type RoleMatch struct {
	RoleTitle       string     `json:"roleTitle"`
	MatchPercentage int        `json:"matchPercentage"`
	Justification   string     `json:"justification"`
	SkillGaps       []SkillGap `json:"skillGaps"`
}

// TechnicalSkill carries a 1-5 level and a 1-5 relevance rating.
type TechnicalSkill struct {
	Name      string `json:"name"`
	Level     int    `json:"level"`
	Relevance int    `json:"relevance"`
}

// SoftSkill carries a 1-5 level.
type SoftSkill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Language pairs a language with a proficiency enum.
type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// SkillAnalysis groups the skill breakdown of an analysis.
type SkillAnalysis struct {
	Technical []TechnicalSkill `json:"technical"`
	Soft      []SoftSkill      `json:"soft"`
	Languages []Language       `json:"languages"`
}

// ActionPlanWeek is one week of the improvement plan.
type ActionPlanWeek struct {
	Week     string   `json:"week"`
	Title    string   `json:"title"`
	Tasks    []string `json:"tasks"`
	Priority string   `json:"priority"`
}

// AnalysisResult is the normalized output of resume analysis.
// Invariants (enforced by Normalize): len(RoleAnalysis) <= 5, skill gaps <= 3
// with <= 3 suggestions each, technical <= 10, soft <= 5, languages <= 5,
// action plan <= 4 weeks with <= 3 tasks each, pro tips <= 3, every numeric
// field clamped to its declared range, every enum folded to a recognized case.
type AnalysisResult struct {
	RoleAnalysis  []RoleMatch      `json:"roleAnalysis"`
	SkillAnalysis SkillAnalysis    `json:"skillAnalysis"`
	ActionPlan    []ActionPlanWeek `json:"actionPlan"`
	ProTips       []string         `json:"proTips"`
}

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one utterance of the interview dialogue. The full
// history travels on every call; no server-held session exists.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Profile is the stored job-seeker profile used as a fallback text source.
type Profile struct {
	UserID           string
	FullName         string
	Headline         string
	Bio              string
	Skills           []string
	ParsedResumeText string
	ResumePath       string
}

// ProfileRepository loads stored profiles and verifies user identities.
type ProfileRepository interface {
	GetByUser(ctx Context, userID string) (Profile, error)
	UserExists(ctx Context, userID string) (bool, error)
}

// TextExtractor extracts plain text from a stored document.
// Implementations must honor context cancellation; extraction of a stored
// resume is bounded by a caller-side timeout.
type TextExtractor interface {
	ExtractPath(ctx Context, path string) (string, error)
}

// AnalysisClient invokes the external generative model. It fails with
// ErrExternalService when no credential is configured, the remote call
// errors, or the response cannot be decoded.
type AnalysisClient interface {
	Analyze(ctx Context, resumeText string) (AnalysisResult, error)
}

// FallbackAnalyzer is the deterministic local substitute for AnalysisClient.
// It is pure and total: it never fails and performs no external calls.
type FallbackAnalyzer interface {
	Analyze(resumeText string) AnalysisResult
}

// FeatureExtractor derives skill and experience signals from raw resume text.
// All methods are pure; absence yields empty or zero results.
type FeatureExtractor interface {
	// Skills returns vocabulary terms present in text, in vocabulary order.
	Skills(text string) []string
	// ProjectMentions returns up to 3 sentences mentioning project keywords.
	ProjectMentions(text string) []string
	// ExperienceYears returns the largest "N years" figure found, or 0.
	ExperienceYears(text string) int
}

// AnalysisCache stores normalized results keyed by resolved resume text.
// Lookups and stores are best-effort; implementations absorb backend errors.
type AnalysisCache interface {
	Get(ctx Context, text string) (AnalysisResult, bool)
	Set(ctx Context, text string, res AnalysisResult)
}

// Context is an alias so domain signatures stay free of direct std imports
// elsewhere; adapters and usecases pass context.Context through.
type Context = context.Context
