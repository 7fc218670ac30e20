// Package heuristic implements the local rule-based resume analyzer used
// when the external generative model is unavailable or returns unusable
// output. It is pure and total: no external calls, never fails.
//
// Skill levels and soft-skill selection are drawn from a PRNG seeded with a
// hash of the resume text, so identical input always yields identical
// output. This replaces the unseeded randomness of the original behavior to
// make results cacheable and testable.
package heuristic

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
)

type skillEntry struct {
	name     string
	keywords []string
}

var technicalSkills = []skillEntry{
	{"JavaScript", []string{"javascript", "js", "es6"}},
	{"React", []string{"react", "react.js"}},
	{"Node.js", []string{"node", "node.js", "express"}},
	{"Python", []string{"python", "django", "flask"}},
	{"Java", []string{"java", "spring", "hibernate"}},
	{"AWS", []string{"aws", "amazon web services", "s3", "lambda"}},
	{"Docker", []string{"docker", "containers"}},
	{"SQL", []string{"sql", "postgresql", "mysql"}},
	{"MongoDB", []string{"mongodb", "nosql"}},
	{"Git", []string{"git", "github", "gitlab"}},
}

var softSkills = []string{
	"Communication", "Teamwork", "Problem Solving",
	"Leadership", "Time Management", "Adaptability",
}

type roleEntry struct {
	title    string
	keywords []string
	required []string
}

var roles = []roleEntry{
	{
		title:    "Frontend Developer",
		keywords: []string{"react", "javascript", "typescript", "frontend", "web", "ui", "ux", "html", "css", "redux"},
		required: []string{"javascript", "html", "css"},
	},
	{
		title:    "Backend Developer",
		keywords: []string{"node", "python", "java", "api", "server", "database", "rest", "graphql", "microservices"},
		required: []string{"api", "database"},
	},
	{
		title:    "Full Stack Developer",
		keywords: []string{"react", "node", "javascript", "fullstack", "express", "mongodb", "sql", "frontend", "backend"},
		required: []string{"javascript", "api", "database"},
	},
	{
		title:    "DevOps Engineer",
		keywords: []string{"aws", "docker", "kubernetes", "ci/cd", "devops", "azure", "gcp", "infrastructure", "terraform"},
		required: []string{"docker", "ci/cd"},
	},
	{
		title:    "Data Scientist",
		keywords: []string{"python", "machine learning", "data analysis", "pandas", "numpy", "tensorflow", "pytorch", "data visualization"},
		required: []string{"python", "data analysis"},
	},
}

// Scoring weights: each keyword hit is worth 5, each required hit 20; the
// final percentage is score/2 clamped into [10, 90]. Roles under 30% are
// dropped.
const (
	keywordWeight  = 5
	requiredWeight = 20
	minMatch       = 10
	maxMatch       = 90
	matchCutoff    = 30
)

// Analyzer implements domain.FallbackAnalyzer.
type Analyzer struct{}

// New returns a ready Analyzer.
func New() *Analyzer { return &Analyzer{} }

// Analyze produces a full AnalysisResult from keyword rules. The output
// passes the shared normalization pass for schema parity with the external
// analysis path.
func (a *Analyzer) Analyze(resumeText string) domain.AnalysisResult {
	lower := strings.ToLower(resumeText)
	rng := rand.New(rand.NewSource(int64(seed(resumeText)))) //nolint:gosec // Deterministic output, not security.

	res := domain.AnalysisResult{
		RoleAnalysis: scoreRoles(lower),
		SkillAnalysis: domain.SkillAnalysis{
			Technical: matchTechnical(lower, rng),
			Soft:      pickSoft(rng),
			Languages: []domain.Language{
				{Name: "English", Proficiency: domain.ProficiencyNative},
				{Name: "Hindi", Proficiency: domain.ProficiencyNative},
			},
		},
		ActionPlan: domain.DefaultActionPlan(),
		ProTips: []string{
			"Focus on building projects that showcase your skills",
			"Contribute to open source to gain experience",
			"Network with professionals in your target industry",
		},
	}
	return domain.NormalizeAnalysis(res)
}

func seed(text string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	return h.Sum64()
}

func matchTechnical(lower string, rng *rand.Rand) []domain.TechnicalSkill {
	var out []domain.TechnicalSkill
	for _, sk := range technicalSkills {
		if containsAny(lower, sk.keywords) {
			out = append(out, domain.TechnicalSkill{
				Name:      sk.name,
				Level:     3 + rng.Intn(3),
				Relevance: 3 + rng.Intn(3),
			})
		}
	}
	return out
}

func pickSoft(rng *rand.Rand) []domain.SoftSkill {
	out := make([]domain.SoftSkill, 0, 4)
	for _, idx := range rng.Perm(len(softSkills))[:4] {
		out = append(out, domain.SoftSkill{Name: softSkills[idx], Level: 3 + rng.Intn(3)})
	}
	return out
}

func scoreRoles(lower string) []domain.RoleMatch {
	var out []domain.RoleMatch
	for _, role := range roles {
		keywordHits := countHits(lower, role.keywords)
		requiredHits := countHits(lower, role.required)
		score := float64(keywordHits*keywordWeight + requiredHits*requiredWeight)
		pct := math.Min(maxMatch, math.Max(minMatch, score/2))
		if pct < matchCutoff {
			continue
		}
		out = append(out, domain.RoleMatch{
			RoleTitle:       role.title,
			MatchPercentage: int(math.Round(pct)),
			Justification:   fmt.Sprintf("Your resume shows %d relevant skills for this role.", keywordHits),
			SkillGaps:       roleGaps(lower, role),
		})
	}
	// Best match first; the role table order breaks ties.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchPercentage > out[j].MatchPercentage
	})
	return out
}

// roleGaps reports required keywords as gaps only when the role's entire
// keyword group is absent from the text; a role with no detected gap gets a
// single placeholder entry.
func roleGaps(lower string, role roleEntry) []domain.SkillGap {
	if containsAny(lower, role.keywords) {
		return []domain.SkillGap{{
			Gap: "No major skill gaps identified",
			Suggestions: []domain.Suggestion{{
				Type:     "Next Step",
				Title:    "Continue building projects",
				Platform: "Personal projects or open source",
			}},
		}}
	}
	var out []domain.SkillGap
	for _, req := range role.required {
		out = append(out, domain.SkillGap{
			Gap: fmt.Sprintf("Lacking experience with %s", req),
			Suggestions: []domain.Suggestion{
				{
					Type:     "Course",
					Title:    fmt.Sprintf("Learn %s", req),
					Platform: "Pluralsight, Udemy, or Coursera",
				},
				{
					Type:     "Project",
					Title:    fmt.Sprintf("Build a project using %s", req),
					Platform: "GitHub",
				},
			},
		})
	}
	return out
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func countHits(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}
