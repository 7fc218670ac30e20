package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Limits applied during normalization.
const (
	maxRoles       = 5
	maxSkillGaps   = 3
	maxSuggestions = 3
	maxTechnical   = 10
	maxSoft        = 5
	maxLanguages   = 5
	maxPlanWeeks   = 4
	maxTasks       = 3
	maxProTips     = 3
)

// Placeholder strings used when a field is absent or empty after trimming.
const (
	placeholderRole          = "Unspecified Role"
	placeholderJustification = "No justification provided"
	placeholderGap           = "Unspecified skill gap"
	placeholderSuggestion    = "Unspecified resource"
	placeholderPlatform      = "Various platforms"
	placeholderSkillName     = "Skill"
	placeholderLanguageName  = "Language"
	placeholderWeek          = "Week X"
	placeholderWeekTitle     = "Weekly Goal"
)

var suggestionTypes = map[string]bool{
	SuggestionCourse:        true,
	SuggestionBook:          true,
	SuggestionCertification: true,
	SuggestionProject:       true,
	SuggestionResource:      true,
}

var proficiencies = map[string]bool{
	ProficiencyBasic:        true,
	ProficiencyIntermediate: true,
	ProficiencyAdvanced:     true,
	ProficiencyNative:       true,
}

var priorities = map[string]bool{
	PriorityHigh:   true,
	PriorityMedium: true,
	PriorityLow:    true,
}

// flexNumber decodes a JSON number that generative models sometimes emit as a
// quoted string. Non-numeric values are treated as absent rather than fatal.
type flexNumber struct {
	val float64
	ok  bool
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	n.val = f
	n.ok = true
	return nil
}

// Raw envelope mirroring the prompt contract, tolerant of loose numerics.

type rawSuggestion struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Platform string `json:"platform"`
	Link     string `json:"link"`
}

type rawSkillGap struct {
	Gap         string          `json:"gap"`
	Suggestions []rawSuggestion `json:"suggestions"`
}

type rawRole struct {
	RoleTitle       string        `json:"roleTitle"`
	MatchPercentage flexNumber    `json:"matchPercentage"`
	Justification   string        `json:"justification"`
	SkillGaps       []rawSkillGap `json:"skillGaps"`
}

type rawRatedSkill struct {
	Name      string     `json:"name"`
	Level     flexNumber `json:"level"`
	Relevance flexNumber `json:"relevance"`
}

type rawLanguage struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

type rawSkillAnalysis struct {
	Technical []rawRatedSkill `json:"technical"`
	Soft      []rawRatedSkill `json:"soft"`
	Languages []rawLanguage   `json:"languages"`
}

type rawPlanWeek struct {
	Week     string   `json:"week"`
	Title    string   `json:"title"`
	Tasks    []string `json:"tasks"`
	Priority string   `json:"priority"`
}

type rawAnalysis struct {
	RoleAnalysis  []rawRole        `json:"roleAnalysis"`
	SkillAnalysis rawSkillAnalysis `json:"skillAnalysis"`
	ActionPlan    []rawPlanWeek    `json:"actionPlan"`
	ProTips       []string         `json:"proTips"`
}

// DecodeAnalysis parses a model response body (already stripped of code
// fences) into a normalized AnalysisResult.
func DecodeAnalysis(data []byte) (AnalysisResult, error) {
	var raw rawAnalysis
	if err := json.Unmarshal(data, &raw); err != nil {
		return AnalysisResult{}, fmt.Errorf("decode analysis: %w", err)
	}
	res := AnalysisResult{
		SkillAnalysis: SkillAnalysis{
			Technical: make([]TechnicalSkill, 0, len(raw.SkillAnalysis.Technical)),
			Soft:      make([]SoftSkill, 0, len(raw.SkillAnalysis.Soft)),
			Languages: make([]Language, 0, len(raw.SkillAnalysis.Languages)),
		},
		ProTips: raw.ProTips,
	}
	for _, r := range raw.RoleAnalysis {
		role := RoleMatch{
			RoleTitle:       r.RoleTitle,
			MatchPercentage: int(math.Round(r.MatchPercentage.val)),
			Justification:   r.Justification,
		}
		for _, g := range r.SkillGaps {
			gap := SkillGap{Gap: g.Gap}
			for _, sg := range g.Suggestions {
				gap.Suggestions = append(gap.Suggestions, Suggestion(sg))
			}
			role.SkillGaps = append(role.SkillGaps, gap)
		}
		res.RoleAnalysis = append(res.RoleAnalysis, role)
	}
	for _, t := range raw.SkillAnalysis.Technical {
		res.SkillAnalysis.Technical = append(res.SkillAnalysis.Technical, TechnicalSkill{
			Name:      t.Name,
			Level:     roundedOrDefault(t.Level, 3),
			Relevance: roundedOrDefault(t.Relevance, 3),
		})
	}
	for _, s := range raw.SkillAnalysis.Soft {
		res.SkillAnalysis.Soft = append(res.SkillAnalysis.Soft, SoftSkill{
			Name:  s.Name,
			Level: roundedOrDefault(s.Level, 3),
		})
	}
	for _, l := range raw.SkillAnalysis.Languages {
		res.SkillAnalysis.Languages = append(res.SkillAnalysis.Languages, Language(l))
	}
	for _, w := range raw.ActionPlan {
		res.ActionPlan = append(res.ActionPlan, ActionPlanWeek(w))
	}
	return NormalizeAnalysis(res), nil
}

// roundedOrDefault mirrors the reference behavior where an absent or zero
// rating falls back to the midpoint before clamping.
func roundedOrDefault(n flexNumber, def int) int {
	if !n.ok || n.val == 0 {
		return def
	}
	return int(math.Round(n.val))
}

// NormalizeAnalysis applies the strict output normalization pass shared by
// the external and heuristic analysis paths: length caps, range clamps,
// placeholder defaults, and enum case-folding. A result already within all
// declared ranges passes through unchanged except for enum folding.
func NormalizeAnalysis(in AnalysisResult) AnalysisResult {
	out := AnalysisResult{}

	roles := in.RoleAnalysis
	if len(roles) > maxRoles {
		roles = roles[:maxRoles]
	}
	out.RoleAnalysis = make([]RoleMatch, 0, len(roles))
	for _, r := range roles {
		out.RoleAnalysis = append(out.RoleAnalysis, normalizeRole(r))
	}

	tech := in.SkillAnalysis.Technical
	if len(tech) > maxTechnical {
		tech = tech[:maxTechnical]
	}
	out.SkillAnalysis.Technical = make([]TechnicalSkill, 0, len(tech))
	for _, t := range tech {
		out.SkillAnalysis.Technical = append(out.SkillAnalysis.Technical, TechnicalSkill{
			Name:      defaultStr(t.Name, placeholderSkillName),
			Level:     clampRating(t.Level),
			Relevance: clampRating(t.Relevance),
		})
	}

	soft := in.SkillAnalysis.Soft
	if len(soft) > maxSoft {
		soft = soft[:maxSoft]
	}
	out.SkillAnalysis.Soft = make([]SoftSkill, 0, len(soft))
	for _, s := range soft {
		out.SkillAnalysis.Soft = append(out.SkillAnalysis.Soft, SoftSkill{
			Name:  defaultStr(s.Name, placeholderSkillName),
			Level: clampRating(s.Level),
		})
	}

	langs := in.SkillAnalysis.Languages
	if len(langs) > maxLanguages {
		langs = langs[:maxLanguages]
	}
	out.SkillAnalysis.Languages = make([]Language, 0, len(langs))
	for _, l := range langs {
		prof := strings.ToLower(strings.TrimSpace(l.Proficiency))
		if !proficiencies[prof] {
			prof = ProficiencyBasic
		}
		out.SkillAnalysis.Languages = append(out.SkillAnalysis.Languages, Language{
			Name:        defaultStr(l.Name, placeholderLanguageName),
			Proficiency: prof,
		})
	}

	plan := in.ActionPlan
	if len(plan) > maxPlanWeeks {
		plan = plan[:maxPlanWeeks]
	}
	out.ActionPlan = make([]ActionPlanWeek, 0, len(plan))
	for _, w := range plan {
		out.ActionPlan = append(out.ActionPlan, normalizeWeek(w))
	}
	if len(out.ActionPlan) == 0 {
		out.ActionPlan = DefaultActionPlan()
	}

	out.ProTips = trimNonEmpty(in.ProTips, maxProTips)
	if len(out.ProTips) == 0 {
		out.ProTips = DefaultProTips()
	}
	return out
}

func normalizeRole(r RoleMatch) RoleMatch {
	gaps := r.SkillGaps
	if len(gaps) > maxSkillGaps {
		gaps = gaps[:maxSkillGaps]
	}
	norm := RoleMatch{
		RoleTitle:       defaultStr(r.RoleTitle, placeholderRole),
		MatchPercentage: clampInt(r.MatchPercentage, 0, 100),
		Justification:   defaultStr(r.Justification, placeholderJustification),
		SkillGaps:       make([]SkillGap, 0, len(gaps)),
	}
	for _, g := range gaps {
		sugg := g.Suggestions
		if len(sugg) > maxSuggestions {
			sugg = sugg[:maxSuggestions]
		}
		gap := SkillGap{
			Gap:         defaultStr(g.Gap, placeholderGap),
			Suggestions: make([]Suggestion, 0, len(sugg)),
		}
		for _, s := range sugg {
			typ := strings.ToLower(strings.TrimSpace(s.Type))
			if !suggestionTypes[typ] {
				typ = SuggestionResource
			}
			gap.Suggestions = append(gap.Suggestions, Suggestion{
				Type:     typ,
				Title:    defaultStr(s.Title, placeholderSuggestion),
				Platform: defaultStr(s.Platform, placeholderPlatform),
				Link:     strings.TrimSpace(s.Link),
			})
		}
		norm.SkillGaps = append(norm.SkillGaps, gap)
	}
	return norm
}

func normalizeWeek(w ActionPlanWeek) ActionPlanWeek {
	prio := strings.ToLower(strings.TrimSpace(w.Priority))
	if !priorities[prio] {
		prio = PriorityMedium
	}
	return ActionPlanWeek{
		Week:     defaultStr(w.Week, placeholderWeek),
		Title:    defaultStr(w.Title, placeholderWeekTitle),
		Tasks:    trimNonEmpty(w.Tasks, maxTasks),
		Priority: prio,
	}
}

// DefaultActionPlan is the fixed 4-week plan substituted when normalization
// yields zero weeks.
func DefaultActionPlan() []ActionPlanWeek {
	return []ActionPlanWeek{
		{
			Week:  "Week 1",
			Title: "Skill Assessment & Learning Plan",
			Tasks: []string{
				"Identify top 3 skills to improve",
				"Set up development environment",
				"Complete first learning module",
			},
			Priority: PriorityHigh,
		},
		{
			Week:  "Week 2",
			Title: "Hands-on Practice",
			Tasks: []string{
				"Work on a small project",
				"Solve coding challenges",
				"Review documentation",
			},
			Priority: PriorityHigh,
		},
		{
			Week:  "Week 3",
			Title: "Project Work",
			Tasks: []string{
				"Start a portfolio project",
				"Implement new skills",
				"Write unit tests",
			},
			Priority: PriorityMedium,
		},
		{
			Week:  "Week 4",
			Title: "Polish & Apply",
			Tasks: []string{
				"Complete portfolio project",
				"Update resume with new skills",
				"Apply to 5 relevant jobs",
			},
			Priority: PriorityHigh,
		},
	}
}

// DefaultProTips is the fixed tip set substituted when normalization yields
// no usable tips.
func DefaultProTips() []string {
	return []string{
		"Regularly update your resume with new skills and projects.",
		"Consider getting certifications in your field to stand out.",
		"Network with professionals in your desired industry.",
	}
}

func defaultStr(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

// trimNonEmpty truncates first, then drops blank entries, matching the
// reference order of operations.
func trimNonEmpty(in []string, limit int) []string {
	if len(in) > limit {
		in = in[:limit]
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampRating folds a 1-5 rating into range, defaulting zero to the midpoint.
func clampRating(v int) int {
	if v == 0 {
		return 3
	}
	return clampInt(v, 1, 5)
}
