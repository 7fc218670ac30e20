// Package features derives skill and experience signals from raw resume
// text. Matching is plain case-insensitive substring search against a fixed
// reference vocabulary; the vocabulary is data, not code, so it can be
// swapped without touching callers.
package features

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var defaultVocabulary []byte

const maxProjectMentions = 3

var yearsRe = regexp.MustCompile(`(?i)(\d+)\s*(?:years?|yrs?)`)

// sentence terminators for project-mention extraction
var sentenceRe = regexp.MustCompile(`[.!?]+`)

type vocabulary struct {
	Skills          []string `yaml:"skills"`
	ProjectKeywords []string `yaml:"project_keywords"`
}

// Extractor implements domain.FeatureExtractor over a reference vocabulary.
type Extractor struct {
	skills          []string
	projectKeywords []string
}

// New returns an Extractor backed by the embedded default vocabulary.
func New() *Extractor {
	e, err := NewFromYAML(defaultVocabulary)
	if err != nil {
		// The embedded vocabulary is validated by tests; a parse failure
		// here is a build defect.
		panic(err)
	}
	return e
}

// NewFromYAML builds an Extractor from a custom vocabulary document.
func NewFromYAML(data []byte) (*Extractor, error) {
	var v vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	if len(v.Skills) == 0 {
		return nil, fmt.Errorf("vocabulary has no skills")
	}
	return &Extractor{skills: v.Skills, projectKeywords: v.ProjectKeywords}, nil
}

// Skills returns the vocabulary terms present in text, in vocabulary order.
// The first entry is treated as the primary skill by downstream consumers.
func (e *Extractor) Skills(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, s := range e.skills {
		if strings.Contains(lower, s) {
			out = append(out, s)
		}
	}
	return out
}

// ProjectMentions splits text into sentences and returns up to 3 that
// mention a project keyword, in document order.
func (e *Extractor) ProjectMentions(text string) []string {
	var out []string
	for _, sentence := range sentenceRe.Split(text, -1) {
		lower := strings.ToLower(sentence)
		for _, kw := range e.projectKeywords {
			if strings.Contains(lower, kw) {
				out = append(out, strings.TrimSpace(sentence))
				break
			}
		}
		if len(out) == maxProjectMentions {
			break
		}
	}
	return out
}

// ExperienceYears returns the largest "N years" (or "N yrs") figure found
// in text, or 0 when none is present.
func (e *Extractor) ExperienceYears(text string) int {
	maxYears := 0
	for _, m := range yearsRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > maxYears {
			maxYears = n
		}
	}
	return maxYears
}
