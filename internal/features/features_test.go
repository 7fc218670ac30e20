package features_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-career-coach/internal/features"
)

func TestSkills_VocabularyOrder(t *testing.T) {
	t.Parallel()
	e := features.New()
	// Resume mentions react before javascript, but the vocabulary order wins.
	// Substring matching means "javascript" also satisfies the "java" term.
	got := e.Skills("Built dashboards in React; solid JavaScript fundamentals")
	assert.Equal(t, []string{"javascript", "java", "react"}, got)
}

func TestSkills_CaseInsensitiveAndAbsent(t *testing.T) {
	t.Parallel()
	e := features.New()
	assert.Equal(t, []string{"python", "django"}, e.Skills("PYTHON and Django"))
	assert.Empty(t, e.Skills("I enjoy gardening"))
}

func TestSkills_EndToEndScenario(t *testing.T) {
	t.Parallel()
	e := features.New()
	text := "5 years of experience with React and Node.js APIs"
	got := e.Skills(text)
	assert.Contains(t, got, "react")
	assert.Contains(t, got, "node.js")
	assert.Contains(t, got, "api")
	assert.Equal(t, 5, e.ExperienceYears(text))
	assert.Empty(t, e.ProjectMentions(text))
}

func TestProjectMentions_LimitAndKeywords(t *testing.T) {
	t.Parallel()
	e := features.New()
	text := "Led a payments project. Unrelated sentence! Built a web application. " +
		"Deployed a logging system? Shipped a mobile app. Maintained a data platform."
	got := e.ProjectMentions(text)
	require.Len(t, got, 3)
	assert.Equal(t, "Led a payments project", got[0])
	assert.Equal(t, "Built a web application", got[1])
	assert.Equal(t, "Deployed a logging system", got[2])
}

func TestExperienceYears(t *testing.T) {
	t.Parallel()
	e := features.New()
	assert.Equal(t, 7, e.ExperienceYears("3 years at Acme, then 7 yrs at Globex"))
	assert.Equal(t, 2, e.ExperienceYears("2 Years of backend work"))
	assert.Equal(t, 0, e.ExperienceYears("recent graduate"))
}

func TestNewFromYAML_CustomVocabulary(t *testing.T) {
	t.Parallel()
	e, err := features.NewFromYAML([]byte("skills: [go, rust]\nproject_keywords: [service]"))
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust"}, e.Skills("rust and go"))

	_, err = features.NewFromYAML([]byte("skills: []"))
	require.Error(t, err)
}
