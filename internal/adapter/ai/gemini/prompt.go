package gemini

import (
	"fmt"

	"github.com/fairyhunter13/ai-career-coach/pkg/textx"
)

// maxPromptResumeLen caps the resume portion of the prompt to keep the
// request inside the model's input budget.
const maxPromptResumeLen = 15000

const analysisPromptTemplate = `You are an expert career coach and resume analyst. Analyze the following resume text and provide a comprehensive analysis in the specified JSON format.

RESPONSE FORMAT (JSON ONLY):
{
  "roleAnalysis": [{
    "roleTitle": "string",
    "matchPercentage": 0-100,
    "justification": "string",
    "skillGaps": [{
      "gap": "string",
      "suggestions": [{
        "title": "string",
        "type": "course|book|certification|project",
        "platform": "string",
        "link": "string"
      }]
    }]
  }],
  "skillAnalysis": {
    "technical": [{"name": "string", "level": 1-5, "relevance": 1-5}],
    "soft": [{"name": "string", "level": 1-5, "relevance": 1-5}],
    "languages": [{"name": "string", "proficiency": "basic|intermediate|advanced|native"}]
  },
  "actionPlan": [{
    "week": "string",
    "title": "string",
    "tasks": ["string"],
    "priority": "high|medium|low"
  }],
  "proTips": ["string"]
}

RULES:
1. Be specific and actionable in your analysis
2. Provide concrete suggestions with resources when possible
3. Focus on the most relevant skills and roles
4. Keep justifications concise but informative
5. For skill levels: 1=Beginner, 3=Intermediate, 5=Expert

RESUME TO ANALYZE:
%s`

// buildAnalysisPrompt renders the analysis prompt with the resume text
// truncated to the input budget.
func buildAnalysisPrompt(resumeText string) string {
	return fmt.Sprintf(analysisPromptTemplate, textx.Truncate(resumeText, maxPromptResumeLen))
}
