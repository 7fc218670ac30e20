package gemini

import "strings"

// cleanJSONResponse strips markdown code fences the model sometimes wraps
// around its JSON, then narrows the text to the outermost JSON object.
func cleanJSONResponse(text string) string {
	s := strings.TrimSpace(text)

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	return extractObject(s)
}

// extractObject returns the first balanced {...} object in s, or s unchanged
// when no object is found.
func extractObject(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return s
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s
}
