package ai

import (
	"strings"

	"datatalk/config"
)

// Markers bounding the model's intermediate deliberation. Everything inside
// is stripped from the user-visible answer.
const (
	reasoningStart = "<reasoning>"
	reasoningEnd   = "</reasoning>"
)

// BuildSystemPrompt returns the system turn that opens every conversation.
func BuildSystemPrompt() string {
	return strings.TrimSpace(config.SystemPromptTemplate)
}

// splitReasoning separates the delimited reasoning block from the visible
// answer. The answer is the content with the block removed and surrounding
// whitespace trimmed; missing or unterminated markers leave the content
// untouched.
func splitReasoning(content string) (answer string, reasoning string) {
	start := strings.Index(content, reasoningStart)
	if start < 0 {
		return strings.TrimSpace(content), ""
	}
	end := strings.Index(content[start:], reasoningEnd)
	if end < 0 {
		return strings.TrimSpace(content), ""
	}
	end += start
	reasoning = strings.TrimSpace(content[start+len(reasoningStart) : end])
	answer = strings.TrimSpace(content[:start] + content[end+len(reasoningEnd):])
	return answer, reasoning
}
