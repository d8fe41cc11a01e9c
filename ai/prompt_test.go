package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitReasoning(t *testing.T) {
	cases := []struct {
		name      string
		content   string
		answer    string
		reasoning string
	}{
		{
			name:      "block before answer",
			content:   "<reasoning>checked the schema first</reasoning>\nThe answer is 42.",
			answer:    "The answer is 42.",
			reasoning: "checked the schema first",
		},
		{
			name:      "block in the middle",
			content:   "Short answer: <reasoning>details here</reasoning> 42.",
			answer:    "Short answer:  42.",
			reasoning: "details here",
		},
		{
			name:    "no block",
			content: "  Just an answer.  ",
			answer:  "Just an answer.",
		},
		{
			name:    "unterminated block left intact",
			content: "<reasoning>never closed",
			answer:  "<reasoning>never closed",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			answer, reasoning := splitReasoning(tc.content)
			assert.Equal(t, tc.answer, answer)
			assert.Equal(t, tc.reasoning, reasoning)
		})
	}
}

func TestRegistryToolNames(t *testing.T) {
	specs := Registry(true)
	names := make(map[string]bool)
	for _, s := range specs {
		names[s.Name] = true
		assert.NotEmpty(t, s.Description)
		assert.Equal(t, "object", s.Parameters["type"])
	}
	for _, want := range []string{
		"list_services", "list_tables", "get_table_schema", "query_table",
		"search_table_by_field", "search_by_name", "search_table", "web_search",
	} {
		assert.True(t, names[want], "missing tool %s", want)
	}

	for _, s := range specs {
		if s.Name != "query_table" {
			continue
		}
		properties := s.Parameters["properties"].(map[string]interface{})
		for _, param := range []string{
			"filter", "related", "limit", "offset", "order", "fields",
			"include_count", "include_schema",
		} {
			assert.Contains(t, properties, param)
		}
	}

	withoutSearch := Registry(false)
	assert.Len(t, withoutSearch, len(specs)-1)
}
