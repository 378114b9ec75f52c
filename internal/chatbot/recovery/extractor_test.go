// internal/chatbot/recovery/extractor_test.go
package recovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCandidate_FencedBlock(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "json tagged fence",
			raw:      "Here is the answer:\n```json\n{\"answer_markdown\": \"hi\"}\n```\nHope that helps!",
			expected: `{"answer_markdown": "hi"}`,
		},
		{
			name:     "untagged fence",
			raw:      "```\n{\"answer_markdown\": \"hi\"}\n```",
			expected: `{"answer_markdown": "hi"}`,
		},
		{
			name:     "fence wins over surrounding braces",
			raw:      "{ignore this} ```json\n{\"a\": 1}\n``` {and this}",
			expected: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate, outcome := ExtractCandidate(tt.raw)
			assert.Equal(t, ExtractFencedBlock, outcome)
			assert.Equal(t, tt.expected, candidate)
		})
	}
}

func TestExtractCandidate_BracketScan(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "object with leading prose",
			raw:      `Sure! {"answer_markdown": "hi"}`,
			expected: `{"answer_markdown": "hi"}`,
		},
		{
			name:     "object with trailing prose",
			raw:      `{"answer_markdown": "hi"} Let me know if you need more.`,
			expected: `{"answer_markdown": "hi"}`,
		},
		{
			name:     "array payload",
			raw:      `The result is [{"answer_markdown": "hi"}] as requested`,
			expected: `[{"answer_markdown": "hi"}]`,
		},
		{
			name:     "object before array is preferred",
			raw:      `{"values": [1, 2, 3]}`,
			expected: `{"values": [1, 2, 3]}`,
		},
		{
			name:     "stray slash runs are stripped",
			raw:      `////{"answer_markdown": "hi"}///`,
			expected: `{"answer_markdown": "hi"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate, outcome := ExtractCandidate(tt.raw)
			assert.Equal(t, ExtractBracketScan, outcome)
			assert.Equal(t, tt.expected, candidate)
		})
	}
}

func TestExtractCandidate_None(t *testing.T) {
	candidate, outcome := ExtractCandidate("  just plain prose, no structure  ")

	assert.Equal(t, ExtractNone, outcome)
	assert.Equal(t, "just plain prose, no structure", candidate)
}

func TestExtractCandidate_UnclosedBraceFallsThrough(t *testing.T) {
	candidate, outcome := ExtractCandidate(`broken {"answer_markdown": "hi"`)

	assert.Equal(t, ExtractNone, outcome)
	assert.Equal(t, `broken {"answer_markdown": "hi"`, candidate)
}

// The scan takes the last closer in the text rather than balancing depth, so
// a stray closer in trailing prose widens the slice. Downstream parsing
// rejects the over-wide candidate and field recovery takes over.
func TestExtractCandidate_TrailingCloserWidensSlice(t *testing.T) {
	raw := `{"a": 1} and then :} happened`

	candidate, outcome := ExtractCandidate(raw)

	assert.Equal(t, ExtractBracketScan, outcome)
	assert.Equal(t, `{"a": 1} and then :}`, candidate)
}
