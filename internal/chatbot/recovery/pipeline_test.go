// internal/chatbot/recovery/pipeline_test.go
package recovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant-chatbot/internal/models"
)

func TestRecover_CleanStructuredOutput(t *testing.T) {
	out := models.RawAgentOutput{
		Text: `{"answer_markdown": "All good.", "short_answer": "ok", "sources": [], "follow_up_questions": [], "user_notices": [], "related_topics": []}`,
	}

	answer, trace := Recover(out)

	assert.Equal(t, "All good.", answer.AnswerMarkdown)
	assert.Equal(t, ExtractBracketScan, trace.Extract)
	assert.True(t, trace.ParseOK)
	assert.Equal(t, NormalizeStructured, trace.Normalize)
}

func TestRecover_FencedBlockWithRawNewlines(t *testing.T) {
	// The single most common upstream failure: a fenced payload whose
	// markdown field contains real line breaks.
	out := models.RawAgentOutput{
		Text: "Here you go:\n```json\n{\"answer_markdown\": \"# Heading\nBody line.\"}\n```",
	}

	answer, trace := Recover(out)

	assert.Equal(t, ExtractFencedBlock, trace.Extract)
	assert.True(t, trace.ParseOK)
	assert.Equal(t, NormalizeStructured, trace.Normalize)
	assert.Equal(t, "# Heading\nBody line.", answer.AnswerMarkdown)
}

func TestRecover_ProseWrappedPayload(t *testing.T) {
	out := models.RawAgentOutput{
		Text: `Sure, here is what I found. {"answer_markdown": "Found it.", "sources": ["doc.pdf"]} Anything else?`,
	}

	answer, trace := Recover(out)

	assert.True(t, trace.ParseOK)
	assert.Equal(t, "Found it.", answer.AnswerMarkdown)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "doc.pdf", answer.Sources[0].DocumentRef)
}

func TestRecover_UnparsableTextDegradesToPlainText(t *testing.T) {
	out := models.RawAgentOutput{
		Text:     "  I'm not sure about that, could you rephrase?  ",
		Envelope: models.Envelope{AgentName: "general", Sources: []string{"faq.md"}},
	}

	answer, trace := Recover(out)

	assert.False(t, trace.ParseOK)
	assert.Equal(t, NormalizePlainText, trace.Normalize)
	assert.Equal(t, "I'm not sure about that, could you rephrase?", answer.AnswerMarkdown)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "faq.md", answer.Sources[0].Title)
}

func TestRecover_TruncatedPayloadUsesFieldRecovery(t *testing.T) {
	out := models.RawAgentOutput{
		Text: `{"answer_markdown": "Partial but useful.", "sources": [{"title": "Doc`,
	}

	answer, trace := Recover(out)

	assert.False(t, trace.ParseOK)
	assert.Equal(t, NormalizeFieldRecovery, trace.Normalize)
	assert.Equal(t, "Partial but useful.", answer.AnswerMarkdown)
}

func TestRecover_ScalarParseIsRejected(t *testing.T) {
	// "42" parses as JSON but is not an answer payload.
	out := models.RawAgentOutput{Text: "42"}

	answer, trace := Recover(out)

	assert.False(t, trace.ParseOK)
	assert.Equal(t, NormalizePlainText, trace.Normalize)
	assert.Equal(t, "42", answer.AnswerMarkdown)
}

func TestRecover_ObjectWithoutAnswerFieldsRevertsToRawText(t *testing.T) {
	// Valid JSON, but none of the recognized answer fields: the raw text is
	// still the best renderable body.
	raw := `{"status": "ok", "note": "All systems are running normally."}`

	answer, trace := Recover(models.RawAgentOutput{Text: raw})

	assert.False(t, trace.ParseOK)
	assert.Equal(t, NormalizePlainText, trace.Normalize)
	assert.Equal(t, raw, answer.AnswerMarkdown)
}

func TestRecover_ArrayWithoutAnswerObjectRevertsToRawText(t *testing.T) {
	raw := `["first", "second"]`

	answer, trace := Recover(models.RawAgentOutput{Text: raw})

	assert.False(t, trace.ParseOK)
	assert.Equal(t, NormalizePlainText, trace.Normalize)
	assert.Equal(t, raw, answer.AnswerMarkdown)
}

func TestRecover_PreDecodedValueSkipsTextStages(t *testing.T) {
	out := models.RawAgentOutput{
		Value: map[string]interface{}{"answer_markdown": "already decoded"},
		Text:  "ignored",
	}

	answer, trace := Recover(out)

	assert.True(t, trace.ParseOK)
	assert.Equal(t, ExtractOutcome(""), trace.Extract)
	assert.Equal(t, "already decoded", answer.AnswerMarkdown)
}

func TestRecover_PreDecodedValueWithoutAnswerFieldsFallsBackToText(t *testing.T) {
	out := models.RawAgentOutput{
		Value: map[string]interface{}{"status": "ok"},
		Text:  "Everything is running normally.",
	}

	answer, trace := Recover(out)

	assert.False(t, trace.ParseOK)
	assert.Equal(t, NormalizePlainText, trace.Normalize)
	assert.Equal(t, "Everything is running normally.", answer.AnswerMarkdown)
}

func TestRecover_ObservedUpstreamShapes(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantMarkdown string
		wantSources  []models.Source
	}{
		{
			name:         "fenced payload with bare string source",
			text:         "Here you go:\n```json\n{\"answer_markdown\": \"Hi\", \"sources\": [\"policy.pdf\"]}\n```",
			wantMarkdown: "Hi",
			wantSources: []models.Source{
				{Title: "policy.pdf", DocumentRef: "policy.pdf", URL: "#"},
			},
		},
		{
			name:         "array wrapper unwrapped",
			text:         `[{"answer_markdown": "Net pay is $2,000"}]`,
			wantMarkdown: "Net pay is $2,000",
			wantSources:  []models.Source{},
		},
		{
			name:         "raw newline inside quoted field repaired",
			text:         "{\"answer_markdown\": \"Line1\nLine2\"}",
			wantMarkdown: "Line1\nLine2",
			wantSources:  []models.Source{},
		},
		{
			name:         "plain prose passes through verbatim",
			text:         "Our office is open Monday through Friday.",
			wantMarkdown: "Our office is open Monday through Friday.",
			wantSources:  []models.Source{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, _ := Recover(models.RawAgentOutput{Text: tt.text})
			assert.Equal(t, tt.wantMarkdown, answer.AnswerMarkdown)
			assert.Equal(t, tt.wantSources, answer.Sources)
			assert.Empty(t, answer.FollowUpQuestions)
		})
	}
}

func TestRecover_RawAndEscapedNewlineConverge(t *testing.T) {
	// A fenced payload with a raw line break inside the string field must
	// recover the same markdown as the properly escaped variant.
	raw := models.RawAgentOutput{
		Text: "```json\n{\"answer_markdown\": \"Line1\nLine2\"}\n```",
	}
	escaped := models.RawAgentOutput{
		Text: "```json\n{\"answer_markdown\": \"Line1\\nLine2\"}\n```",
	}

	fromRaw, _ := Recover(raw)
	fromEscaped, _ := Recover(escaped)

	assert.Equal(t, fromEscaped.AnswerMarkdown, fromRaw.AnswerMarkdown)
	assert.Equal(t, "Line1\nLine2", fromRaw.AnswerMarkdown)
}

func TestRecover_AlwaysReturnsRenderableAnswer(t *testing.T) {
	inputs := []string{
		"",
		"}{",
		"```json\n```",
		`{"unrelated": true}`,
		"////",
		"\x00\x01 binary-ish garbage \xff",
	}

	for _, text := range inputs {
		answer, _ := Recover(models.RawAgentOutput{Text: text})
		assert.NotNil(t, answer.Sources)
		assert.NotNil(t, answer.FollowUpQuestions)
		assert.NotNil(t, answer.UserNotices)
	}
}
