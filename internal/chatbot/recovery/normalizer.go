package recovery

import (
	"regexp"
	"strconv"
	"strings"

	"assistant-chatbot/internal/models"
)

// NormalizeMode tags how the canonical answer was assembled.
type NormalizeMode string

const (
	// NormalizeStructured means the parsed payload carried recognizable
	// answer fields.
	NormalizeStructured NormalizeMode = "structured"
	// NormalizeFieldRecovery means parsing failed but targeted pattern
	// search pulled individual fields out of the raw text.
	NormalizeFieldRecovery NormalizeMode = "field_recovery"
	// NormalizePlainText means the raw text became the markdown body as-is.
	NormalizePlainText NormalizeMode = "plain_text"
)

// Normalize turns a parsed payload (or the raw text when parsing failed) into
// the canonical StructuredAnswer. It always succeeds; missing fields degrade
// to empty values and AnswerMarkdown is never absent.
func Normalize(parsedOrRaw interface{}, hints models.Envelope) (models.StructuredAnswer, NormalizeMode) {
	switch v := parsedOrRaw.(type) {
	case map[string]interface{}:
		// The pipeline gates on answerShaped before routing objects here;
		// other fields degrade to empty values and envelope sources are
		// preserved.
		return fromStructured(v, hints), NormalizeStructured
	case []interface{}:
		// Array wrapper: the payload of interest is the first element.
		if len(v) > 0 {
			if first, ok := v[0].(map[string]interface{}); ok {
				return fromStructured(first, hints), NormalizeStructured
			}
		}
		return degradeToText("", hints), NormalizePlainText
	case string:
		if answer, ok := recoverFields(v, hints); ok {
			return answer, NormalizeFieldRecovery
		}
		return degradeToText(v, hints), NormalizePlainText
	case nil:
		return degradeToText("", hints), NormalizePlainText
	default:
		return degradeToText("", hints), NormalizePlainText
	}
}

// answerShaped reports whether a parsed payload exposes at least one of the
// recognized answer fields, directly or through the first element of an array
// wrapper. A payload without any of them is not a structured answer and must
// be recovered from the raw text instead.
func answerShaped(v interface{}) bool {
	switch t := v.(type) {
	case map[string]interface{}:
		for _, key := range []string{"answer_markdown", "short_answer", "sources"} {
			if _, ok := t[key]; ok {
				return true
			}
		}
		return false
	case []interface{}:
		if len(t) == 0 {
			return false
		}
		first, ok := t[0].(map[string]interface{})
		return ok && answerShaped(first)
	default:
		return false
	}
}

func fromStructured(m map[string]interface{}, hints models.Envelope) models.StructuredAnswer {
	answer := models.StructuredAnswer{
		AnswerMarkdown:    pickString(m, "answer_markdown"),
		ShortAnswer:       pickString(m, "short_answer"),
		Sources:           pickSources(m["sources"]),
		FollowUpQuestions: pickStringSlice(m, "follow_up_questions"),
		UserNotices:       pickStringSlice(m, "user_notices"),
		RelatedTopics:     pickStringSlice(m, "related_topics"),
	}

	// Payload sources win; the outer envelope only fills a gap.
	if len(answer.Sources) == 0 {
		answer.Sources = promoteSourceStrings(hints.Sources)
	}

	return answer
}

func degradeToText(text string, hints models.Envelope) models.StructuredAnswer {
	return models.StructuredAnswer{
		AnswerMarkdown:    text,
		Sources:           promoteSourceStrings(hints.Sources),
		FollowUpQuestions: []string{},
		UserNotices:       []string{},
		RelatedTopics:     []string{},
	}
}

var (
	answerFieldPattern    = regexp.MustCompile(`"answer_markdown"\s*:\s*("(?:[^"\\]|\\.)*")`)
	followupBlockPattern  = regexp.MustCompile(`(?s)"follow_up_questions"\s*:\s*\[(.*?)\]`)
	quotedElementPattern  = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
)

// recoverFields attempts targeted pattern extraction from text that would not
// parse as JSON. Returns ok=false when not even the markdown body is found.
func recoverFields(raw string, hints models.Envelope) (models.StructuredAnswer, bool) {
	m := answerFieldPattern.FindStringSubmatch(raw)
	if m == nil {
		return models.StructuredAnswer{}, false
	}

	body, err := strconv.Unquote(m[1])
	if err != nil {
		return models.StructuredAnswer{}, false
	}

	answer := degradeToText(body, hints)

	if block := followupBlockPattern.FindStringSubmatch(raw); block != nil {
		for _, q := range quotedElementPattern.FindAllString(block[1], -1) {
			if unquoted, err := strconv.Unquote(q); err == nil && unquoted != "" {
				answer.FollowUpQuestions = append(answer.FollowUpQuestions, unquoted)
			}
		}
	}

	return answer, true
}

func pickString(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func pickStringSlice(m map[string]interface{}, key string) []string {
	out := []string{}
	items, ok := m[key].([]interface{})
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// pickSources accepts the upstream sources list in any of its observed
// shapes: full objects, partial objects, or bare filename strings.
func pickSources(value interface{}) []models.Source {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}

	sources := make([]models.Source, 0, len(items))
	for _, item := range items {
		switch src := item.(type) {
		case string:
			if src != "" {
				sources = append(sources, promoteSourceString(src))
			}
		case map[string]interface{}:
			s := models.Source{
				Title:       pickString(src, "title"),
				DocumentRef: firstNonEmpty(pickString(src, "document_ref"), pickString(src, "document"), pickString(src, "title")),
				URL:         pickString(src, "url"),
				Breadcrumb:  firstNonEmpty(pickString(src, "breadcrumb"), pickString(src, "breadcrumbs")),
			}
			if s.URL == "" {
				s.URL = "#"
			}
			if s.Title == "" && s.DocumentRef == "" {
				continue
			}
			if s.Title == "" {
				s.Title = s.DocumentRef
			}
			sources = append(sources, s)
		}
	}
	return sources
}

// promoteSourceString lifts a bare filename into the full citation shape.
func promoteSourceString(name string) models.Source {
	return models.Source{
		Title:       name,
		DocumentRef: name,
		URL:         "#",
	}
}

func promoteSourceStrings(names []string) []models.Source {
	sources := make([]models.Source, 0, len(names))
	for _, name := range names {
		if name != "" {
			sources = append(sources, promoteSourceString(name))
		}
	}
	return sources
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
