package recovery

import (
	"encoding/json"
	"strings"

	"assistant-chatbot/internal/models"
)

// Trace records what each pipeline stage did for one turn, for logging and
// metrics. Fallback chaining stays visible instead of hiding inside
// exception-style control flow.
type Trace struct {
	Extract   ExtractOutcome
	ParseOK   bool
	Normalize NormalizeMode
}

// Recover runs the full extract → sanitize → parse → normalize chain over a
// raw agent output. Total: every stage degrades rather than fails, so the
// returned answer is always renderable.
func Recover(out models.RawAgentOutput) (models.StructuredAnswer, Trace) {
	var trace Trace

	// Upstream may hand us an already-decoded value; skip text recovery.
	// A decoded value without any recognized answer field is not an answer
	// payload, so the text form still goes through the full chain below.
	if out.Value != nil && answerShaped(out.Value) {
		trace.ParseOK = true
		answer, mode := Normalize(out.Value, out.Envelope)
		trace.Normalize = mode
		return answer, trace
	}

	candidate, extractOutcome := ExtractCandidate(out.Text)
	trace.Extract = extractOutcome

	sanitized := Sanitize(candidate)

	var parsed interface{}
	if err := json.Unmarshal([]byte(sanitized), &parsed); err == nil && answerShaped(parsed) {
		trace.ParseOK = true
		answer, mode := Normalize(parsed, out.Envelope)
		trace.Normalize = mode
		return answer, trace
	}
	// Scalars ("42", "true"), objects without any recognized answer field,
	// and arrays not wrapping one are not answer payloads even when they
	// parse; the raw text is the best renderable body we have.

	// Hand the whole raw text to the normalizer, which tries targeted field
	// recovery before falling back to plain markdown.
	answer, mode := Normalize(strings.TrimSpace(out.Text), out.Envelope)
	trace.Normalize = mode
	return answer, trace
}
