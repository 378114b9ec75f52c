// Package recovery turns unreliable model text into the canonical structured
// answer. It is an explicit pipeline of total functions — extract, sanitize,
// parse, normalize — where every stage degrades instead of failing, so a
// caller always receives a renderable answer.
package recovery

import (
	"regexp"
	"strings"
)

// ExtractOutcome tags how the extractor located a candidate.
type ExtractOutcome string

const (
	ExtractFencedBlock ExtractOutcome = "fenced_block"
	ExtractBracketScan ExtractOutcome = "bracket_scan"
	ExtractNone        ExtractOutcome = "none"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractCandidate isolates the most plausible serialized-data fragment from
// arbitrary model output. It always returns a string: with no structure
// markers at all the trimmed input comes back unchanged, so the parse stage
// fails gracefully downstream instead of the extractor failing here.
func ExtractCandidate(raw string) (string, ExtractOutcome) {
	// Upstream models occasionally emit stray slash runs around payloads.
	cleaned := strings.ReplaceAll(raw, "////", "")
	cleaned = strings.ReplaceAll(cleaned, "///", "")

	// A fenced block is the strongest signal; take its interior verbatim.
	if m := fencedBlockPattern.FindStringSubmatch(cleaned); m != nil {
		return strings.TrimSpace(m[1]), ExtractFencedBlock
	}

	firstBrace := strings.Index(cleaned, "{")
	firstBracket := strings.Index(cleaned, "[")

	// Slice from the first opener to the last matching closer. Last-index
	// search is intentionally not depth-balanced: trailing prose containing
	// a stray closer can corrupt extraction, a known limitation kept to
	// match observed recovery behavior on real upstream outputs.
	if firstBrace != -1 && (firstBracket == -1 || firstBrace < firstBracket) {
		if end := strings.LastIndex(cleaned, "}"); end > firstBrace {
			return cleaned[firstBrace : end+1], ExtractBracketScan
		}
	} else if firstBracket != -1 {
		if end := strings.LastIndex(cleaned, "]"); end > firstBracket {
			return cleaned[firstBracket : end+1], ExtractBracketScan
		}
	}

	return strings.TrimSpace(raw), ExtractNone
}
