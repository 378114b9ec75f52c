package recovery

import "strings"

// Sanitize repairs raw control characters inside JSON string literals: a
// literal newline becomes \n, a literal tab becomes \t, and carriage returns
// are dropped. Characters outside string literals pass through untouched so
// real structural whitespace is never altered. Single left-to-right scan,
// total function — it always terminates and never fails.
//
// This fixes the most common upstream failure mode: a model emitting real
// line breaks inside a quoted markdown field, which makes the whole payload
// unparsable.
func Sanitize(candidate string) string {
	var b strings.Builder
	b.Grow(len(candidate) + 16)

	insideString := false
	escapePending := false

	for _, ch := range candidate {
		if !insideString {
			if ch == '"' {
				insideString = true
			}
			b.WriteRune(ch)
			continue
		}

		if escapePending {
			// The escaped character passes through whatever it is.
			b.WriteRune(ch)
			escapePending = false
			continue
		}

		switch ch {
		case '\\':
			escapePending = true
			b.WriteRune(ch)
		case '"':
			insideString = false
			b.WriteRune(ch)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			// dropped
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(ch)
		}
	}

	return b.String()
}
