package gemini

import (
	"encoding/json"
	"regexp"
	"strings"
)

// substantialLength is the minimum serialized size for a scanned JSON
// fragment to count as a real payload rather than an inline example.
const substantialLength = 50

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\}|\\[.*?\\])\\s*```")

// ExtractJSON recovers a JSON object or array from a model response. Three
// strategies are tried in order: parse the whole text, parse the first
// fenced code block, then scan for balanced brace/bracket spans and take the
// first substantial one. Returns false when nothing parses.
func ExtractJSON(text string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) && isContainer(trimmed) {
		return json.RawMessage(trimmed), true
	}

	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		candidate := strings.TrimSpace(m[1])
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), true
		}
	}

	for _, open := range []byte{'{', '['} {
		if raw, ok := scanBalanced(text, open); ok {
			return raw, true
		}
	}
	return nil, false
}

func isContainer(s string) bool {
	return len(s) > 0 && (s[0] == '{' || s[0] == '[')
}

// scanBalanced walks the text looking for spans that open with the given
// delimiter and close balanced, skipping string literals, and returns the
// first valid substantial one.
func scanBalanced(text string, open byte) (json.RawMessage, bool) {
	var closing byte = '}'
	if open == '[' {
		closing = ']'
	}

	for start := 0; start < len(text); start++ {
		if text[start] != open {
			continue
		}
		end, ok := matchSpan(text, start, open, closing)
		if !ok {
			continue
		}
		candidate := text[start : end+1]
		if len(candidate) > substantialLength && json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), true
		}
		// Resume after this span so nested candidates are not re-scanned.
		start = end
	}
	return nil, false
}

// matchSpan finds the index of the delimiter closing the span opened at
// start, honoring string literals and escapes.
func matchSpan(text string, start int, open, closing byte) (int, bool) {
	depth := 0
	inString := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch ch {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
