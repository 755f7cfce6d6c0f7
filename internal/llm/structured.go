package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator validates a parsed struct after JSON extraction.
type SchemaValidator[T any] func(T) error

// ExtractJSON decodes the first JSON object in raw LLM output into T.
// Markdown fences, surrounding prose, comments, trailing commas and
// bare leading decimals (".5") are tolerated. A non-nil validator runs
// on the decoded value.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	block := firstObject(unfence(raw))
	if block == "" {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	var result T
	if err := json.Unmarshal([]byte(sanitize(block)), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return result, nil
}

// unfence returns the body of the first ``` fence that contains an object,
// or s unchanged when there is none.
func unfence(s string) string {
	rest := s
	for {
		open := strings.Index(rest, "```")
		if open == -1 {
			return s
		}
		body := rest[open+3:]
		// drop the info string ("json", "JSON", ...)
		if nl := strings.IndexByte(body, '\n'); nl != -1 {
			body = body[nl+1:]
		}
		end := strings.Index(body, "```")
		if end == -1 {
			return body
		}
		if strings.Contains(body[:end], "{") {
			return body[:end]
		}
		rest = body[end+3:]
	}
}

// scanner tracks whether a byte offset sits inside a JSON string literal.
type scanner struct {
	inString bool
	escaped  bool
}

// step consumes c and reports whether it belongs to a string literal
// (including the quotes themselves).
func (sc *scanner) step(c byte) bool {
	switch {
	case sc.escaped:
		sc.escaped = false
		return true
	case sc.inString && c == '\\':
		sc.escaped = true
		return true
	case c == '"':
		sc.inString = !sc.inString
		return true
	}
	return sc.inString
}

// firstObject returns the first balanced {...} block in s.
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}
	var sc scanner
	depth := 0
	for i := start; i < len(s); i++ {
		if sc.step(s[i]) {
			continue
		}
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
	return ""
}

// sanitize rewrites the common ways models break JSON outside string
// literals: // and /* */ comments, trailing commas before } or ], and
// numbers written as ".8" or "-.3".
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	var sc scanner
	for i := 0; i < len(s); i++ {
		c := s[i]
		if sc.step(c) {
			b.WriteByte(c)
			continue
		}

		switch {
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}
			continue
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end == -1 {
				i = len(s)
			} else {
				i += end + 3
			}
			continue
		case c == ',' && closesNext(s, i+1):
			continue
		case c == '.' && i+1 < len(s) && isDigit(s[i+1]) && startsNumber(lastNonSpace(s, i-1)):
			b.WriteByte('0')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// closesNext reports whether the next significant byte from i closes a
// container. Comments between are skipped.
func closesNext(s string, i int) bool {
	for i < len(s) {
		switch c := s[i]; {
		case isSpace(c):
			i++
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			nl := strings.IndexByte(s[i:], '\n')
			if nl == -1 {
				return false
			}
			i += nl
		default:
			return c == '}' || c == ']'
		}
	}
	return false
}

func lastNonSpace(s string, i int) byte {
	for ; i >= 0; i-- {
		if !isSpace(s[i]) {
			return s[i]
		}
	}
	return 0
}

func startsNumber(prev byte) bool {
	switch prev {
	case 0, ':', ',', '[', '{', '-':
		return true
	}
	return false
}

func isSpace(c byte) bool { return c == ' ' || c == '\n' || c == '\r' || c == '\t' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
