package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// tokenize splits input on whitespace and commas, keeping single-quoted
// strings (with '' escapes) as one token including the quotes.
func tokenize(input string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if inQuote {
			cur.WriteByte(ch)
			if ch == '\'' {
				if i+1 < len(input) && input[i+1] == '\'' {
					cur.WriteByte('\'')
					i++
				} else {
					inQuote = false
					flush()
				}
			}
			continue
		}

		switch ch {
		case '\'':
			flush()
			cur.WriteByte(ch)
			inQuote = true
		case ' ', '\t', ',':
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return tokens
}

// parseValue converts a token to a Go value. Unquoted words that are not
// keywords or numbers are taken as strings.
func parseValue(token string) (any, error) {
	if strings.HasPrefix(token, "'") {
		if len(token) < 2 || !strings.HasSuffix(token, "'") {
			return nil, fmt.Errorf("unterminated string: %s", token)
		}
		inner := token[1 : len(token)-1]
		return strings.ReplaceAll(inner, "''", "'"), nil
	}
	switch strings.ToLower(token) {
	case "null":
		return nil, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if i, err := strconv.Atoi(token); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f, nil
	}
	return token, nil
}

// parseValues parses each token in order.
func parseValues(tokens []string) ([]any, error) {
	vals := make([]any, 0, len(tokens))
	for _, tok := range tokens {
		v, err := parseValue(tok)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

var errNoPredicates = errors.New("no predicates built yet (try 'eq <field> <value>')")

// parseRef turns "#n" into a 0-based index into n predicates.
func parseRef(token string, n int) (int, error) {
	if !strings.HasPrefix(token, "#") {
		return 0, fmt.Errorf("expected a reference like #1, got %q", token)
	}
	id, err := strconv.Atoi(token[1:])
	if err != nil {
		return 0, fmt.Errorf("invalid reference %q", token)
	}
	if id < 1 || id > n {
		return 0, fmt.Errorf("reference %s out of range (have %d predicate(s))", token, n)
	}
	return id - 1, nil
}

// isIdentifier reports whether s is a plain or dotted SQL identifier.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}
		for i, r := range part {
			switch {
			case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			case i > 0 && r >= '0' && r <= '9':
			default:
				return false
			}
		}
	}
	return true
}
