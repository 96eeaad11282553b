package parser

import (
	"fmt"
	"strings"

	"github.com/ratst-engine/ratst/mapping"
)

// ParseError represents a malformed token sequence with position info
type ParseError struct {
	Message    string
	Position   int    // rune offset of the offending token
	Token      string // offending token text, if any
	Suggestion string // operator symbol the user probably meant
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error at position %d: %s", e.Position, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(". Did you mean '%s'?", e.Suggestion)
	}
	return msg
}

func newParseError(position int, token, format string, args ...any) *ParseError {
	return &ParseError{
		Message:  fmt.Sprintf(format, args...),
		Position: position,
		Token:    token,
	}
}

// SuggestOperator finds the operator symbol closest to a word typed in its
// place, e.g. "union" → ∪, "joins" → ⋈. Short words are never matched.
func SuggestOperator(word string) (mapping.Operator, bool) {
	word = strings.ToUpper(strings.TrimSpace(word))
	if len(word) < 3 {
		return "", false
	}

	maxDistance := 2
	if len(word) <= 4 {
		maxDistance = 1
	}

	var bestMatch mapping.Operator
	bestWord := ""
	bestDistance := maxDistance + 1
	for candidate, op := range mapping.OperatorWords {
		dist := levenshtein(word, candidate)
		// ties resolve alphabetically so suggestions are stable
		if dist < bestDistance || (dist == bestDistance && candidate < bestWord) {
			bestDistance = dist
			bestWord = candidate
			bestMatch = op
		}
	}
	if bestDistance > maxDistance {
		return "", false
	}
	return bestMatch, true
}

// levenshtein calculates edit distance between two strings
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
