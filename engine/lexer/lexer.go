package lexer

import (
	"strings"
	"unicode"

	"github.com/ratst-engine/ratst/mapping"
)

// Token is one element of a scanned expression. An atom carries Value
// (operator symbol, relation name, or operator parameter); a group carries
// the tokens of a parenthesized sub-expression in Children.
type Token struct {
	Value    string
	Children []Token
	Position int // rune offset in the scanned expression
}

// Atom creates a string token
func Atom(value string, position int) Token {
	return Token{Value: value, Position: position}
}

// Group creates a parenthesized token sequence
func Group(children []Token, position int) Token {
	if children == nil {
		children = []Token{}
	}
	return Token{Children: children, Position: position}
}

// IsGroup reports whether the token is a parenthesized sub-sequence
func (t Token) IsGroup() bool {
	return t.Children != nil
}

// String renders the token the way it nests: atoms quoted, groups bracketed
func (t Token) String() string {
	if !t.IsGroup() {
		return "'" + t.Value + "'"
	}
	return FormatTokens(t.Children)
}

// FormatTokens renders a token sequence, e.g. ['π', 'a', ['R']]
func FormatTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Scanner splits a relational algebra expression into nested tokens
type Scanner struct {
	input []rune
}

// Scan converts an expression into a token sequence. Parenthesized
// sub-expressions become groups; the parameter of a unary operator is kept
// as a single atom.
func Scan(expression string) ([]Token, error) {
	s := &Scanner{input: []rune(expression)}
	return s.scan(0, len(s.input))
}

func (s *Scanner) scan(start, end int) ([]Token, error) {
	tokens := []Token{}
	start, end = s.trim(start, end)

	for start < end {
		ch := s.input[start]

		switch {
		case ch == '(':
			closing := s.matchingParenthesis(start, end)
			if closing < 0 {
				// "π a(" has an operator with nothing to apply it to. That is
				// a missing operand, reported by the parser, not an
				// unbalanced group.
				if s.blank(start+1, end) && awaitsOperand(tokens) {
					return tokens, nil
				}
				return nil, &ScanError{
					Message:  "missing matching ')'",
					Position: start,
					Fragment: string(s.input[start:end]),
				}
			}
			children, err := s.scan(start+1, closing)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Group(children, start))
			start, end = s.trim(closing+1, end)

		case mapping.IsUnarySymbol(ch):
			tokens = append(tokens, Atom(string(ch), start))
			start, end = s.trim(start+1, end)

			cut := s.parameterEnd(start, end)
			tokens = append(tokens, Atom(strings.TrimSpace(string(s.input[start:cut])), start))
			start, end = s.trim(cut, end)

		default:
			n := s.identifierRun(start, end)
			tokens = append(tokens, Atom(string(s.input[start:start+n]), start))
			start, end = s.trim(start+n, end)
		}
	}

	return tokens, nil
}

// awaitsOperand reports whether the tokens end with a unary operator and
// its parameter
func awaitsOperand(tokens []Token) bool {
	n := len(tokens)
	if n < 2 || tokens[n-2].IsGroup() || tokens[n-1].IsGroup() {
		return false
	}
	r := []rune(tokens[n-2].Value)
	return len(r) == 1 && mapping.IsUnarySymbol(r[0])
}

// parameterEnd finds where a unary operator's parameter stops: at the '('
// opening its operand. A parameter that itself starts with a parenthesized
// group, e.g. σ (a = 1 ∨ b = 2) (R), keeps that group and stops at the
// next '(' after it.
func (s *Scanner) parameterEnd(start, end int) int {
	cut := -1
	if start < end && s.input[start] == '(' {
		closing := s.matchingParenthesis(start, end)
		if closing < 0 {
			return start
		}
		cut = s.findToken('(', closing, end)
	} else {
		cut = s.findToken('(', start, end)
	}
	if cut < 0 {
		return end
	}
	return cut
}

// matchingParenthesis returns the position of the ')' closing the '(' at
// start, ignoring parentheses inside string literals. -1 if unbalanced.
func (s *Scanner) matchingParenthesis(start, end int) int {
	depth := 0
	var lit literalState

	for i := start; i < end; i++ {
		if lit.step(s.input[i]) {
			continue
		}
		switch s.input[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// findToken is a string-literal aware index of needle in input[start:end]
func (s *Scanner) findToken(needle rune, start, end int) int {
	var lit literalState

	for i := start; i < end; i++ {
		if lit.step(s.input[i]) {
			continue
		}
		if s.input[i] == needle {
			return i
		}
	}
	return -1
}

// identifierRun returns the length of the relation name at start. A rune
// that cannot start a name is consumed alone (binary operator symbols end
// up here).
func (s *Scanner) identifierRun(start, end int) int {
	if !isIdentStart(s.input[start]) {
		return 1
	}
	n := 1
	for start+n < end && isIdentPart(s.input[start+n]) {
		n++
	}
	return n
}

func (s *Scanner) trim(start, end int) (int, int) {
	for start < end && unicode.IsSpace(s.input[start]) {
		start++
	}
	for end > start && unicode.IsSpace(s.input[end-1]) {
		end--
	}
	return start, end
}

func (s *Scanner) blank(start, end int) bool {
	a, b := s.trim(start, end)
	return a >= b
}

// literalState tracks single-quoted string literals and backslash escapes
type literalState struct {
	inString bool
	escape   bool
}

// step consumes one rune and reports whether it is inside a string literal
func (l *literalState) step(ch rune) bool {
	if ch == '\'' && !l.escape {
		l.inString = !l.inString
	}
	if ch == '\\' && !l.escape {
		l.escape = true
	} else {
		l.escape = false
	}
	return l.inString
}

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
