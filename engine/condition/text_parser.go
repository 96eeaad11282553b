// Package condition parses and evaluates the boolean conditions used as
// selection parameters, e.g. `year >= 2000 ∧ ¬(author = 'Codd')`.
package condition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ratst-engine/ratst/mapping"
)

// ErrInvalidCondition is returned for text the grammar does not accept
var ErrInvalidCondition = errors.New("invalid condition")

var (
	conditionLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\.|[^"\\])*"|'(\\.|[^'\\])*'`},
		{Name: "Date", Pattern: `\d{1,4}[-/\\]\d{1,2}[-/\\]\d{1,2}`},
		{Name: "Number", Pattern: `[-+]?\d+(\.\d+)?`},
		{Name: "Or", Pattern: `(?i)\bor\b|∨|\|\|`},
		{Name: "And", Pattern: `(?i)\band\b|∧|&&`},
		{Name: "Op", Pattern: `==|!=|<>|<=|>=|≠|≤|≥|=|<|>`},
		{Name: "Not", Pattern: `(?i)\bnot\b|¬|!`},
		{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*(\.[\p{L}_][\p{L}\p{N}_]*)?`},
		{Name: "Paren", Pattern: `[()]`},
		{Name: "whitespace", Pattern: `\s+`},
	})

	parser = participle.MustBuild[TextExpression](
		participle.Lexer(conditionLexer),
	)
)

type TextExpression struct {
	Or []*TextAnd `parser:"@@ ( Or @@ )*"`
}

func (e *TextExpression) ToAST() Expression {
	result := e.Or[0].ToAST()
	for _, next := range e.Or[1:] {
		result = &LogicalOperator{Operator: Or, Left: result, Right: next.ToAST()}
	}
	return result
}

type TextAnd struct {
	Terms []*TextTerm `parser:"@@ ( And @@ )*"`
}

func (a *TextAnd) ToAST() Expression {
	result := a.Terms[0].ToAST()
	for _, next := range a.Terms[1:] {
		result = &LogicalOperator{Operator: And, Left: result, Right: next.ToAST()}
	}
	return result
}

type TextTerm struct {
	Not        *TextTerm       `parser:"  Not @@"`
	Group      *TextExpression `parser:"| '(' @@ ')'"`
	Comparison *TextComparison `parser:"| @@"`
}

func (t *TextTerm) ToAST() Expression {
	if t.Not != nil {
		return &Not{Expression: t.Not.ToAST()}
	}
	if t.Group != nil {
		return t.Group.ToAST()
	}
	return t.Comparison.ToAST()
}

type TextComparison struct {
	Left  *TextOperand `parser:"@@"`
	Op    string       `parser:"( @Op"`
	Right *TextOperand `parser:"  @@ )?"`
}

func (c *TextComparison) ToAST() Expression {
	if c.Right == nil {
		return &Comparison{Left: c.Left.ToExpr()}
	}
	op, _ := mapping.CanonicalComparison(c.Op)
	return &Comparison{
		Operator: op,
		Left:     c.Left.ToExpr(),
		Right:    c.Right.ToExpr(),
	}
}

type TextOperand struct {
	String *string `parser:"  @String"`
	Date   *string `parser:"| @Date"`
	Number *string `parser:"| @Number"`
	Ident  *string `parser:"| @Ident"`
}

func (o *TextOperand) ToExpr() Expression {
	switch {
	case o.String != nil:
		return &Literal{Text: unquote(*o.String), Quoted: true}
	case o.Date != nil:
		return &Literal{Text: *o.Date}
	case o.Number != nil:
		return &Literal{Text: *o.Number}
	}
	return Attribute{Name: *o.Ident}
}

// Parse parses condition text into an expression tree
func Parse(input string) (Expression, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: empty condition", ErrInvalidCondition)
	}
	expr, err := parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCondition, err)
	}
	return expr.ToAST(), nil
}

// unquote strips the surrounding quotes and backslash escapes
func unquote(s string) string {
	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	escaped := false
	for _, r := range s {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		sb.WriteRune(r)
	}
	return sb.String()
}
