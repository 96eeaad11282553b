package condition

import (
	"github.com/ratst-engine/ratst/engine/values"
)

type Expression interface {
	isExpr()
}

// Attribute refers to a column of the tuple being tested
type Attribute struct {
	Name string
}

func (Attribute) isExpr() {}

// Literal is a constant; Text has its quotes removed
type Literal struct {
	Text   string
	Quoted bool

	value *values.Literal
}

func (*Literal) isExpr() {}

// Value classifies the literal on first use
func (l *Literal) Value() values.Value {
	if l.value == nil {
		l.value = values.NewLiteral(l.Text)
	}
	return l.value.Value()
}

// Comparison is `Left Operator Right`. Operator is canonical
// (=, !=, <, <=, >, >=) and empty for a bare operand tested for truth.
type Comparison struct {
	Operator string
	Left     Expression
	Right    Expression
}

func (*Comparison) isExpr() {}

// LogicalOperator joins two conditions with "and" or "or"
type LogicalOperator struct {
	Operator string
	Left     Expression
	Right    Expression
}

func (*LogicalOperator) isExpr() {}

type Not struct {
	Expression Expression
}

func (*Not) isExpr() {}

const (
	And = "and"
	Or  = "or"
)

// Attributes lists the attribute names a condition reads, in order of
// first appearance
func Attributes(e Expression) []string {
	seen := map[string]bool{}
	var names []string
	var walk func(Expression)
	walk = func(e Expression) {
		switch x := e.(type) {
		case Attribute:
			if !seen[x.Name] {
				seen[x.Name] = true
				names = append(names, x.Name)
			}
		case *Comparison:
			walk(x.Left)
			if x.Right != nil {
				walk(x.Right)
			}
		case *LogicalOperator:
			walk(x.Left)
			walk(x.Right)
		case *Not:
			walk(x.Expression)
		}
	}
	walk(e)
	return names
}
