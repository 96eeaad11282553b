package condition

import (
	"fmt"

	"github.com/ratst-engine/ratst/engine/values"
)

// Resolver returns the value of an attribute in the tuple being tested
type Resolver func(attribute string) (string, bool)

// Evaluate tests a condition against one tuple. Operands are compared
// through their classified values: numbers numerically, dates
// chronologically, anything else as text.
func Evaluate(e Expression, resolve Resolver) (bool, error) {
	switch x := e.(type) {
	case *LogicalOperator:
		left, err := Evaluate(x.Left, resolve)
		if err != nil {
			return false, err
		}
		if x.Operator == And && !left {
			return false, nil
		}
		if x.Operator == Or && left {
			return true, nil
		}
		return Evaluate(x.Right, resolve)

	case *Not:
		v, err := Evaluate(x.Expression, resolve)
		return !v, err

	case *Comparison:
		left, err := operand(x.Left, resolve)
		if err != nil {
			return false, err
		}
		if x.Right == nil {
			return truthy(left), nil
		}
		right, err := operand(x.Right, resolve)
		if err != nil {
			return false, err
		}
		return compare(x.Operator, left, right)
	}
	return false, fmt.Errorf("%w: unexpected expression %T", ErrInvalidCondition, e)
}

func operand(e Expression, resolve Resolver) (values.Value, error) {
	switch x := e.(type) {
	case *Literal:
		return x.Value(), nil
	case Attribute:
		raw, ok := resolve(x.Name)
		if !ok {
			return values.Value{}, fmt.Errorf("%w: unknown attribute '%s'", ErrInvalidCondition, x.Name)
		}
		return values.Classify(raw), nil
	}
	return values.Value{}, fmt.Errorf("%w: unexpected operand %T", ErrInvalidCondition, e)
}

func compare(op string, a, b values.Value) (bool, error) {
	c := values.Compare(a, b)
	switch op {
	case "=":
		return c == 0, nil
	case "!=":
		return c != 0, nil
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case ">":
		return c > 0, nil
	case ">=":
		return c >= 0, nil
	}
	return false, fmt.Errorf("%w: unknown comparison '%s'", ErrInvalidCondition, op)
}

func truthy(v values.Value) bool {
	switch v.Kind {
	case values.KindInteger:
		return v.Int != 0 || v.Big != nil
	case values.KindFloat:
		return v.Float != 0
	}
	return v.Raw != "" && v.Raw != "false"
}
