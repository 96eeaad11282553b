// Package eval interprets a relational algebra tree over in-memory
// relations. Relations are sets: every operator drops duplicate tuples.
package eval

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ratst-engine/ratst/engine/ast"
	"github.com/ratst-engine/ratst/engine/condition"
	"github.com/ratst-engine/ratst/engine/values"
	"github.com/ratst-engine/ratst/mapping"
)

// ============================================================================
// ERRORS
// ============================================================================

var (
	ErrUnknownRelation   = errors.New("unknown relation")
	ErrUnknownAttribute  = errors.New("unknown attribute")
	ErrIncompatible      = errors.New("incompatible relations")
	ErrMalformedRelation = errors.New("malformed relation")
)

// ============================================================================
// ENTRY POINT
// ============================================================================

// Evaluate computes the relation an expression denotes
func Evaluate(node ast.Node, bindings Bindings) (*Relation, error) {
	switch n := node.(type) {
	case *ast.Relation:
		r, ok := bindings[n.Name]
		if !ok || r == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRelation, n.Name)
		}
		return r, nil

	case *ast.UnaryOp:
		child, err := Evaluate(n.Child, bindings)
		if err != nil {
			return nil, err
		}
		switch n.Operator {
		case mapping.Projection:
			return project(child, n.Parameter)
		case mapping.Selection:
			return selectWhere(child, n.Parameter)
		case mapping.Rename:
			return rename(child, n.Parameter)
		}
		return nil, fmt.Errorf("unsupported operator %s", n.Operator)

	case *ast.BinaryOp:
		left, err := Evaluate(n.Left, bindings)
		if err != nil {
			return nil, err
		}
		right, err := Evaluate(n.Right, bindings)
		if err != nil {
			return nil, err
		}
		return binary(n.Operator, left, right)
	}
	return nil, fmt.Errorf("unexpected node %T", node)
}

func binary(op mapping.Operator, left, right *Relation) (*Relation, error) {
	switch op {
	case mapping.Union, mapping.Intersection, mapping.Difference:
		return setOperation(op, left, right)
	case mapping.Product:
		return product(left, right), nil
	case mapping.Join, mapping.JoinLeft, mapping.JoinRight, mapping.JoinFull:
		return join(op, left, right), nil
	case mapping.Division:
		return divide(left, right)
	}
	return nil, fmt.Errorf("unsupported operator %s", op)
}

// ============================================================================
// UNARY
// ============================================================================

func project(r *Relation, param string) (*Relation, error) {
	var idx []int
	out := &Relation{Name: r.Name}
	for _, attr := range strings.Split(param, ",") {
		attr = strings.TrimSpace(attr)
		i := r.Index(attr)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s in projection over %s", ErrUnknownAttribute, attr, r.Name)
		}
		idx = append(idx, i)
		out.Attributes = append(out.Attributes, r.Attributes[i])
	}

	seen := map[string]bool{}
	for _, t := range r.Tuples {
		out.add(seen, pick(t, idx))
	}
	return out, nil
}

func selectWhere(r *Relation, param string) (*Relation, error) {
	cond, err := condition.Parse(param)
	if err != nil {
		return nil, err
	}
	for _, attr := range condition.Attributes(cond) {
		if r.Index(attr) < 0 {
			return nil, fmt.Errorf("%w: %s in selection over %s", ErrUnknownAttribute, attr, r.Name)
		}
	}

	out := &Relation{Name: r.Name, Attributes: r.Attributes}
	for _, t := range r.Tuples {
		ok, err := condition.Evaluate(cond, func(attr string) (string, bool) {
			i := r.Index(attr)
			if i < 0 {
				return "", false
			}
			return t[i], true
		})
		if err != nil {
			return nil, err
		}
		if ok {
			out.Tuples = append(out.Tuples, t)
		}
	}
	return out, nil
}

func rename(r *Relation, param string) (*Relation, error) {
	spec, err := ast.ParseRename(param)
	if err != nil {
		return nil, err
	}
	out := &Relation{Name: r.Name, Attributes: slices.Clone(r.Attributes), Tuples: r.Tuples}
	if spec.IsRelation() {
		out.Name = spec.Relation
		return out, nil
	}

	for _, a := range spec.Attributes {
		i := out.Index(a.Old)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s in rename over %s", ErrUnknownAttribute, a.Old, r.Name)
		}
		if j := slices.Index(out.Attributes, a.New); j >= 0 && j != i {
			return nil, fmt.Errorf("%w: %s already has an attribute %s", ErrIncompatible, r.Name, a.New)
		}
		out.Attributes[i] = a.New
	}
	return out, nil
}

// ============================================================================
// BINARY
// ============================================================================

func setOperation(op mapping.Operator, left, right *Relation) (*Relation, error) {
	if len(left.Attributes) != len(right.Attributes) {
		return nil, fmt.Errorf("%w: %s has %d attributes, %s has %d",
			ErrIncompatible, left.Name, len(left.Attributes), right.Name, len(right.Attributes))
	}

	out := &Relation{Name: left.Name, Attributes: left.Attributes}
	seen := map[string]bool{}
	switch op {
	case mapping.Union:
		for _, t := range left.Tuples {
			out.add(seen, t)
		}
		for _, t := range right.Tuples {
			out.add(seen, t)
		}
	case mapping.Intersection:
		keep := right.keys()
		for _, t := range left.Tuples {
			if keep[key(t)] {
				out.add(seen, t)
			}
		}
	case mapping.Difference:
		drop := right.keys()
		for _, t := range left.Tuples {
			if !drop[key(t)] {
				out.add(seen, t)
			}
		}
	}
	return out, nil
}

// product qualifies attributes present on both sides with their relation name
func product(left, right *Relation) *Relation {
	out := &Relation{Name: left.Name}
	for _, a := range left.Attributes {
		out.Attributes = append(out.Attributes, qualify(left.Name, a, right.Attributes))
	}
	for _, a := range right.Attributes {
		out.Attributes = append(out.Attributes, qualify(right.Name, a, left.Attributes))
	}

	seen := map[string]bool{}
	for _, l := range left.Tuples {
		for _, r := range right.Tuples {
			out.add(seen, concat(l, r))
		}
	}
	return out
}

func qualify(name, attr string, other []string) string {
	if name != "" && slices.Contains(other, attr) {
		return name + "." + attr
	}
	return attr
}

// join is the natural join on shared attribute names. Outer variants pad
// unmatched tuples with Null.
func join(op mapping.Operator, left, right *Relation) *Relation {
	var shared [][2]int
	var rest []int
	for j, a := range right.Attributes {
		if i := slices.Index(left.Attributes, a); i >= 0 {
			shared = append(shared, [2]int{i, j})
		} else {
			rest = append(rest, j)
		}
	}

	out := &Relation{Name: left.Name, Attributes: slices.Clone(left.Attributes)}
	for _, j := range rest {
		out.Attributes = append(out.Attributes, right.Attributes[j])
	}

	seen := map[string]bool{}
	matchedRight := make([]bool, len(right.Tuples))
	for _, l := range left.Tuples {
		matched := false
		for k, r := range right.Tuples {
			if !agree(l, r, shared) {
				continue
			}
			matched = true
			matchedRight[k] = true
			out.add(seen, concat(l, pick(r, rest)))
		}
		if !matched && (op == mapping.JoinLeft || op == mapping.JoinFull) {
			out.add(seen, concat(l, nulls(len(rest))))
		}
	}

	if op == mapping.JoinRight || op == mapping.JoinFull {
		for k, r := range right.Tuples {
			if matchedRight[k] {
				continue
			}
			l := nulls(len(left.Attributes))
			for _, s := range shared {
				l[s[0]] = r[s[1]]
			}
			out.add(seen, concat(l, pick(r, rest)))
		}
	}
	return out
}

func agree(l, r Tuple, shared [][2]int) bool {
	for _, s := range shared {
		if !values.Equal(values.Classify(l[s[0]]), values.Classify(r[s[1]])) {
			return false
		}
	}
	return true
}

// divide returns the tuples over R's attributes outside S that appear in R
// combined with every tuple of S
func divide(dividend, divisor *Relation) (*Relation, error) {
	var quotient, by []int
	for _, a := range divisor.Attributes {
		i := dividend.Index(a)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s has no attribute %s of divisor %s",
				ErrIncompatible, dividend.Name, a, divisor.Name)
		}
		by = append(by, i)
	}
	for i := range dividend.Attributes {
		if !slices.Contains(by, i) {
			quotient = append(quotient, i)
		}
	}

	out := &Relation{Name: dividend.Name}
	for _, i := range quotient {
		out.Attributes = append(out.Attributes, dividend.Attributes[i])
	}

	present := map[string]bool{}
	for _, t := range dividend.Tuples {
		present[key(concat(pick(t, quotient), pick(t, by)))] = true
	}

	seen := map[string]bool{}
	for _, t := range dividend.Tuples {
		candidate := pick(t, quotient)
		if seen[key(candidate)] {
			continue
		}
		covered := true
		for _, s := range divisor.Tuples {
			if !present[key(concat(candidate, s))] {
				covered = false
				break
			}
		}
		if covered {
			out.add(seen, candidate)
		}
	}
	return out, nil
}

// ============================================================================
// HELPERS
// ============================================================================

func pick(t Tuple, idx []int) Tuple {
	out := make(Tuple, len(idx))
	for k, i := range idx {
		out[k] = t[i]
	}
	return out
}

func concat(a, b Tuple) Tuple {
	out := make(Tuple, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}

func nulls(n int) Tuple {
	t := make(Tuple, n)
	for i := range t {
		t[i] = Null
	}
	return t
}
