package ast

import (
	"fmt"
	"strings"

	"github.com/ratst-engine/ratst/mapping"
)

// Node is the interface all AST nodes implement
type Node interface {
	node()
	Pos() int
}

// Relation is a named base relation, always a leaf
type Relation struct {
	Name     string
	Position int
}

func (n *Relation) node()    {}
func (n *Relation) Pos() int { return n.Position }

// UnaryOp is π, σ or ρ with its raw parameter text
type UnaryOp struct {
	Operator  mapping.Operator
	Parameter string // attribute list, condition, or rename target
	Child     Node
	Position  int
}

func (n *UnaryOp) node()    {}
func (n *UnaryOp) Pos() int { return n.Position }

// BinaryOp is a set operator, product, division or join
type BinaryOp struct {
	Operator mapping.Operator
	Left     Node
	Right    Node
	Position int
}

func (n *BinaryOp) node()    {}
func (n *BinaryOp) Pos() int { return n.Position }

// ============================================================================
// HELPERS
// ============================================================================

// Equal compares two trees structurally, ignoring positions
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Relation:
		y, ok := b.(*Relation)
		return ok && x.Name == y.Name
	case *UnaryOp:
		y, ok := b.(*UnaryOp)
		return ok && x.Operator == y.Operator &&
			strings.TrimSpace(x.Parameter) == strings.TrimSpace(y.Parameter) &&
			Equal(x.Child, y.Child)
	case *BinaryOp:
		y, ok := b.(*BinaryOp)
		return ok && x.Operator == y.Operator && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case nil:
		return b == nil
	}
	return false
}

// String renders the tree back to algebra text. Binary operators are left
// associative, so only a binary right operand needs parentheses.
func String(n Node) string {
	switch x := n.(type) {
	case *Relation:
		return x.Name
	case *UnaryOp:
		return fmt.Sprintf("%s %s (%s)", x.Operator, x.Parameter, String(x.Child))
	case *BinaryOp:
		right := String(x.Right)
		if _, ok := x.Right.(*BinaryOp); ok {
			right = "(" + right + ")"
		}
		return fmt.Sprintf("%s %s %s", String(x.Left), x.Operator, right)
	}
	return ""
}

// PrintTree renders an indented tree, one node per line
func PrintTree(n Node) string {
	var sb strings.Builder
	printTree(&sb, n, 0)
	return sb.String()
}

func printTree(sb *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch x := n.(type) {
	case *Relation:
		fmt.Fprintf(sb, "%s%s\n", indent, x.Name)
	case *UnaryOp:
		fmt.Fprintf(sb, "%s%s %s [%s]\n", indent, x.Operator, x.Operator.Name(), x.Parameter)
		printTree(sb, x.Child, depth+1)
	case *BinaryOp:
		fmt.Fprintf(sb, "%s%s %s\n", indent, x.Operator, x.Operator.Name())
		printTree(sb, x.Left, depth+1)
		printTree(sb, x.Right, depth+1)
	}
}

// LeftLeaf returns the left-most relation under n
func LeftLeaf(n Node) *Relation {
	for {
		switch x := n.(type) {
		case *Relation:
			return x
		case *UnaryOp:
			n = x.Child
		case *BinaryOp:
			n = x.Left
		default:
			return nil
		}
	}
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch x := n.(type) {
	case *UnaryOp:
		Walk(x.Child, fn)
	case *BinaryOp:
		Walk(x.Left, fn)
		Walk(x.Right, fn)
	}
}

// Relations lists base relation names in order of first appearance
func Relations(n Node) []string {
	seen := map[string]bool{}
	names := []string{}
	Walk(n, func(child Node) bool {
		if r, ok := child.(*Relation); ok && !seen[r.Name] {
			seen[r.Name] = true
			names = append(names, r.Name)
		}
		return true
	})
	return names
}
