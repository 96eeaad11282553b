package translator

import (
	"strings"

	"github.com/jinzhu/inflection"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ratst-engine/ratst/engine/ast"
	"github.com/ratst-engine/ratst/engine/builders/mongodb"
	"github.com/ratst-engine/ratst/engine/condition"
	"github.com/ratst-engine/ratst/mapping"
)

// document composes an aggregate pipeline bottom-up. Relations map to
// collections; σ, π, ∪ and × map to pipeline stages.
type document struct {
	pluralize bool
}

func (g *document) visit(node ast.Node) (*DocumentQuery, error) {
	switch n := node.(type) {
	case *ast.Relation:
		return &DocumentQuery{Collection: g.collectionName(n.Name), Pipeline: bson.A{}}, nil
	case *ast.UnaryOp:
		return g.visitUnary(n)
	case *ast.BinaryOp:
		return g.visitBinary(n)
	}
	return nil, generationError("", "unexpected node %T", node)
}

func (g *document) visitUnary(n *ast.UnaryOp) (*DocumentQuery, error) {
	if n.Operator == mapping.Rename {
		return nil, generationError(mapping.Rename, "rename is only supported as the outermost operator")
	}

	child, err := g.visit(n.Child)
	if err != nil {
		return nil, err
	}

	switch n.Operator {
	case mapping.Selection:
		expr, err := condition.Parse(n.Parameter)
		if err != nil {
			return nil, generationError(mapping.Selection, "%s", err.Error())
		}
		filter, err := mongodb.BuildMongoFilter(expr)
		if err != nil {
			return nil, generationError(mapping.Selection, "%s", err.Error())
		}
		child.Pipeline = append(child.Pipeline, mongodb.BuildMatchStage(filter))
		return child, nil

	case mapping.Projection:
		columns, err := splitColumns(n.Parameter)
		if err != nil {
			return nil, err
		}
		child.Pipeline = append(child.Pipeline, mongodb.BuildProjectStage(columns))
		return child, nil
	}
	return nil, generationError(n.Operator, "unknown unary operator")
}

func (g *document) visitBinary(n *ast.BinaryOp) (*DocumentQuery, error) {
	if n.Operator != mapping.Union && n.Operator != mapping.Product {
		return nil, generationError(n.Operator, "not supported for %s", mapping.MongoDB)
	}

	left, err := g.visit(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := g.visit(n.Right)
	if err != nil {
		return nil, err
	}

	if n.Operator == mapping.Union {
		left.Pipeline = append(left.Pipeline, mongodb.BuildUnionStage(right.Collection, right.Pipeline))
	} else {
		left.Pipeline = append(left.Pipeline, mongodb.BuildProductStages(right.Collection, right.Pipeline)...)
	}
	return left, nil
}

// collectionName applies the collection naming rule
func (g *document) collectionName(relation string) string {
	if g.pluralize {
		return inflection.Plural(strings.ToLower(relation))
	}
	return relation
}
