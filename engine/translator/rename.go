package translator

import (
	"github.com/ratst-engine/ratst/engine/ast"
	"github.com/ratst-engine/ratst/mapping"
)

// RelationRename is the result of ρ New (Old)
type RelationRename struct {
	Old string
	New string
}

// AttributeRename is the result of ρ new/old (Relation)
type AttributeRename struct {
	Relation string
	Old      string
	New      string
}

// translateRename short-circuits generation: a rename produces a
// descriptor, never a query
func translateRename(n *ast.UnaryOp) (*Result, error) {
	rel, ok := n.Child.(*ast.Relation)
	if !ok {
		return nil, generationError(mapping.Rename, "rename applies to a relation name, got '%s'", ast.String(n.Child))
	}

	spec, err := ast.ParseRename(n.Parameter)
	if err != nil {
		return nil, generationError(mapping.Rename, "%s", err.Error())
	}

	if spec.IsRelation() {
		return &Result{RelationRename: &RelationRename{Old: rel.Name, New: spec.Relation}}, nil
	}
	if len(spec.Attributes) > 1 {
		return nil, generationError(mapping.Rename, "one attribute can be renamed at a time, got %d", len(spec.Attributes))
	}

	attr := spec.Attributes[0]
	return &Result{AttributeRename: &AttributeRename{Relation: rel.Name, Old: attr.Old, New: attr.New}}, nil
}
