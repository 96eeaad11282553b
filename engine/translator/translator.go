package translator

import (
	"fmt"

	"github.com/ratst-engine/ratst/engine/ast"
	"github.com/ratst-engine/ratst/mapping"
)

// Option configures a translation
type Option func(*options)

type options struct {
	pluralize bool
}

// WithPluralCollections names MongoDB collections after the lowercased
// plural of the relation (Book → books)
func WithPluralCollections(enabled bool) Option {
	return func(o *options) {
		o.pluralize = enabled
	}
}

// Translate routes a tree to the generator for the target dialect.
// A rename at the root yields a rename descriptor for every dialect.
func Translate(node ast.Node, dialect string, opts ...Option) (*Result, error) {
	normalized, ok := mapping.NormalizeDialect(dialect)
	if !ok {
		return nil, fmt.Errorf("%w: %s (supported: %v)", ErrUnsupportedDialect, dialect, mapping.SupportedDialects)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if u, ok := node.(*ast.UnaryOp); ok && u.Operator == mapping.Rename {
		result, err := translateRename(u)
		if err != nil {
			return nil, err
		}
		result.Dialect = normalized
		return result, nil
	}

	switch mapping.DialectGroups[normalized] {
	case "RELATIONAL":
		return translateRelational(node, normalized)
	case "DOCUMENT":
		return translateDocument(node, o)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, dialect)
	}
}

// translateRelational - SQL dialects
func translateRelational(node ast.Node, dialect string) (*Result, error) {
	g := &relational{dialect: dialect}
	stmt, err := g.visit(node)
	if err != nil {
		return nil, err
	}
	return &Result{Dialect: dialect, Statement: stmt, SQL: buildSQL(stmt)}, nil
}

// translateDocument - MongoDB
func translateDocument(node ast.Node, o *options) (*Result, error) {
	g := &document{pluralize: o.pluralize}
	query, err := g.visit(node)
	if err != nil {
		return nil, err
	}
	return &Result{Dialect: mapping.MongoDB, Document: query}, nil
}
