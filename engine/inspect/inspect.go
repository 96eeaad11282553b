// Package inspect reads generated SQL back and reports what it touches.
// It parses with the TiDB MySQL grammar, which also accepts the intersect
// and except forms emitted for the other SQL dialects.
package inspect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	_ "github.com/pingcap/tidb/parser/test_driver"
)

// ============================================================================
// ERRORS
// ============================================================================

var (
	ErrParseError = errors.New("failed to parse query")
	ErrEmptyQuery = errors.New("empty query")
)

// Summary describes one generated statement
type Summary struct {
	Relations     []string // base tables in order of first reference
	DerivedTables []string // aliases of derived tables
	SetOperations int
	Subqueries    int
	Joins         int
	Distinct      bool
}

// ============================================================================
// ENTRY POINT
// ============================================================================

// Analyze parses a statement and summarizes it
func Analyze(sql string) (*Summary, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, ErrEmptyQuery
	}

	p := parser.New()
	stmts, _, err := p.Parse(sql, "", "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseError, err)
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("%w: empty statement", ErrParseError)
	}

	v := &collector{seen: map[string]bool{}, summary: &Summary{}}
	stmts[0].Accept(v)
	return v.summary, nil
}

// Relations lists the base tables a statement reads
func Relations(sql string) ([]string, error) {
	s, err := Analyze(sql)
	if err != nil {
		return nil, err
	}
	return s.Relations, nil
}

// ============================================================================
// VISITOR
// ============================================================================

type collector struct {
	seen    map[string]bool
	summary *Summary
}

func (c *collector) Enter(n ast.Node) (ast.Node, bool) {
	switch node := n.(type) {
	case *ast.TableName:
		name := node.Name.O
		if !c.seen[name] {
			c.seen[name] = true
			c.summary.Relations = append(c.summary.Relations, name)
		}
	case *ast.TableSource:
		if _, ok := node.Source.(*ast.TableName); !ok && node.AsName.O != "" {
			c.summary.DerivedTables = append(c.summary.DerivedTables, node.AsName.O)
		}
	case *ast.Join:
		if node.Right != nil {
			c.summary.Joins++
		}
	case *ast.SetOprStmt:
		if node.SelectList != nil && len(node.SelectList.Selects) > 1 {
			c.summary.SetOperations += len(node.SelectList.Selects) - 1
		}
	case *ast.SubqueryExpr:
		c.summary.Subqueries++
	case *ast.SelectStmt:
		if node.Distinct {
			c.summary.Distinct = true
		}
	}
	return n, false
}

func (c *collector) Leave(n ast.Node) (ast.Node, bool) {
	return n, true
}
