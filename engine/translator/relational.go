package translator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ratst-engine/ratst/engine/ast"
	sqlbuilder "github.com/ratst-engine/ratst/engine/builders/sql"
	"github.com/ratst-engine/ratst/engine/models"
	"github.com/ratst-engine/ratst/mapping"
)

// relational composes a models.Select bottom-up. Every derived table gets
// the next alias t1, t2, ... in post-order.
type relational struct {
	dialect string
	aliases int
}

func buildSQL(stmt *models.Select) string {
	return sqlbuilder.BuildSelectSQL(stmt)
}

func (g *relational) visit(node ast.Node) (*models.Select, error) {
	switch n := node.(type) {
	case *ast.Relation:
		return &models.Select{From: &models.Source{Table: n.Name}}, nil
	case *ast.UnaryOp:
		return g.visitUnary(n)
	case *ast.BinaryOp:
		return g.visitBinary(n)
	}
	return nil, generationError("", "unexpected node %T", node)
}

// ============================================================================
// UNARY OPERATORS
// ============================================================================

func (g *relational) visitUnary(n *ast.UnaryOp) (*models.Select, error) {
	if n.Operator == mapping.Rename {
		return nil, generationError(mapping.Rename, "rename is only supported as the outermost operator")
	}

	child, err := g.visit(n.Child)
	if err != nil {
		return nil, err
	}

	switch n.Operator {
	case mapping.Projection:
		columns, err := splitColumns(n.Parameter)
		if err != nil {
			return nil, err
		}
		if len(child.SetOps) > 0 || child.Distinct {
			child = g.wrap(child)
		}
		child.Columns = columns
		return child, nil

	case mapping.Selection:
		if len(child.SetOps) > 0 || child.Distinct {
			child = g.wrap(child)
		}
		child.Where = append(child.Where, models.Predicate{Expr: TranslateConnectives(n.Parameter, g.dialect)})
		return child, nil
	}
	return nil, generationError(n.Operator, "unknown unary operator")
}

// splitColumns splits a projection list, rejecting empty entries
func splitColumns(param string) ([]string, error) {
	parts := strings.Split(param, ",")
	columns := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, generationError(mapping.Projection, "empty attribute in '%s'", param)
		}
		columns = append(columns, p)
	}
	return columns, nil
}

// ============================================================================
// BINARY OPERATORS
// ============================================================================

func (g *relational) visitBinary(n *ast.BinaryOp) (*models.Select, error) {
	left, err := g.visit(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := g.visit(n.Right)
	if err != nil {
		return nil, err
	}

	switch {
	case n.Operator == mapping.Product || n.Operator.IsJoin():
		return g.join(n.Operator, left, right)
	case n.Operator == mapping.Division:
		return g.division(left, right)
	}

	if clause, ok := mapping.SetClause(g.dialect, n.Operator); ok {
		return g.setOperation(clause, left, right), nil
	}

	switch n.Operator {
	case mapping.Intersection:
		return g.intersectByJoin(left, right), nil
	case mapping.Difference:
		return g.differenceByJoin(left, right), nil
	}
	return nil, generationError(n.Operator, "not supported for %s", g.dialect)
}

// join appends the right side to the left statement's FROM clause
func (g *relational) join(op mapping.Operator, left, right *models.Select) (*models.Select, error) {
	if !joinable(left) {
		left = g.wrap(left)
	}
	src := g.asSource(right)

	clause, ok := mapping.JoinClause(g.dialect, op)
	if ok {
		left.Joins = append(left.Joins, models.Join{Clause: clause, Source: src})
		return left, nil
	}

	if op == mapping.JoinFull {
		return g.fullJoinByUnion(left, src), nil
	}
	return nil, generationError(op, "not supported for %s", g.dialect)
}

// setOperation appends a native union/intersect/except
func (g *relational) setOperation(clause string, left, right *models.Select) *models.Select {
	for _, op := range left.SetOps {
		if op.Clause != clause {
			left = g.wrap(left)
			break
		}
	}
	if len(right.SetOps) > 0 {
		right = g.wrap(right)
	}
	left.SetOps = append(left.SetOps, models.SetOperation{Clause: clause, Query: right})
	return left
}

// division emits the double NOT EXISTS form: the quotient rows of the
// left side for which no right row is missing a matching left row
func (g *relational) division(left, right *models.Select) (*models.Select, error) {
	if len(left.Columns) == 0 || len(right.Columns) == 0 {
		return nil, generationError(mapping.Division, "both operands need a projection so the quotient attributes are known")
	}

	dividend := unqualified(left.Columns)
	divisor := unqualified(right.Columns)
	inDivisor := map[string]bool{}
	for _, c := range divisor {
		if !slices.Contains(dividend, c) {
			return nil, generationError(mapping.Division, "divisor attribute '%s' is not projected by the left operand", c)
		}
		inDivisor[c] = true
	}
	var quotient []string
	for _, c := range dividend {
		if !inDivisor[c] {
			quotient = append(quotient, c)
		}
	}
	if len(quotient) == 0 {
		return nil, generationError(mapping.Division, "the left operand has no attributes outside the divisor")
	}

	outer, div, inner := g.alias(), g.alias(), g.alias()

	var match []string
	for _, c := range quotient {
		match = append(match, fmt.Sprintf("%s.%s = %s.%s", inner, c, outer, c))
	}
	for _, c := range divisor {
		match = append(match, fmt.Sprintf("%s.%s = %s.%s", inner, c, div, c))
	}

	innermost := &models.Select{
		From:  g.aliasedSource(left, inner),
		Where: []models.Predicate{{Expr: strings.Join(match, " and ")}},
	}
	middle := &models.Select{
		From:  g.aliasedSource(right, div),
		Where: []models.Predicate{{NotExists: innermost}},
	}

	columns := make([]string, len(quotient))
	for i, c := range quotient {
		columns[i] = outer + "." + c
	}
	return &models.Select{
		Distinct: true,
		Columns:  columns,
		From:     g.aliasedSource(left, outer),
		Where:    []models.Predicate{{NotExists: middle}},
	}, nil
}

// ============================================================================
// HELPERS
// ============================================================================

// wrap turns a statement into a derived table of a new statement
func (g *relational) wrap(stmt *models.Select) *models.Select {
	return &models.Select{From: &models.Source{Subquery: stmt, Alias: g.alias()}}
}

func (g *relational) alias() string {
	g.aliases++
	return fmt.Sprintf("t%d", g.aliases)
}

// asSource references a statement from a FROM or JOIN clause
func (g *relational) asSource(stmt *models.Select) *models.Source {
	if stmt.IsBare() {
		return &models.Source{Table: stmt.From.Table}
	}
	return &models.Source{Subquery: stmt, Alias: g.alias()}
}

// sideSource is asSource for operands whose projection can be dropped
// because the enclosing statement names its own columns
func (g *relational) sideSource(stmt *models.Select) *models.Source {
	if readsTable(stmt) {
		return &models.Source{Table: stmt.From.Table}
	}
	return &models.Source{Subquery: stmt, Alias: g.alias()}
}

// aliasedSource is sideSource with a mandatory alias
func (g *relational) aliasedSource(stmt *models.Select, alias string) *models.Source {
	if readsTable(stmt) {
		return &models.Source{Table: stmt.From.Table, Alias: alias}
	}
	return &models.Source{Subquery: stmt, Alias: alias}
}

// readsTable reports whether a statement is one table, possibly projected
func readsTable(stmt *models.Select) bool {
	return !stmt.Distinct && len(stmt.Joins) == 0 && len(stmt.Where) == 0 &&
		len(stmt.SetOps) == 0 && stmt.From != nil && stmt.From.Subquery == nil && stmt.From.Alias == ""
}

// joinable reports whether more joins can be appended to the statement
func joinable(stmt *models.Select) bool {
	return !stmt.Distinct && len(stmt.Columns) == 0 && len(stmt.Where) == 0 && len(stmt.SetOps) == 0
}

// unqualified strips relation prefixes: Books.author → author
func unqualified(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		if dot := strings.LastIndex(c, "."); dot >= 0 {
			c = c[dot+1:]
		}
		out[i] = c
	}
	return out
}

// TranslateConnectives rewrites the logical and comparison symbols of a
// selection condition into the dialect's SQL spelling. Text inside single
// or double quotes is copied unchanged.
func TranslateConnectives(cond, dialect string) string {
	table := mapping.ConnectiveMap[dialect]
	if table == nil {
		table = mapping.ConnectiveMap[mapping.DefaultDialect]
	}

	runes := []rune(cond)
	var sb strings.Builder
	var quote rune
	escaped := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if quote != 0 {
			sb.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			}
			continue
		}
		if r == '\'' || r == '"' {
			quote = r
			sb.WriteRune(r)
			continue
		}

		symbol := string(r)
		if i+1 < len(runes) {
			if _, ok := table[string(runes[i:i+2])]; ok {
				symbol = string(runes[i : i+2])
			}
		}
		replacement, ok := table[symbol]
		if !ok {
			sb.WriteRune(r)
			continue
		}
		i += len([]rune(symbol)) - 1

		if !mapping.WordConnectives[replacement] {
			sb.WriteString(replacement)
			continue
		}
		// word connectives get exactly one space on each side
		trimmed := strings.TrimRight(sb.String(), " \t")
		sb.Reset()
		sb.WriteString(trimmed)
		if trimmed != "" && !strings.HasSuffix(trimmed, "(") {
			sb.WriteString(" ")
		}
		sb.WriteString(replacement)
		sb.WriteString(" ")
		for i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\t') {
			i++
		}
	}
	return strings.TrimSpace(sb.String())
}
