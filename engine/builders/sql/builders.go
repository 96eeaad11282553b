package sql

import (
	"strings"

	"github.com/ratst-engine/ratst/engine/models"
)

// ============================================================================
// SELECT BUILDER
// ============================================================================

// BuildSelectSQL renders a statement as lowercase SQL text:
//
//	select [distinct] cols from src [joins] [where ...] [union|intersect|except ...]
func BuildSelectSQL(query *models.Select) string {
	var sb strings.Builder
	writeSelect(&sb, query)
	return sb.String()
}

func writeSelect(sb *strings.Builder, query *models.Select) {
	sb.WriteString("select ")
	if query.Distinct {
		sb.WriteString("distinct ")
	}
	if len(query.Columns) > 0 {
		sb.WriteString(strings.Join(query.Columns, ", "))
	} else {
		sb.WriteString("*")
	}

	if query.From != nil {
		sb.WriteString(" from ")
		writeSource(sb, query.From)
	}

	for _, join := range query.Joins {
		sb.WriteString(" ")
		sb.WriteString(join.Clause)
		sb.WriteString(" ")
		writeSource(sb, join.Source)
		if len(join.Using) > 0 {
			sb.WriteString(" using (")
			sb.WriteString(strings.Join(join.Using, ", "))
			sb.WriteString(")")
		}
	}

	if len(query.Where) > 0 {
		sb.WriteString(" where ")
		sb.WriteString(BuildWhereClause(query.Where))
	}

	for _, op := range query.SetOps {
		sb.WriteString(" ")
		sb.WriteString(op.Clause)
		sb.WriteString(" ")
		writeSelect(sb, op.Query)
	}
}

func writeSource(sb *strings.Builder, src *models.Source) {
	if src.Subquery != nil {
		sb.WriteString("(")
		writeSelect(sb, src.Subquery)
		sb.WriteString(")")
	} else {
		sb.WriteString(src.Table)
	}
	if src.Alias != "" {
		sb.WriteString(" as ")
		sb.WriteString(src.Alias)
	}
}

// ============================================================================
// HELPER FUNCTIONS
// ============================================================================

// BuildWhereClause joins predicates with "and". A disjunction is
// parenthesized when it shares the clause with other predicates.
func BuildWhereClause(predicates []models.Predicate) string {
	parts := make([]string, 0, len(predicates))
	for _, p := range predicates {
		if p.NotExists != nil {
			parts = append(parts, "not exists ("+BuildSelectSQL(p.NotExists)+")")
			continue
		}
		expr := strings.TrimSpace(p.Expr)
		if len(predicates) > 1 && hasTopLevelOr(expr) {
			expr = "(" + expr + ")"
		}
		parts = append(parts, expr)
	}
	return strings.Join(parts, " and ")
}

// hasTopLevelOr looks for an "or" outside quotes and parentheses
func hasTopLevelOr(expr string) bool {
	lower := strings.ToLower(expr)
	depth := 0
	var quote byte
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case depth == 0 && strings.HasPrefix(lower[i:], " or "):
			return true
		}
	}
	return false
}
