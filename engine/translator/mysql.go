package translator

import (
	"github.com/ratst-engine/ratst/engine/models"
	"github.com/ratst-engine/ratst/mapping"
)

// ============================================================================
// JOIN EMULATIONS (dialects without intersect, except or full join)
// ============================================================================

// markerColumn flags rows of the right side in a difference without known
// attributes
const markerColumn = "ratst_marker"

// intersectByJoin emits R ∩ S as a distinct inner join on the projected
// attributes, or a distinct natural join when none are known
func (g *relational) intersectByJoin(left, right *models.Select) *models.Select {
	columns := sharedColumns(left, right)
	lsrc := g.sideSource(left)
	rsrc := g.sideSource(right)

	if len(columns) == 0 {
		return &models.Select{
			Distinct: true,
			From:     lsrc,
			Joins:    []models.Join{{Clause: mapping.JoinClauses[g.dialect][mapping.Join], Source: rsrc}},
		}
	}
	return &models.Select{
		Distinct: true,
		Columns:  columns,
		From:     lsrc,
		Joins:    []models.Join{{Clause: mapping.InnerJoinClause, Source: rsrc, Using: columns}},
	}
}

// differenceByJoin emits R − S as a left join keeping the rows with no
// match on the right
func (g *relational) differenceByJoin(left, right *models.Select) *models.Select {
	columns := sharedColumns(left, right)
	lsrc := g.sideSource(left)

	if len(columns) == 0 {
		inner := g.sideSource(right)
		marked := &models.Select{
			Columns: []string{inner.Name() + ".*", "1 as " + markerColumn},
			From:    inner,
		}
		rsrc := &models.Source{Subquery: marked, Alias: g.alias()}
		return &models.Select{
			Columns: []string{lsrc.Name() + ".*"},
			From:    lsrc,
			Joins:   []models.Join{{Clause: mapping.JoinClauses[g.dialect][mapping.JoinLeft], Source: rsrc}},
			Where:   []models.Predicate{{Expr: rsrc.Alias + "." + markerColumn + " is null"}},
		}
	}

	rsrc := g.sideSource(right)
	return &models.Select{
		Columns: columns,
		From:    lsrc,
		Joins:   []models.Join{{Clause: mapping.LeftJoinClause, Source: rsrc, Using: columns}},
		Where:   []models.Predicate{{Expr: rsrc.Name() + "." + columns[0] + " is null"}},
	}
}

// fullJoinByUnion emits a natural full join as the union of the left and
// right natural outer joins
func (g *relational) fullJoinByUnion(left *models.Select, src *models.Source) *models.Select {
	leftJoin := left.Clone()
	leftJoin.Joins = append(leftJoin.Joins, models.Join{Clause: mapping.JoinClauses[g.dialect][mapping.JoinLeft], Source: src})

	rightJoin := left.Clone()
	rightJoin.Joins = append(rightJoin.Joins, models.Join{Clause: mapping.JoinClauses[g.dialect][mapping.JoinRight], Source: src})

	clause, _ := mapping.SetClause(g.dialect, mapping.Union)
	leftJoin.SetOps = []models.SetOperation{{Clause: clause, Query: rightJoin}}
	return leftJoin
}

// sharedColumns returns the attributes both sides are compared on: the
// left projection, else the right one. Wildcards name no attribute.
func sharedColumns(left, right *models.Select) []string {
	if columns := attributeColumns(left.Columns); len(columns) > 0 {
		return columns
	}
	return attributeColumns(right.Columns)
}

func attributeColumns(columns []string) []string {
	var out []string
	for _, c := range unqualified(columns) {
		if c != "*" {
			out = append(out, c)
		}
	}
	return out
}
