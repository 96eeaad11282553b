package mapping

// JoinClauses - SQL join keyword emitted for each binary operator.
// A missing entry means the dialect has no native form and the generator
// emulates it (MySQL full outer join) or rejects it.
var JoinClauses = map[string]map[Operator]string{
	MySQL: {
		Product:   "cross join",
		Join:      "natural join",
		JoinLeft:  "natural left join",
		JoinRight: "natural right join",
	},
	PostgreSQL: {
		Product:   "cross join",
		Join:      "natural join",
		JoinLeft:  "natural left join",
		JoinRight: "natural right join",
		JoinFull:  "natural full join",
	},
	SQLite: {
		Product:   "cross join",
		Join:      "natural join",
		JoinLeft:  "natural left join",
		JoinRight: "natural right join",
		JoinFull:  "natural full join",
	},
}

// SetClauses - SQL set operation keyword per binary operator.
// MySQL gets union only; intersection and difference are rewritten as joins.
var SetClauses = map[string]map[Operator]string{
	MySQL: {
		Union: "union",
	},
	PostgreSQL: {
		Union:        "union",
		Intersection: "intersect",
		Difference:   "except",
	},
	SQLite: {
		Union:        "union",
		Intersection: "intersect",
		Difference:   "except",
	},
}

// Plain join keywords used by emulations
const (
	InnerJoinClause = "inner join"
	LeftJoinClause  = "left join"
)

// JoinClause returns the dialect's join keyword for an operator
func JoinClause(dialect string, op Operator) (string, bool) {
	clause, ok := JoinClauses[dialect][op]
	return clause, ok
}

// SetClause returns the dialect's native set operation keyword, if any
func SetClause(dialect string, op Operator) (string, bool) {
	clause, ok := SetClauses[dialect][op]
	return clause, ok
}

