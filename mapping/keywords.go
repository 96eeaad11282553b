package mapping

import "strings"

// ReservedWords - words a relation or attribute may not be named, per dialect.
// Matching is case-insensitive; entries are upper case.
var ReservedWords = map[string][]string{
	MySQL: {
		"ADD", "ALL", "ALTER", "AND", "AS", "ASC", "BETWEEN", "BY", "CASE",
		"CHECK", "COLUMN", "CONSTRAINT", "CREATE", "CROSS", "DATABASE",
		"DEFAULT", "DELETE", "DESC", "DISTINCT", "DROP", "ELSE", "EXISTS",
		"FALSE", "FOR", "FOREIGN", "FROM", "FULL", "GRANT", "GROUP", "HAVING",
		"IF", "IN", "INDEX", "INNER", "INSERT", "INTERSECT", "INTO", "IS",
		"JOIN", "KEY", "LEFT", "LIKE", "LIMIT", "NATURAL", "NOT", "NULL", "ON",
		"OR", "ORDER", "OUTER", "PRIMARY", "REFERENCES", "RENAME", "REPLACE",
		"RIGHT", "SELECT", "SET", "TABLE", "THEN", "TO", "TRUE", "UNION",
		"UNIQUE", "UPDATE", "USING", "VALUES", "WHEN", "WHERE", "WITH", "EXCEPT",
	},
	PostgreSQL: {
		"ALL", "ANALYSE", "ANALYZE", "AND", "ANY", "ARRAY", "AS", "ASC",
		"ASYMMETRIC", "BOTH", "CASE", "CAST", "CHECK", "COLLATE", "COLUMN",
		"CONSTRAINT", "CREATE", "CROSS", "CURRENT_DATE", "CURRENT_TIME",
		"CURRENT_USER", "DEFAULT", "DEFERRABLE", "DESC", "DISTINCT", "DO",
		"ELSE", "END", "EXCEPT", "FALSE", "FETCH", "FOR", "FOREIGN", "FROM",
		"FULL", "GRANT", "GROUP", "HAVING", "IN", "INITIALLY", "INNER",
		"INTERSECT", "INTO", "IS", "JOIN", "LATERAL", "LEADING", "LEFT", "LIKE",
		"LIMIT", "NATURAL", "NOT", "NULL", "OFFSET", "ON", "ONLY", "OR", "ORDER",
		"OUTER", "PLACING", "PRIMARY", "REFERENCES", "RETURNING", "RIGHT",
		"SELECT", "SESSION_USER", "SOME", "SYMMETRIC", "TABLE", "THEN", "TO",
		"TRAILING", "TRUE", "UNION", "UNIQUE", "USER", "USING", "VARIADIC",
		"WHEN", "WHERE", "WINDOW", "WITH",
	},
	SQLite: {
		"ADD", "ALL", "ALTER", "AND", "AS", "AUTOINCREMENT", "BETWEEN", "CASE",
		"CHECK", "COLLATE", "COMMIT", "CONSTRAINT", "CREATE", "CROSS",
		"DEFAULT", "DEFERRABLE", "DELETE", "DISTINCT", "DROP", "ELSE", "ESCAPE",
		"EXCEPT", "EXISTS", "FOREIGN", "FROM", "FULL", "GROUP", "HAVING", "IN",
		"INDEX", "INNER", "INSERT", "INTERSECT", "INTO", "IS", "ISNULL", "JOIN",
		"LEFT", "LIMIT", "NATURAL", "NOT", "NOTNULL", "NULL", "ON", "OR",
		"ORDER", "OUTER", "PRIMARY", "REFERENCES", "RIGHT", "ROLLBACK",
		"SELECT", "SET", "TABLE", "THEN", "TO", "TRANSACTION", "UNION",
		"UNIQUE", "UPDATE", "USING", "VALUES", "WHEN", "WHERE",
	},
	MongoDB: {},
}

// ReservedWordsFor returns the reserved words of a dialect (nil if unknown)
func ReservedWordsFor(dialect string) []string {
	return ReservedWords[dialect]
}

// IsReservedWord checks a name against a dialect's reserved words
func IsReservedWord(dialect, name string) bool {
	upper := strings.ToUpper(name)
	for _, word := range ReservedWords[dialect] {
		if word == upper {
			return true
		}
	}
	return false
}
