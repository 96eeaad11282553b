package mapping

import "strings"

// Dialect names accepted by the translator.
const (
	MySQL      = "MySQL"
	PostgreSQL = "PostgreSQL"
	SQLite     = "SQLite"
	MongoDB    = "MongoDB"
)

// DefaultDialect is the target when none is requested.
const DefaultDialect = MySQL

// SupportedDialects lists all dialects the generator can emit.
// Callers must use these exact names (NormalizeDialect accepts any casing).
var SupportedDialects = []string{
	MySQL,
	PostgreSQL,
	SQLite,
	MongoDB,
}

// DialectGroups maps each dialect to the translator family that serves it
var DialectGroups = map[string]string{
	MySQL:      "RELATIONAL",
	PostgreSQL: "RELATIONAL",
	SQLite:     "RELATIONAL",
	MongoDB:    "DOCUMENT",
}

// IsRelational checks if the dialect is rendered as SQL text
func IsRelational(dialect string) bool {
	return DialectGroups[dialect] == "RELATIONAL"
}

// IsSupportedDialect checks if a dialect name is supported (exact match)
func IsSupportedDialect(dialect string) bool {
	for _, d := range SupportedDialects {
		if d == dialect {
			return true
		}
	}
	return false
}

// NormalizeDialect maps any casing of a supported dialect ("mysql", "Postgres")
// to its canonical name. An empty name resolves to DefaultDialect.
func NormalizeDialect(dialect string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(dialect))
	switch name {
	case "":
		return DefaultDialect, true
	case "postgres", "pg":
		return PostgreSQL, true
	case "mongo":
		return MongoDB, true
	}
	for _, d := range SupportedDialects {
		if strings.ToLower(d) == name {
			return d, true
		}
	}
	return "", false
}
