package validator

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v5"
)

// PostgreSQL validates PostgreSQL syntax
type PostgreSQL struct{}

// Validate parses the query with the PostgreSQL grammar
func (PostgreSQL) Validate(query string) error {
	if _, err := pg_query.Parse(query); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return nil
}

// ValidateWithDetails returns detailed validation result
func (v PostgreSQL) ValidateWithDetails(query string) (*ValidationResult, error) {
	return details(v.Validate(query)), nil
}

// SQLite validates SQLite output. The generator emits the same statement
// shapes for SQLite and PostgreSQL, so the PostgreSQL grammar checks both.
type SQLite struct{}

func (SQLite) Validate(query string) error {
	return PostgreSQL{}.Validate(query)
}

func (SQLite) ValidateWithDetails(query string) (*ValidationResult, error) {
	return PostgreSQL{}.ValidateWithDetails(query)
}
