package validator

import (
	"errors"
	"fmt"

	"github.com/ratst-engine/ratst/mapping"
)

// ErrInvalidQuery is wrapped by every syntax failure
var ErrInvalidQuery = errors.New("generated query does not parse")

// Validator validates generated queries
type Validator interface {
	Validate(query string) error
	ValidateWithDetails(query string) (*ValidationResult, error)
}

// ValidationResult contains detailed validation info
type ValidationResult struct {
	Valid bool
	Error string
}

// ForDialect returns the validator for a dialect
func ForDialect(dialect string) (Validator, error) {
	switch dialect {
	case mapping.MySQL:
		return MySQL{}, nil
	case mapping.PostgreSQL:
		return PostgreSQL{}, nil
	case mapping.SQLite:
		return SQLite{}, nil
	case mapping.MongoDB:
		return MongoDB{}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// ValidateQuery validates a generated query for its dialect
func ValidateQuery(query string, dialect string) error {
	v, err := ForDialect(dialect)
	if err != nil {
		return err
	}
	return v.Validate(query)
}

// ValidateQueryWithDetails returns detailed validation result
func ValidateQueryWithDetails(query string, dialect string) (*ValidationResult, error) {
	v, err := ForDialect(dialect)
	if err != nil {
		return nil, err
	}
	return v.ValidateWithDetails(query)
}

func details(err error) *ValidationResult {
	if err != nil {
		return &ValidationResult{Valid: false, Error: err.Error()}
	}
	return &ValidationResult{Valid: true}
}
