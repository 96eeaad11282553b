package validator

import (
	"fmt"

	"github.com/xwb1989/sqlparser"
)

// MySQL validates MySQL syntax
type MySQL struct{}

// Validate parses the query with the MySQL grammar
func (MySQL) Validate(query string) error {
	if _, err := sqlparser.Parse(query); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return nil
}

// ValidateWithDetails returns detailed validation result
func (v MySQL) ValidateWithDetails(query string) (*ValidationResult, error) {
	return details(v.Validate(query)), nil
}
