package values

import (
	"fmt"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`(?i)^[_a-z][_a-z0-9]*$`)

// Roles of the names an IdentifierError can be about
const (
	RoleRelation  = "relation"
	RoleAttribute = "attribute"
)

// IdentifierError reports an invalid relation or attribute name
type IdentifierError struct {
	Name     string
	Reason   string
	Role     string // RoleRelation when empty
	Position int
}

func (e *IdentifierError) Error() string {
	role := e.Role
	if role == "" {
		role = RoleRelation
	}
	return fmt.Sprintf("'%s' is not a valid %s name: %s", e.Name, role, e.Reason)
}

// MatchesIdentifier checks the identifier grammar only
func MatchesIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// IdentifierValidator checks names against the identifier grammar and a
// set of reserved words supplied by the caller.
type IdentifierValidator struct {
	reserved map[string]struct{}
}

// NewIdentifierValidator creates a validator rejecting the given words
// (case-insensitively)
func NewIdentifierValidator(reserved []string) *IdentifierValidator {
	v := &IdentifierValidator{reserved: make(map[string]struct{}, len(reserved))}
	for _, word := range reserved {
		v.reserved[strings.ToUpper(word)] = struct{}{}
	}
	return v
}

// IsValid reports whether name can be used as a relation or attribute name
func (v *IdentifierValidator) IsValid(name string) bool {
	return v.Validate(name) == nil
}

// Validate returns an *IdentifierError describing why name is invalid
func (v *IdentifierValidator) Validate(name string) error {
	if !MatchesIdentifier(name) {
		return &IdentifierError{Name: name, Reason: "names start with a letter or '_' and contain only letters, digits and '_'"}
	}
	if v.IsReserved(name) {
		return &IdentifierError{Name: name, Reason: "reserved word"}
	}
	return nil
}

// IsReserved checks the reserved word set
func (v *IdentifierValidator) IsReserved(name string) bool {
	if v == nil {
		return false
	}
	_, ok := v.reserved[strings.ToUpper(name)]
	return ok
}
