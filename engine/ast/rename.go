package ast

import (
	"fmt"
	"strings"

	"github.com/ratst-engine/ratst/mapping"
)

// AttributeRename is one old → new pair of a ρ parameter
type AttributeRename struct {
	Old string
	New string
}

// RenameSpec is a parsed ρ parameter. Exactly one of Relation or
// Attributes is set.
type RenameSpec struct {
	Relation   string
	Attributes []AttributeRename
}

// IsRelation reports whether the relation itself is renamed
func (s RenameSpec) IsRelation() bool {
	return len(s.Attributes) == 0
}

// ParseRename splits a ρ parameter. Accepted forms:
//
//	ρ Staff (Employee)          relation rename
//	ρ surname/name (Employee)   attribute rename, new/old
//	ρ name➡surname (Employee)   attribute rename, old➡new
//
// Attribute forms take a comma separated list of pairs.
func ParseRename(param string) (RenameSpec, error) {
	param = strings.TrimSpace(param)
	if param == "" {
		return RenameSpec{}, fmt.Errorf("empty rename parameter")
	}

	arrow := renameArrow(param)
	if arrow == "" && !strings.Contains(param, mapping.RenameSeparator) {
		if strings.Contains(param, ",") {
			return RenameSpec{}, fmt.Errorf("relation rename takes a single name, got '%s'", param)
		}
		return RenameSpec{Relation: param}, nil
	}

	spec := RenameSpec{}
	for _, pair := range strings.Split(param, ",") {
		pair = strings.TrimSpace(pair)
		var parts []string
		if arrow != "" {
			parts = strings.Split(pair, arrow)
		} else {
			parts = strings.Split(pair, mapping.RenameSeparator)
		}
		if len(parts) != 2 {
			return RenameSpec{}, fmt.Errorf("malformed attribute rename '%s'", pair)
		}

		left, right := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if left == "" || right == "" {
			return RenameSpec{}, fmt.Errorf("malformed attribute rename '%s'", pair)
		}
		if arrow != "" {
			spec.Attributes = append(spec.Attributes, AttributeRename{Old: left, New: right})
		} else {
			spec.Attributes = append(spec.Attributes, AttributeRename{Old: right, New: left})
		}
	}
	return spec, nil
}

// Names returns every identifier the rename introduces or refers to
func (s RenameSpec) Names() []string {
	if s.IsRelation() {
		return []string{s.Relation}
	}
	names := make([]string, 0, 2*len(s.Attributes))
	for _, a := range s.Attributes {
		names = append(names, a.Old, a.New)
	}
	return names
}

func renameArrow(param string) string {
	for _, arrow := range mapping.RenameArrows {
		if strings.Contains(param, arrow) {
			return arrow
		}
	}
	return ""
}
