package eval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/ratst-engine/ratst/engine/values"
)

// Null fills the attributes an outer join could not match
const Null = ""

// Tuple holds raw attribute values in the relation's attribute order
type Tuple []string

// Relation is a named set of tuples over an ordered attribute list
type Relation struct {
	Name       string   `json:"name,omitempty"`
	Attributes []string `json:"attributes"`
	Tuples     []Tuple  `json:"tuples"`
}

// Bindings maps relation names to their contents
type Bindings map[string]*Relation

// NewRelation builds a relation and drops duplicate tuples
func NewRelation(name string, attributes []string, tuples ...Tuple) (*Relation, error) {
	r := &Relation{Name: name, Attributes: attributes}
	for _, t := range tuples {
		if len(t) != len(attributes) {
			return nil, fmt.Errorf("%w: tuple %v has %d values, %s has %d attributes",
				ErrMalformedRelation, t, len(t), name, len(attributes))
		}
	}
	seen := map[string]bool{}
	for _, t := range tuples {
		r.add(seen, t)
	}
	return r, nil
}

// Index returns the position of an attribute, or -1. A qualified name
// R.a matches the attribute R.a or, failing that, a.
func (r *Relation) Index(attribute string) int {
	if i := slices.Index(r.Attributes, attribute); i >= 0 {
		return i
	}
	if dot := strings.LastIndex(attribute, "."); dot >= 0 {
		return slices.Index(r.Attributes, attribute[dot+1:])
	}
	return -1
}

// Len returns the number of tuples
func (r *Relation) Len() int {
	return len(r.Tuples)
}

func (r *Relation) add(seen map[string]bool, t Tuple) {
	k := key(t)
	if seen[k] {
		return
	}
	seen[k] = true
	r.Tuples = append(r.Tuples, t)
}

func (r *Relation) keys() map[string]bool {
	set := make(map[string]bool, len(r.Tuples))
	for _, t := range r.Tuples {
		set[key(t)] = true
	}
	return set
}

// key identifies a tuple by its classified values, so 1 and 1.0 collide
func key(t Tuple) string {
	parts := make([]string, len(t))
	for i, raw := range t {
		v := values.Classify(raw)
		if v.Big != nil {
			parts[i] = v.Big.String()
			continue
		}
		if n, ok := v.Number(); ok {
			parts[i] = strconv.FormatFloat(n, 'g', -1, 64)
			continue
		}
		parts[i] = v.String()
	}
	return strings.Join(parts, "\x00")
}

// ============================================================================
// DECODING
// ============================================================================

// UnmarshalJSON accepts tuple values as strings, numbers or booleans
func (r *Relation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name       string   `json:"name"`
		Attributes []string `json:"attributes"`
		Tuples     [][]any  `json:"tuples"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	tuples := make([]Tuple, 0, len(raw.Tuples))
	for _, row := range raw.Tuples {
		t := make(Tuple, len(row))
		for i, v := range row {
			switch x := v.(type) {
			case nil:
				t[i] = Null
			case string:
				t[i] = x
			case json.Number:
				t[i] = x.String()
			case bool:
				t[i] = strconv.FormatBool(x)
			default:
				return fmt.Errorf("%w: unsupported value %v", ErrMalformedRelation, v)
			}
		}
		tuples = append(tuples, t)
	}

	built, err := NewRelation(raw.Name, raw.Attributes, tuples...)
	if err != nil {
		return err
	}
	*r = *built
	return nil
}

// DecodeBindings reads a JSON object of relation name → relation. The
// map key names the relation.
func DecodeBindings(rd io.Reader) (Bindings, error) {
	var b Bindings
	if err := json.NewDecoder(rd).Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRelation, err)
	}
	for name, r := range b {
		if r == nil {
			return nil, fmt.Errorf("%w: relation %s is null", ErrMalformedRelation, name)
		}
		r.Name = name
	}
	return b, nil
}
