package translator

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ratst-engine/ratst/engine/builders/mongodb"
	"github.com/ratst-engine/ratst/engine/models"
)

// Result is the generator's output. Exactly one of SQL (with Statement),
// Document, RelationRename or AttributeRename is set.
type Result struct {
	Dialect string

	SQL       string
	Statement *models.Select

	Document *DocumentQuery

	RelationRename  *RelationRename
	AttributeRename *AttributeRename
}

// DocumentQuery is an aggregate pipeline over one collection
type DocumentQuery struct {
	Collection string
	Pipeline   bson.A
}

// Command returns the aggregate command document
func (q *DocumentQuery) Command() bson.D {
	return mongodb.BuildAggregateCommand(q.Collection, q.Pipeline)
}

// JSON renders the aggregate command as relaxed Extended JSON
func (q *DocumentQuery) JSON() (string, error) {
	return mongodb.MarshalCommand(q.Command())
}

// IsRename reports whether the result is a rename descriptor
func (r *Result) IsRename() bool {
	return r.RelationRename != nil || r.AttributeRename != nil
}

// Text returns the query text, or a one-line description of a rename
func (r *Result) Text() (string, error) {
	switch {
	case r.RelationRename != nil:
		return fmt.Sprintf("rename relation %s to %s", r.RelationRename.Old, r.RelationRename.New), nil
	case r.AttributeRename != nil:
		a := r.AttributeRename
		return fmt.Sprintf("rename attribute %s.%s to %s", a.Relation, a.Old, a.New), nil
	case r.Document != nil:
		return r.Document.JSON()
	}
	return r.SQL, nil
}

// Fields returns the response keys:
//
//	{"result": ...}
//	{"result": ..., "collection": ...}                         MongoDB
//	{"new_relation_name": ..., "old_relation_name": ...}
//	{"relation_name": ..., "new_attribute_name": ..., "old_attribute_name": ...}
func (r *Result) Fields() (map[string]any, error) {
	switch {
	case r.RelationRename != nil:
		return map[string]any{
			"new_relation_name": r.RelationRename.New,
			"old_relation_name": r.RelationRename.Old,
		}, nil
	case r.AttributeRename != nil:
		return map[string]any{
			"relation_name":      r.AttributeRename.Relation,
			"new_attribute_name": r.AttributeRename.New,
			"old_attribute_name": r.AttributeRename.Old,
		}, nil
	case r.Document != nil:
		text, err := r.Document.JSON()
		if err != nil {
			return nil, err
		}
		return map[string]any{"result": text, "collection": r.Document.Collection}, nil
	}
	return map[string]any{"result": r.SQL}, nil
}

func (r *Result) MarshalJSON() ([]byte, error) {
	fields, err := r.Fields()
	if err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = Result{}
	switch {
	case fields["new_relation_name"] != "":
		r.RelationRename = &RelationRename{Old: fields["old_relation_name"], New: fields["new_relation_name"]}
	case fields["new_attribute_name"] != "":
		r.AttributeRename = &AttributeRename{
			Relation: fields["relation_name"],
			Old:      fields["old_attribute_name"],
			New:      fields["new_attribute_name"],
		}
	case fields["collection"] != "":
		doc, err := decodeCommand(fields["result"])
		if err != nil {
			return err
		}
		r.Document = doc
	default:
		r.SQL = fields["result"]
	}
	return nil
}

// Struct converts the response fields to a protobuf Struct
func (r *Result) Struct() (*structpb.Struct, error) {
	fields, err := r.Fields()
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(fields)
}

func decodeCommand(text string) (*DocumentQuery, error) {
	var cmd bson.D
	if err := bson.UnmarshalExtJSON([]byte(text), false, &cmd); err != nil {
		return nil, fmt.Errorf("failed to decode command: %w", err)
	}

	q := &DocumentQuery{}
	for _, e := range cmd {
		switch e.Key {
		case "aggregate":
			q.Collection, _ = e.Value.(string)
		case "pipeline":
			q.Pipeline, _ = e.Value.(bson.A)
		}
	}
	if q.Collection == "" {
		return nil, errors.New("failed to decode command: missing collection")
	}
	return q, nil
}
