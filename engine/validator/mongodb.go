package validator

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// MongoDB validates aggregate commands written as Extended JSON
type MongoDB struct{}

// Validate decodes the command and checks its aggregate shape
func (MongoDB) Validate(query string) error {
	var cmd bson.D
	if err := bson.UnmarshalExtJSON([]byte(query), false, &cmd); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return ValidateMongoDBCommand(cmd)
}

// ValidateWithDetails returns detailed validation result
func (v MongoDB) ValidateWithDetails(query string) (*ValidationResult, error) {
	return details(v.Validate(query)), nil
}

// ValidateMongoDBCommand checks that a command is an aggregate over a named
// collection whose pipeline stages each hold one operator
func ValidateMongoDBCommand(cmd bson.D) error {
	if len(cmd) == 0 || cmd[0].Key != "aggregate" {
		return fmt.Errorf("%w: command must start with 'aggregate'", ErrInvalidQuery)
	}
	if name, ok := cmd[0].Value.(string); !ok || name == "" {
		return fmt.Errorf("%w: missing collection name", ErrInvalidQuery)
	}

	var pipeline bson.A
	for _, e := range cmd[1:] {
		if e.Key == "pipeline" {
			p, ok := e.Value.(bson.A)
			if !ok {
				return fmt.Errorf("%w: pipeline must be an array", ErrInvalidQuery)
			}
			pipeline = p
		}
	}
	if pipeline == nil {
		return fmt.Errorf("%w: missing pipeline", ErrInvalidQuery)
	}

	for i, raw := range pipeline {
		stage, ok := raw.(bson.D)
		if !ok || len(stage) != 1 {
			return fmt.Errorf("%w: stage %d must be a document with one operator", ErrInvalidQuery, i)
		}
		if len(stage[0].Key) == 0 || stage[0].Key[0] != '$' {
			return fmt.Errorf("%w: stage %d has no operator", ErrInvalidQuery, i)
		}
	}
	return nil
}
