package mongodb

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ratst-engine/ratst/engine/condition"
	"github.com/ratst-engine/ratst/engine/values"
	"github.com/ratst-engine/ratst/mapping"
)

// ============================================================================
// FILTERS
// ============================================================================

// BuildMongoFilter converts a selection condition into a $match filter.
// attribute = literal becomes {attribute: literal}; other comparisons use
// the operator form; comparisons between two attributes go through $expr.
func BuildMongoFilter(expr condition.Expression) (bson.D, error) {
	switch x := expr.(type) {
	case *condition.LogicalOperator:
		key := mapping.OperatorMap[mapping.MongoDB]["AND"]
		if x.Operator == condition.Or {
			key = mapping.OperatorMap[mapping.MongoDB]["OR"]
		}
		parts := bson.A{}
		for _, operand := range flatten(x) {
			filter, err := BuildMongoFilter(operand)
			if err != nil {
				return nil, err
			}
			parts = append(parts, filter)
		}
		return bson.D{{Key: key, Value: parts}}, nil

	case *condition.Not:
		inner, err := BuildMongoFilter(x.Expression)
		if err != nil {
			return nil, err
		}
		return bson.D{{Key: mapping.OperatorMap[mapping.MongoDB]["NOT"], Value: bson.A{inner}}}, nil

	case *condition.Comparison:
		return buildComparisonFilter(x)
	}
	return nil, fmt.Errorf("unsupported condition %T", expr)
}

func buildComparisonFilter(c *condition.Comparison) (bson.D, error) {
	if c.Right == nil {
		return bson.D{{Key: "$expr", Value: exprOperand(c.Left)}}, nil
	}

	op := c.Operator
	left, right := c.Left, c.Right
	if _, ok := left.(condition.Attribute); !ok {
		if _, ok := right.(condition.Attribute); ok {
			left, right = right, left
			op = mapping.FlippedComparisons[op]
		}
	}

	mongoOp, ok := mapping.OperatorMap[mapping.MongoDB][op]
	if !ok {
		return nil, fmt.Errorf("unsupported comparison '%s'", c.Operator)
	}

	attr, leftIsAttr := left.(condition.Attribute)
	lit, rightIsLit := right.(*condition.Literal)
	if !leftIsAttr || !rightIsLit {
		return bson.D{{Key: "$expr", Value: bson.D{{Key: mongoOp, Value: bson.A{exprOperand(left), exprOperand(right)}}}}}, nil
	}

	if op == "=" {
		return bson.D{{Key: attr.Name, Value: ParseMongoValue(lit)}}, nil
	}
	return bson.D{{Key: attr.Name, Value: bson.D{{Key: mongoOp, Value: ParseMongoValue(lit)}}}}, nil
}

// flatten collects the operands of a chain of the same connective, so
// a ∧ b ∧ c becomes one $and with three entries
func flatten(x *condition.LogicalOperator) []condition.Expression {
	var out []condition.Expression
	for _, side := range []condition.Expression{x.Left, x.Right} {
		if nested, ok := side.(*condition.LogicalOperator); ok && nested.Operator == x.Operator {
			out = append(out, flatten(nested)...)
		} else {
			out = append(out, side)
		}
	}
	return out
}

func exprOperand(e condition.Expression) any {
	switch x := e.(type) {
	case condition.Attribute:
		return "$" + x.Name
	case *condition.Literal:
		return ParseMongoValue(x)
	}
	return nil
}

// ParseMongoValue converts a literal to its BSON value. Quoted literals
// stay strings; bare ones become int64, float64 or a date. Integers
// beyond int64 become Decimal128.
func ParseMongoValue(lit *condition.Literal) any {
	if lit.Quoted {
		return lit.Text
	}
	v := lit.Value()
	switch {
	case v.Kind == values.KindDate:
		return v.Date.Time()
	case v.Big != nil:
		if d, err := primitive.ParseDecimal128(v.Big.String()); err == nil {
			return d
		}
		return v.Raw
	}
	return v.Native()
}

// ============================================================================
// PIPELINE STAGES
// ============================================================================

// BuildMatchStage wraps a filter in $match
func BuildMatchStage(filter bson.D) bson.D {
	return bson.D{{Key: "$match", Value: filter}}
}

// BuildProjectStage keeps the given fields and drops _id unless requested
func BuildProjectStage(fields []string) bson.D {
	project := bson.D{}
	keepID := false
	for _, f := range fields {
		if f == "_id" {
			keepID = true
		}
		project = append(project, bson.E{Key: f, Value: 1})
	}
	if !keepID {
		project = append(project, bson.E{Key: "_id", Value: 0})
	}
	return bson.D{{Key: "$project", Value: project}}
}

// BuildUnionStage appends the documents of another pipeline
func BuildUnionStage(collection string, pipeline bson.A) bson.D {
	return bson.D{{Key: "$unionWith", Value: bson.D{
		{Key: "coll", Value: collection},
		{Key: "pipeline", Value: pipeline},
	}}}
}

// ProductField holds the joined document while a product is flattened
const ProductField = "ratst_right"

// BuildProductStages pairs every document with every document of another
// pipeline and merges each pair into one document
func BuildProductStages(collection string, pipeline bson.A) bson.A {
	return bson.A{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collection},
			{Key: "pipeline", Value: pipeline},
			{Key: "as", Value: ProductField},
		}}},
		bson.D{{Key: "$unwind", Value: "$" + ProductField}},
		bson.D{{Key: "$replaceRoot", Value: bson.D{
			{Key: "newRoot", Value: bson.D{{Key: "$mergeObjects", Value: bson.A{"$$ROOT", "$" + ProductField}}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: ProductField, Value: 0}}}},
	}
}

// BuildAggregateCommand wraps a pipeline in an aggregate command document
func BuildAggregateCommand(collection string, pipeline bson.A) bson.D {
	return bson.D{
		{Key: "aggregate", Value: collection},
		{Key: "pipeline", Value: pipeline},
		{Key: "cursor", Value: bson.D{}},
	}
}

// MarshalCommand renders a command as relaxed Extended JSON
func MarshalCommand(cmd bson.D) (string, error) {
	data, err := bson.MarshalExtJSON(cmd, false, false)
	if err != nil {
		return "", fmt.Errorf("failed to encode command: %w", err)
	}
	return string(data), nil
}
