package translator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ratst-engine/ratst/mapping"
)

func TestTranslateMongoDB(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "relation",
			input: "Books",
			want:  `{"aggregate": "Books", "pipeline": [], "cursor": {}}`,
		},
		{
			name:  "selection",
			input: "σ subject = 'database' (Books)",
			want:  `{"aggregate": "Books", "pipeline": [{"$match": {"subject": "database"}}], "cursor": {}}`,
		},
		{
			name:  "projection",
			input: "π title, author (Books)",
			want: `{"aggregate": "Books", "pipeline": [
				{"$project": {"title": 1, "author": 1, "_id": 0}}
			], "cursor": {}}`,
		},
		{
			name:  "union",
			input: "π author (Books) ∪ π author (Articles)",
			want: `{"aggregate": "Books", "pipeline": [
				{"$project": {"author": 1, "_id": 0}},
				{"$unionWith": {"coll": "Articles", "pipeline": [{"$project": {"author": 1, "_id": 0}}]}}
			], "cursor": {}}`,
		},
		{
			name:  "product",
			input: "Books × Authors",
			want: `{"aggregate": "Books", "pipeline": [
				{"$lookup": {"from": "Authors", "pipeline": [], "as": "ratst_right"}},
				{"$unwind": "$ratst_right"},
				{"$replaceRoot": {"newRoot": {"$mergeObjects": ["$$ROOT", "$ratst_right"]}}},
				{"$project": {"ratst_right": 0}}
			], "cursor": {}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := translate(t, tt.input, mapping.MongoDB)
			require.NoError(t, err)
			require.NotNil(t, result.Document)

			text, err := result.Text()
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, text)
		})
	}
}

func TestTranslateMongoDBFilterStages(t *testing.T) {
	result, err := translate(t, "σ (year ≥ 2000 ∧ ¬(author = 'Codd')) (Books)", mapping.MongoDB)
	require.NoError(t, err)

	want := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "year", Value: bson.D{{Key: "$gte", Value: int64(2000)}}}},
			bson.D{{Key: "$nor", Value: bson.A{bson.D{{Key: "author", Value: "Codd"}}}}},
		}}}}},
	}
	assert.Equal(t, want, result.Document.Pipeline)
}

func TestTranslateMongoDBPluralCollections(t *testing.T) {
	result, err := translate(t, "Book ∪ Person", mapping.MongoDB, WithPluralCollections(true))
	require.NoError(t, err)
	assert.Equal(t, "books", result.Document.Collection)

	stage := result.Document.Pipeline[0].(bson.D)
	union := stage[0].Value.(bson.D)
	assert.Equal(t, "people", union[0].Value)
}

func TestTranslateMongoDBRename(t *testing.T) {
	result, err := translate(t, "ρ Staff (Employee)", mapping.MongoDB)
	require.NoError(t, err)
	assert.Nil(t, result.Document)
	require.NotNil(t, result.RelationRename)
	assert.Equal(t, mapping.MongoDB, result.Dialect)
}

func TestDocumentResultJSONRoundTrip(t *testing.T) {
	result, err := translate(t, "π title (σ pages > 100 (Books))", mapping.MongoDB)
	require.NoError(t, err)

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "Books", fields["collection"])

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.Document)
	assert.Equal(t, "Books", decoded.Document.Collection)
	assert.Len(t, decoded.Document.Pipeline, 2)

	original, err := result.Text()
	require.NoError(t, err)
	again, err := decoded.Text()
	require.NoError(t, err)
	assert.JSONEq(t, original, again)
}
