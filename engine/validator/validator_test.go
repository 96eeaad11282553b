package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratst-engine/ratst/mapping"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		query   string
		valid   bool
	}{
		{name: "mysql select", dialect: mapping.MySQL, query: "select subject, author from Books where subject = 'database'", valid: true},
		{name: "mysql union", dialect: mapping.MySQL, query: "select author from Books union select author from Articles", valid: true},
		{name: "mysql garbage", dialect: mapping.MySQL, query: "select from where", valid: false},
		{name: "postgres intersect", dialect: mapping.PostgreSQL, query: "select * from R intersect select * from S", valid: true},
		{name: "postgres garbage", dialect: mapping.PostgreSQL, query: "select * from (R", valid: false},
		{name: "sqlite except", dialect: mapping.SQLite, query: "select * from R except select * from S", valid: true},
		{
			name:    "mongo aggregate",
			dialect: mapping.MongoDB,
			query:   `{"aggregate": "Books", "pipeline": [{"$match": {"a": 1}}], "cursor": {}}`,
			valid:   true,
		},
		{name: "mongo not json", dialect: mapping.MongoDB, query: `{"aggregate": `, valid: false},
		{name: "mongo find", dialect: mapping.MongoDB, query: `{"find": "Books"}`, valid: false},
		{
			name:    "mongo stage without operator",
			dialect: mapping.MongoDB,
			query:   `{"aggregate": "Books", "pipeline": [{"match": {}}]}`,
			valid:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.query, tt.dialect)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidQuery)
			}

			result, err := ValidateQueryWithDetails(tt.query, tt.dialect)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
		})
	}
}

func TestForDialectUnknown(t *testing.T) {
	_, err := ForDialect("Oracle")
	assert.Error(t, err)
}
