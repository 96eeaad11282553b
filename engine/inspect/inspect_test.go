package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelations(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{"single table", "select * from Books", []string{"Books"}},
		{"union", "select author from Books union select author from Articles", []string{"Books", "Articles"}},
		{"join chain", "select * from R natural join S natural join T", []string{"R", "S", "T"}},
		{"repeated table", "select * from R natural left join S union select * from R natural right join S", []string{"R", "S"}},
		{"derived table", "select a from (select * from R union select * from S) as t1", []string{"R", "S"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Relations(tt.sql)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyze(t *testing.T) {
	t.Run("set operations", func(t *testing.T) {
		s, err := Analyze("select * from R union select * from S union select * from T")
		require.NoError(t, err)
		assert.Equal(t, 2, s.SetOperations)
		assert.False(t, s.Distinct)
	})

	t.Run("intersect by join", func(t *testing.T) {
		s, err := Analyze("select distinct a from R inner join S using (a)")
		require.NoError(t, err)
		assert.True(t, s.Distinct)
		assert.Equal(t, 1, s.Joins)
	})

	t.Run("derived table alias", func(t *testing.T) {
		s, err := Analyze("select * from (select * from R where x = 1) as t1 cross join S")
		require.NoError(t, err)
		assert.Equal(t, []string{"t1"}, s.DerivedTables)
		assert.Equal(t, []string{"R", "S"}, s.Relations)
	})

	t.Run("division", func(t *testing.T) {
		s, err := Analyze("select distinct t1.student from Enrolled as t1 where not exists " +
			"(select * from Courses as t2 where not exists " +
			"(select * from Enrolled as t3 where t3.student = t1.student and t3.course = t2.course))")
		require.NoError(t, err)
		assert.Equal(t, 2, s.Subqueries)
		assert.Equal(t, []string{"Enrolled", "Courses"}, s.Relations)
		assert.Empty(t, s.DerivedTables)
	})

	t.Run("native except", func(t *testing.T) {
		s, err := Analyze("select * from R except select * from S")
		require.NoError(t, err)
		assert.Equal(t, 1, s.SetOperations)
	})
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := Analyze("   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = Analyze("select from where")
	assert.ErrorIs(t, err, ErrParseError)
}
