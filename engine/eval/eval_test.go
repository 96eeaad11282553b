package eval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratst-engine/ratst/engine/condition"
	"github.com/ratst-engine/ratst/engine/parser"
)

func library(t *testing.T) Bindings {
	t.Helper()
	b, err := DecodeBindings(strings.NewReader(`{
		"Books": {
			"attributes": ["title", "author", "subject", "pages"],
			"tuples": [
				["Relational Model", "Codd", "database", 30],
				["Transaction Processing", "Gray", "database", 1070],
				["Art of Programming", "Knuth", "algorithms", 672]
			]
		},
		"Articles": {
			"attributes": ["author", "venue"],
			"tuples": [["Codd", "CACM"], ["Chen", "TODS"]]
		},
		"Enrolled": {
			"attributes": ["student", "course"],
			"tuples": [["ann", "db"], ["ann", "os"], ["bob", "db"]]
		},
		"Courses": {
			"attributes": ["course"],
			"tuples": [["db"], ["os"]]
		}
	}`))
	require.NoError(t, err)
	return b
}

func run(t *testing.T, b Bindings, expr string) *Relation {
	t.Helper()
	node, err := parser.Parse(expr)
	require.NoError(t, err)
	r, err := Evaluate(node, b)
	require.NoError(t, err)
	return r
}

func TestEvaluate(t *testing.T) {
	b := library(t)

	tests := []struct {
		name       string
		expr       string
		attributes []string
		tuples     []Tuple
	}{
		{
			name:       "relation",
			expr:       "Courses",
			attributes: []string{"course"},
			tuples:     []Tuple{{"db"}, {"os"}},
		},
		{
			name:       "projection drops duplicates",
			expr:       "π subject (Books)",
			attributes: []string{"subject"},
			tuples:     []Tuple{{"database"}, {"algorithms"}},
		},
		{
			name:       "selection compares numbers",
			expr:       "π title (σ pages > 100 (Books))",
			attributes: []string{"title"},
			tuples:     []Tuple{{"Transaction Processing"}, {"Art of Programming"}},
		},
		{
			name:       "selection with connectives",
			expr:       "π author (σ subject = 'database' ∧ pages < 100 (Books))",
			attributes: []string{"author"},
			tuples:     []Tuple{{"Codd"}},
		},
		{
			name:       "union",
			expr:       "π author (Books) ∪ π author (Articles)",
			attributes: []string{"author"},
			tuples:     []Tuple{{"Codd"}, {"Gray"}, {"Knuth"}, {"Chen"}},
		},
		{
			name:       "intersection",
			expr:       "π author (Books) ∩ π author (Articles)",
			attributes: []string{"author"},
			tuples:     []Tuple{{"Codd"}},
		},
		{
			name:       "difference",
			expr:       "π author (Books) − π author (Articles)",
			attributes: []string{"author"},
			tuples:     []Tuple{{"Gray"}, {"Knuth"}},
		},
		{
			name:       "natural join",
			expr:       "π title, venue (Books ⋈ Articles)",
			attributes: []string{"title", "venue"},
			tuples:     []Tuple{{"Relational Model", "CACM"}},
		},
		{
			name:       "left join pads with null",
			expr:       "π author, venue (Books ⧑ Articles)",
			attributes: []string{"author", "venue"},
			tuples:     []Tuple{{"Codd", "CACM"}, {"Gray", Null}, {"Knuth", Null}},
		},
		{
			name:       "right join keeps shared values",
			expr:       "π author, venue (π author (Books) ⧒ Articles)",
			attributes: []string{"author", "venue"},
			tuples:     []Tuple{{"Codd", "CACM"}, {"Chen", "TODS"}},
		},
		{
			name:       "full join",
			expr:       "π author (Books) ⧓ Articles",
			attributes: []string{"author", "venue"},
			tuples: []Tuple{
				{"Codd", "CACM"}, {"Gray", Null}, {"Knuth", Null}, {"Chen", "TODS"},
			},
		},
		{
			name:       "product qualifies shared names",
			expr:       "π Enrolled.course, Courses.course (Enrolled × Courses)",
			attributes: []string{"Enrolled.course", "Courses.course"},
			tuples:     []Tuple{{"db", "db"}, {"db", "os"}, {"os", "db"}, {"os", "os"}},
		},
		{
			name:       "division",
			expr:       "Enrolled ÷ Courses",
			attributes: []string{"student"},
			tuples:     []Tuple{{"ann"}},
		},
		{
			name:       "attribute rename",
			expr:       "ρ pupil/student (π student (Enrolled))",
			attributes: []string{"pupil"},
			tuples:     []Tuple{{"ann"}, {"bob"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, b, tt.expr)
			assert.Equal(t, tt.attributes, r.Attributes)
			assert.Equal(t, tt.tuples, r.Tuples)
		})
	}
}

func TestRelationRename(t *testing.T) {
	r := run(t, library(t), "ρ Lessons (Courses)")
	assert.Equal(t, "Lessons", r.Name)
	assert.Equal(t, 2, r.Len())
}

func TestEvaluateErrors(t *testing.T) {
	b := library(t)

	tests := []struct {
		name string
		expr string
		want error
	}{
		{"unknown relation", "π a (Missing)", ErrUnknownRelation},
		{"unknown projected attribute", "π isbn (Books)", ErrUnknownAttribute},
		{"unknown selected attribute", "σ isbn = 1 (Books)", ErrUnknownAttribute},
		{"incompatible union", "Books ∪ Articles", ErrIncompatible},
		{"divisor attribute missing", "Courses ÷ Articles", ErrIncompatible},
		{"rename of unknown attribute", "ρ a/b (Courses)", ErrUnknownAttribute},
		{"bad condition", "σ a = (Books)", condition.ErrInvalidCondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := parser.Parse(tt.expr)
			require.NoError(t, err)
			_, err = Evaluate(node, b)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewRelation(t *testing.T) {
	r, err := NewRelation("R", []string{"a"}, Tuple{"1"}, Tuple{"1.0"}, Tuple{"2"})
	require.NoError(t, err)
	assert.Equal(t, []Tuple{{"1"}, {"2"}}, r.Tuples)

	_, err = NewRelation("R", []string{"a", "b"}, Tuple{"1"})
	assert.ErrorIs(t, err, ErrMalformedRelation)
}

func TestDecodeBindings(t *testing.T) {
	b, err := DecodeBindings(strings.NewReader(`{"R": {"attributes": ["a", "b"], "tuples": [[1, true], ["x", null]]}}`))
	require.NoError(t, err)
	require.Contains(t, b, "R")
	assert.Equal(t, "R", b["R"].Name)
	assert.Equal(t, []Tuple{{"1", "true"}, {"x", Null}}, b["R"].Tuples)

	_, err = DecodeBindings(strings.NewReader(`{"R": {"attributes": ["a"], "tuples": [["1", "2"]]}}`))
	assert.ErrorIs(t, err, ErrMalformedRelation)

	_, err = DecodeBindings(strings.NewReader(`not json`))
	assert.ErrorIs(t, err, ErrMalformedRelation)
}
