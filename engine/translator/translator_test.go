package translator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratst-engine/ratst/engine/inspect"
	"github.com/ratst-engine/ratst/engine/parser"
	"github.com/ratst-engine/ratst/mapping"
)

func translate(t *testing.T, expr, dialect string, opts ...Option) (*Result, error) {
	t.Helper()
	node, err := parser.Parse(expr)
	require.NoError(t, err)
	return Translate(node, dialect, opts...)
}

func TestTranslateMySQL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "selection",
			input: `σ subject = "database"(Books)`,
			want:  `select * from Books where subject = "database"`,
		},
		{
			name:  "projection",
			input: "π subject, author (Books)",
			want:  "select subject, author from Books",
		},
		{
			name:  "union of projections",
			input: "π author (Books) ∪ π author (Articles)",
			want:  "select author from Books union select author from Articles",
		},
		{name: "relation", input: "Books", want: "select * from Books"},
		{name: "product", input: "R × S", want: "select * from R cross join S"},
		{name: "ascii product", input: "R * S", want: "select * from R cross join S"},
		{name: "natural join chain", input: "R ⋈ S ⋈ T", want: "select * from R natural join S natural join T"},
		{name: "left join", input: "R ⧑ S", want: "select * from R natural left join S"},
		{name: "right join", input: "R ⧒ S", want: "select * from R natural right join S"},
		{
			name:  "full join",
			input: "R ⧓ S",
			want:  "select * from R natural left join S union select * from R natural right join S",
		},
		{
			name:  "connectives",
			input: "σ a = 1 ∨ b ≠ 2 (R)",
			want:  "select * from R where a = 1 or b <> 2",
		},
		{
			name:  "nested selections",
			input: "σ a > 1 (σ b = 2 ∨ c = 3 (R))",
			want:  "select * from R where (b = 2 or c = 3) and a > 1",
		},
		{
			name:  "projection of selection",
			input: "π a (σ b = 1 (R))",
			want:  "select a from R where b = 1",
		},
		{
			name:  "selection of projection",
			input: "σ a = 1 (π a, b (R))",
			want:  "select a, b from R where a = 1",
		},
		{
			name:  "projection of union",
			input: "π a (R ∪ S)",
			want:  "select a from (select * from R union select * from S) as t1",
		},
		{
			name:  "filtered left operand",
			input: "σ x = 1 (R) × S",
			want:  "select * from (select * from R where x = 1) as t1 cross join S",
		},
		{
			name:  "filtered right operand",
			input: "R × σ x = 1 (S)",
			want:  "select * from R cross join (select * from S where x = 1) as t1",
		},
		{
			name:  "selection over join",
			input: "σ R.a = 1 (R ⋈ S)",
			want:  "select * from R natural join S where R.a = 1",
		},
		{
			name:  "union chain",
			input: "R ∪ S ∪ T",
			want:  "select * from R union select * from S union select * from T",
		},
		{
			name:  "union with grouped right operand",
			input: "R ∪ (S ∪ T)",
			want:  "select * from R union select * from (select * from S union select * from T) as t1",
		},
		{
			name:  "intersection on attributes",
			input: "π a (R) ∩ π a (S)",
			want:  "select distinct a from R inner join S using (a)",
		},
		{
			name:  "intersection without attributes",
			input: "R ∩ S",
			want:  "select distinct * from R natural join S",
		},
		{
			name:  "difference on attributes",
			input: "π a (R) − π a (S)",
			want:  "select a from R left join S using (a) where S.a is null",
		},
		{
			name:  "difference of filtered operand",
			input: "π a (R) − π a (σ b = 1 (S))",
			want:  "select a from R left join (select a from S where b = 1) as t1 using (a) where t1.a is null",
		},
		{
			name:  "difference without attributes",
			input: "R - S",
			want:  "select R.* from R natural left join (select S.*, 1 as ratst_marker from S) as t1 where t1.ratst_marker is null",
		},
		{
			name:  "division",
			input: "π student, course (Enrolled) ÷ π course (Courses)",
			want: "select distinct t1.student from Enrolled as t1 where not exists " +
				"(select * from Courses as t2 where not exists " +
				"(select * from Enrolled as t3 where t3.student = t1.student and t3.course = t2.course))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := translate(t, tt.input, mapping.MySQL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.SQL)
			assert.Equal(t, mapping.MySQL, result.Dialect)
			assert.NotNil(t, result.Statement)
		})
	}
}

func TestTranslateMySQLNestedEmulations(t *testing.T) {
	marked := "(select R.* from R natural left join (select S.*, 1 as ratst_marker from S) as t1 " +
		"where t1.ratst_marker is null) as t2"

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "difference chain",
			input: "R − S − T",
			want: "select t2.* from " + marked +
				" natural left join (select T.*, 1 as ratst_marker from T) as t3 where t3.ratst_marker is null",
		},
		{
			name:  "intersection of difference",
			input: "(R − S) ∩ T",
			want:  "select distinct * from " + marked + " natural join T",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := translate(t, tt.input, mapping.MySQL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.SQL)
			assert.NotContains(t, result.SQL, "using (*)")

			_, err = inspect.Analyze(result.SQL)
			assert.NoError(t, err)
		})
	}
}

func TestTranslateNativeSetOperations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "intersection", input: "R ∩ S", want: "select * from R intersect select * from S"},
		{name: "difference", input: "R − S", want: "select * from R except select * from S"},
		{name: "full join", input: "R ⧓ S", want: "select * from R natural full join S"},
		{
			name:  "mixed set operations",
			input: "(R ∪ S) ∩ T",
			want:  "select * from (select * from R union select * from S) as t1 intersect select * from T",
		},
		{
			name:  "same set operation chain",
			input: "R − S − T",
			want:  "select * from R except select * from S except select * from T",
		},
	}

	for _, dialect := range []string{mapping.PostgreSQL, mapping.SQLite} {
		for _, tt := range tests {
			t.Run(dialect+"/"+tt.name, func(t *testing.T) {
				result, err := translate(t, tt.input, dialect)
				require.NoError(t, err)
				assert.Equal(t, tt.want, result.SQL)
			})
		}
	}
}

func TestTranslateDialectNames(t *testing.T) {
	for _, name := range []string{"", "mysql", "MYSQL"} {
		result, err := translate(t, "R", name)
		require.NoError(t, err)
		assert.Equal(t, mapping.MySQL, result.Dialect)
	}

	result, err := translate(t, "R ∩ S", "postgres")
	require.NoError(t, err)
	assert.Equal(t, mapping.PostgreSQL, result.Dialect)

	_, err = translate(t, "R", "oracle")
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
}

func TestTranslateRename(t *testing.T) {
	result, err := translate(t, "ρStaff(Employee)", mapping.MySQL)
	require.NoError(t, err)
	require.NotNil(t, result.RelationRename)
	assert.Equal(t, RelationRename{Old: "Employee", New: "Staff"}, *result.RelationRename)
	assert.Empty(t, result.SQL)
	assert.True(t, result.IsRename())

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"new_relation_name": "Staff", "old_relation_name": "Employee"}`, string(data))
}

func TestTranslateAttributeRename(t *testing.T) {
	for _, input := range []string{"ρ surname/name (Employee)", "ρ name➡surname (Employee)"} {
		t.Run(input, func(t *testing.T) {
			result, err := translate(t, input, mapping.PostgreSQL)
			require.NoError(t, err)
			require.NotNil(t, result.AttributeRename)

			data, err := json.Marshal(result)
			require.NoError(t, err)
			assert.JSONEq(t, `{
				"relation_name": "Employee",
				"new_attribute_name": "surname",
				"old_attribute_name": "name"
			}`, string(data))
		})
	}
}

func TestTranslateGenerationErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		dialect  string
		operator mapping.Operator
	}{
		{name: "nested rename", input: "π a (ρ X (R))", dialect: mapping.MySQL, operator: mapping.Rename},
		{name: "rename of expression", input: "ρ X (R ∪ S)", dialect: mapping.MySQL, operator: mapping.Rename},
		{name: "several attribute renames", input: "ρ a/b, c/d (R)", dialect: mapping.MySQL, operator: mapping.Rename},
		{name: "division without projections", input: "R ÷ S", dialect: mapping.MySQL, operator: mapping.Division},
		{name: "division without quotient", input: "π a (R) ÷ π a (S)", dialect: mapping.MySQL, operator: mapping.Division},
		{name: "divisor outside dividend", input: "π a (R) ÷ π b (S)", dialect: mapping.MySQL, operator: mapping.Division},
		{name: "divisor partly outside dividend", input: "π a, b (R) ÷ π b, c (S)", dialect: mapping.PostgreSQL, operator: mapping.Division},
		{name: "empty attribute", input: "π a,,b (R)", dialect: mapping.MySQL, operator: mapping.Projection},
		{name: "mongo join", input: "R ⋈ S", dialect: mapping.MongoDB, operator: mapping.Join},
		{name: "mongo difference", input: "R − S", dialect: mapping.MongoDB, operator: mapping.Difference},
		{name: "mongo bad condition", input: "σ a = = 1 (R)", dialect: mapping.MongoDB, operator: mapping.Selection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := translate(t, tt.input, tt.dialect)
			require.Error(t, err)
			assert.Nil(t, result)

			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, tt.operator, genErr.Operator)
		})
	}
}

func TestTranslateConnectives(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a = 1 ∨ b = 2", "a = 1 or b = 2"},
		{"a=1∧b=2", "a=1 and b=2"},
		{"¬(a = 1)", "not (a = 1)"},
		{"a ∧ ¬b", "a and not b"},
		{"a == 1", "a = 1"},
		{"x ≤ 2 ∧ y ≥ 3", "x <= 2 and y >= 3"},
		{"(a = 1 ∨ b = 2) ∧ c", "(a = 1 or b = 2) and c"},
		{"a ≠ 'x ∨ y'", "a <> 'x ∨ y'"},
		{`name = "a∧b"`, `name = "a∧b"`},
		{`name = 'it\'s ∧' ∧ b`, `name = 'it\'s ∧' and b`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, TranslateConnectives(tt.input, mapping.MySQL))
		})
	}
}

func TestResultJSONRoundTrip(t *testing.T) {
	for _, input := range []string{
		"π a (R)",
		"ρ Staff (Employee)",
		"ρ surname/name (Employee)",
	} {
		t.Run(input, func(t *testing.T) {
			result, err := translate(t, input, mapping.MySQL)
			require.NoError(t, err)

			data, err := json.Marshal(result)
			require.NoError(t, err)

			var decoded Result
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, result.SQL, decoded.SQL)
			assert.Equal(t, result.RelationRename, decoded.RelationRename)
			assert.Equal(t, result.AttributeRename, decoded.AttributeRename)
		})
	}
}

func TestResultStruct(t *testing.T) {
	result, err := translate(t, "π subject, author (Books)", mapping.MySQL)
	require.NoError(t, err)

	s, err := result.Struct()
	require.NoError(t, err)
	assert.Equal(t, "select subject, author from Books", s.GetFields()["result"].GetStringValue())
}

func TestResultText(t *testing.T) {
	result, err := translate(t, "ρ surname/name (Employee)", mapping.MySQL)
	require.NoError(t, err)
	text, err := result.Text()
	require.NoError(t, err)
	assert.Equal(t, "rename attribute Employee.name to surname", text)
}
