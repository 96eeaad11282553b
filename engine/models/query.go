package models

// ============================================================================
// SELECT - Intermediate query built by the translator
// ============================================================================

// Select is one SELECT statement composed bottom-up from the tree.
// Builders turn it into dialect text.
type Select struct {
	Distinct bool
	Columns  []string // empty means *
	From     *Source
	Joins    []Join
	Where    []Predicate // combined with AND
	SetOps   []SetOperation
}

// Clone copies the statement deeply enough that appending to the copy
// never changes the original
func (s *Select) Clone() *Select {
	c := *s
	c.Columns = append([]string(nil), s.Columns...)
	c.Joins = append([]Join(nil), s.Joins...)
	c.Where = append([]Predicate(nil), s.Where...)
	c.SetOps = append([]SetOperation(nil), s.SetOps...)
	return &c
}

// IsBare reports whether the statement reads one table with nothing else
// applied, so it can be referenced by the table name alone
func (s *Select) IsBare() bool {
	return !s.Distinct && len(s.Columns) == 0 && len(s.Joins) == 0 &&
		len(s.Where) == 0 && len(s.SetOps) == 0 &&
		s.From != nil && s.From.Subquery == nil && s.From.Alias == ""
}

// ============================================================================
// SOURCES AND CLAUSES
// ============================================================================

// Source is a table or a derived table
type Source struct {
	Table    string
	Subquery *Select
	Alias    string
}

// Name returns how columns of the source are qualified
func (s *Source) Name() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Table
}

// Join appends a source with a join keyword, e.g. "natural left join"
type Join struct {
	Clause string
	Source *Source
	Using  []string
}

// Predicate is one WHERE conjunct: raw condition text or a NOT EXISTS test
type Predicate struct {
	Expr      string
	NotExists *Select
}

// SetOperation combines the statement with another, e.g. "union"
type SetOperation struct {
	Clause string
	Query  *Select
}
