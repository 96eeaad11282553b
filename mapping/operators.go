package mapping

import "strings"

// Operator is the canonical symbol of a relational algebra operator.
type Operator string

// ============================================================================
// RELATIONAL ALGEBRA OPERATORS
// ============================================================================

const (
	// Unary
	Projection Operator = "π"
	Selection  Operator = "σ"
	Rename     Operator = "ρ"

	// Binary
	Product      Operator = "×"
	Difference   Operator = "−"
	Union        Operator = "∪"
	Intersection Operator = "∩"
	Division     Operator = "÷"
	Join         Operator = "⋈"
	JoinLeft     Operator = "⧑"
	JoinRight    Operator = "⧒"
	JoinFull     Operator = "⧓"
)

// RenameArrows separate old and new attribute names in ρ old➡new (R).
var RenameArrows = []string{"➡", "→"}

// RenameSeparator separates new and old attribute names in ρ new/old (R).
const RenameSeparator = "/"

// UnaryOperators lists unary operators in lookup order
var UnaryOperators = []Operator{Projection, Selection, Rename}

// BinaryOperators lists binary operators in lookup order
var BinaryOperators = []Operator{
	Product, Difference, Union, Intersection, Division,
	Join, JoinLeft, JoinRight, JoinFull,
}

// OperatorSymbols maps every accepted spelling to its canonical operator.
// ASCII '*' and '-' are the historical product/difference symbols.
var OperatorSymbols = map[string]Operator{
	"π": Projection,
	"σ": Selection,
	"ρ": Rename,
	"×": Product,
	"*": Product,
	"−": Difference,
	"-": Difference,
	"∪": Union,
	"∩": Intersection,
	"÷": Division,
	"⋈": Join,
	"⧑": JoinLeft,
	"⟕": JoinLeft,
	"⧒": JoinRight,
	"⟖": JoinRight,
	"⧓": JoinFull,
	"⟗": JoinFull,
}

// OperatorNames - human readable names, used in errors and tree dumps
var OperatorNames = map[Operator]string{
	Projection:   "projection",
	Selection:    "selection",
	Rename:       "rename",
	Product:      "product",
	Difference:   "difference",
	Union:        "union",
	Intersection: "intersection",
	Division:     "division",
	Join:         "join",
	JoinLeft:     "outer_left",
	JoinRight:    "outer_right",
	JoinFull:     "outer",
}

// OperatorWords maps words people type instead of symbols to the operator
// they meant. Used for "did you mean" suggestions only.
var OperatorWords = map[string]Operator{
	"PROJECTION":   Projection,
	"PROJECT":      Projection,
	"PI":           Projection,
	"SELECTION":    Selection,
	"SELECT":       Selection,
	"SIGMA":        Selection,
	"WHERE":        Selection,
	"RENAME":       Rename,
	"RHO":          Rename,
	"PRODUCT":      Product,
	"CROSS":        Product,
	"TIMES":        Product,
	"DIFFERENCE":   Difference,
	"MINUS":        Difference,
	"EXCEPT":       Difference,
	"UNION":        Union,
	"INTERSECTION": Intersection,
	"INTERSECT":    Intersection,
	"DIVISION":     Division,
	"DIVIDE":       Division,
	"JOIN":         Join,
	"NATURAL":      Join,
	"LEFT":         JoinLeft,
	"RIGHT":        JoinRight,
	"FULL":         JoinFull,
	"OUTER":        JoinFull,
}

// LookupOperator resolves a symbol (canonical or alias) to its operator
func LookupOperator(symbol string) (Operator, bool) {
	op, ok := OperatorSymbols[symbol]
	return op, ok
}

// IsUnary checks if the operator takes a parameter and one operand
func (o Operator) IsUnary() bool {
	return o == Projection || o == Selection || o == Rename
}

// IsBinary checks if the operator takes two operands
func (o Operator) IsBinary() bool {
	_, ok := OperatorNames[o]
	return ok && !o.IsUnary()
}

// IsJoin checks if the operator is one of the natural join family
func (o Operator) IsJoin() bool {
	return o == Join || o == JoinLeft || o == JoinRight || o == JoinFull
}

// Name returns the operator's readable name
func (o Operator) Name() string {
	if name, ok := OperatorNames[o]; ok {
		return name
	}
	return string(o)
}

// IsUnarySymbol checks if a rune starts a unary operator
func IsUnarySymbol(r rune) bool {
	op, ok := OperatorSymbols[string(r)]
	return ok && op.IsUnary()
}

// IsBinarySymbol checks if a token is a binary operator symbol
func IsBinarySymbol(token string) bool {
	op, ok := OperatorSymbols[token]
	return ok && op.IsBinary()
}

// ============================================================================
// SELECTION CONDITIONS
// ============================================================================

// ConnectiveMap - per-dialect rewriting of selection condition symbols.
// Usage: ConnectiveMap["MySQL"]["∨"] returns "or"
var ConnectiveMap = map[string]map[string]string{
	MySQL: {
		"∨":  "or",
		"∧":  "and",
		"¬":  "not",
		"≠":  "<>",
		"≤":  "<=",
		"≥":  ">=",
		"==": "=",
	},
	PostgreSQL: {
		"∨":  "or",
		"∧":  "and",
		"¬":  "not",
		"≠":  "<>",
		"≤":  "<=",
		"≥":  ">=",
		"==": "=",
	},
	SQLite: {
		"∨":  "or",
		"∧":  "and",
		"¬":  "not",
		"≠":  "<>",
		"≤":  "<=",
		"≥":  ">=",
		"==": "=",
	},
}

// WordConnectives are connectives that must be separated by spaces
var WordConnectives = map[string]bool{
	"or":  true,
	"and": true,
	"not": true,
}

// ComparisonOperators maps every accepted comparison spelling to its
// canonical form
var ComparisonOperators = map[string]string{
	"=":  "=",
	"==": "=",
	"!=": "!=",
	"<>": "!=",
	"≠":  "!=",
	"<":  "<",
	"<=": "<=",
	"≤":  "<=",
	">":  ">",
	">=": ">=",
	"≥":  ">=",
}

// OperatorMap - Runtime mapping for document translators
// Usage: OperatorMap["MongoDB"]["="] returns "$eq"
var OperatorMap = map[string]map[string]string{
	MongoDB: {
		"=":   "$eq",
		"!=":  "$ne",
		">":   "$gt",
		"<":   "$lt",
		">=":  "$gte",
		"<=":  "$lte",
		"AND": "$and",
		"OR":  "$or",
		"NOT": "$nor",
	},
}

// FlippedComparisons gives the operator to use when operands are swapped
var FlippedComparisons = map[string]string{
	"=":  "=",
	"!=": "!=",
	"<":  ">",
	"<=": ">=",
	">":  "<",
	">=": "<=",
}

// CanonicalComparison normalizes a comparison operator spelling
func CanonicalComparison(op string) (string, bool) {
	canonical, ok := ComparisonOperators[strings.TrimSpace(op)]
	return canonical, ok
}
