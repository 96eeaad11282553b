// Package values classifies the literals that appear in relation names and
// selection conditions: integers, floats, calendar dates, or opaque strings.
package values

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the semantic type of a literal
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindFloat
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	default:
		return "string"
	}
}

var (
	intPattern   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	floatPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)
	datePattern  = regexp.MustCompile(`^([0-9]{1,4})[-/\\]([0-9]{1,2})[-/\\]([0-9]{1,2})$`)
)

// Value is a classified literal. Exactly one of Int, Float or Date is
// meaningful, selected by Kind; Raw always holds the original text. An
// integer outside the int64 range is held in Big instead of Int.
type Value struct {
	Kind  Kind
	Raw   string
	Int   int64
	Big   *big.Int
	Float float64
	Date  Date
}

// Classify determines the type of a raw literal. Integers are tried first,
// then floats, then dates; anything else is an opaque string.
func Classify(raw string) Value {
	v := Value{Kind: KindString, Raw: raw}
	if raw == "" {
		return v
	}

	if intPattern.MatchString(raw) {
		v.Kind = KindInteger
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			v.Int = n
		} else {
			v.Big, _ = new(big.Int).SetString(strings.TrimPrefix(raw, "+"), 10)
		}
		return v
	}
	if floatPattern.MatchString(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			v.Kind = KindFloat
			v.Float = f
			return v
		}
	}
	if d, ok := parseDate(raw); ok {
		v.Kind = KindDate
		v.Date = d
	}
	return v
}

// IsNumeric reports whether the value is an integer or a float
func (v Value) IsNumeric() bool {
	return v.Kind == KindInteger || v.Kind == KindFloat
}

// Number returns the value as float64 for numeric kinds
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case KindInteger:
		if v.Big != nil {
			f, _ := new(big.Float).SetInt(v.Big).Float64()
			return f, true
		}
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	}
	return 0, false
}

// Native returns the Go value for the kind: int64 (*big.Int when out of
// range), float64, Date or string
func (v Value) Native() any {
	switch v.Kind {
	case KindInteger:
		if v.Big != nil {
			return v.Big
		}
		return v.Int
	case KindFloat:
		return v.Float
	case KindDate:
		return v.Date
	}
	return v.Raw
}

func (v Value) String() string {
	if v.Kind == KindDate {
		return v.Date.String()
	}
	return v.Raw
}

// Compare orders two values. Numbers compare numerically, dates
// chronologically; any other pairing falls back to comparing the raw text.
func Compare(a, b Value) int {
	if a.Kind == KindInteger && b.Kind == KindInteger {
		if a.Big == nil && b.Big == nil {
			return compareOrdered(a.Int, b.Int)
		}
		return a.bigInt().Cmp(b.bigInt())
	}
	if x, ok := a.Number(); ok {
		if y, ok := b.Number(); ok {
			return compareOrdered(x, y)
		}
	}
	if a.Kind == KindDate && b.Kind == KindDate {
		return a.Date.Compare(b.Date)
	}
	return strings.Compare(a.Raw, b.Raw)
}

// Equal reports whether two values compare equal
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

func (v Value) bigInt() *big.Int {
	if v.Big != nil {
		return v.Big
	}
	return big.NewInt(v.Int)
}

func compareOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ============================================================================
// LITERAL
// ============================================================================

// Literal is a raw string whose classification is computed on first use and
// kept. A Literal belongs to one owner; it is not safe for concurrent use.
type Literal struct {
	raw        string
	value      Value
	classified bool
}

// NewLiteral wraps a raw literal
func NewLiteral(raw string) *Literal {
	return &Literal{raw: raw}
}

// Raw returns the original text
func (l *Literal) Raw() string {
	return l.raw
}

// Value returns the classification, computing it once
func (l *Literal) Value() Value {
	if !l.classified {
		l.value = Classify(l.raw)
		l.classified = true
	}
	return l.value
}

// Kind returns the classified kind
func (l *Literal) Kind() Kind {
	return l.Value().Kind
}

// IsInt reports whether the literal is an integer
func (l *Literal) IsInt() bool {
	return intPattern.MatchString(l.raw)
}

// IsFloat reports whether the literal is a number (integers included)
func (l *Literal) IsFloat() bool {
	return floatPattern.MatchString(l.raw)
}

// IsDate reports whether the literal is a valid calendar date
func (l *Literal) IsDate() bool {
	_, ok := l.Date()
	return ok
}

// Date returns the literal as a date when it is one
func (l *Literal) Date() (Date, bool) {
	v := l.Value()
	if v.Kind == KindDate {
		return v.Date, true
	}
	return Date{}, false
}

func (l *Literal) String() string {
	return l.raw
}
