// Package ratst translates relational algebra expressions into queries.
//
// An expression is scanned, built into a tree and handed to the generator
// for the target dialect:
//
//	result, err := ratst.Translate(`π author (Books) ∪ π author (Articles)`)
//	// result.SQL == "select author from Books union select author from Articles"
package ratst

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ratst-engine/ratst/engine/ast"
	"github.com/ratst-engine/ratst/engine/eval"
	"github.com/ratst-engine/ratst/engine/lexer"
	"github.com/ratst-engine/ratst/engine/parser"
	"github.com/ratst-engine/ratst/engine/translator"
	"github.com/ratst-engine/ratst/engine/validator"
	"github.com/ratst-engine/ratst/mapping"
)

// ============================================================================
// ERRORS
// ============================================================================

// ErrEmptyExpression is returned for blank input
var ErrEmptyExpression = errors.New("empty expression")

// Pipeline stages named by TranslationError
const (
	StageScan     = "scan"
	StageParse    = "parse"
	StageGenerate = "generate"
	StageValidate = "validate"
	StageEvaluate = "evaluate"
)

// TranslationError wraps the error of the stage that stopped a translation.
// errors.As reaches the stage error (*lexer.ScanError, *parser.ParseError,
// *values.IdentifierError, *translator.GenerationError).
type TranslationError struct {
	Stage string
	Err   error
}

func (e *TranslationError) Error() string {
	return e.Err.Error()
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// ============================================================================
// OPTIONS
// ============================================================================

// Options configures a translation
type Options struct {
	Dialect              string
	ReservedWords        []string // nil selects the dialect's list
	Validate             bool     // parse the generated query before returning it
	PluralizeCollections bool
}

// Option modifies Options
type Option func(*Options)

func WithDialect(dialect string) Option {
	return func(o *Options) { o.Dialect = dialect }
}

func WithReservedWords(words []string) Option {
	return func(o *Options) { o.ReservedWords = words }
}

func WithValidation(enabled bool) Option {
	return func(o *Options) { o.Validate = enabled }
}

func WithPluralCollections(enabled bool) Option {
	return func(o *Options) { o.PluralizeCollections = enabled }
}

func buildOptions(opts []Option) Options {
	o := Options{Dialect: mapping.DefaultDialect}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ============================================================================
// PIPELINE
// ============================================================================

// Parse scans and builds an expression
func Parse(expression string, opts ...Option) (ast.Node, error) {
	return parse(expression, buildOptions(opts))
}

func parse(expression string, o Options) (ast.Node, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &TranslationError{Stage: StageParse, Err: ErrEmptyExpression}
	}

	words := o.ReservedWords
	if words == nil {
		dialect, ok := mapping.NormalizeDialect(o.Dialect)
		if !ok {
			dialect = mapping.DefaultDialect
		}
		words = mapping.ReservedWordsFor(dialect)
	}

	tokens, err := lexer.Scan(expression)
	if err != nil {
		return nil, &TranslationError{Stage: StageScan, Err: err}
	}
	node, err := parser.New(parser.WithReservedWords(words)).Build(tokens)
	if err != nil {
		return nil, &TranslationError{Stage: StageParse, Err: err}
	}
	return node, nil
}

// Translate runs the whole pipeline for the configured dialect
// (MySQL unless WithDialect says otherwise)
func Translate(expression string, opts ...Option) (*translator.Result, error) {
	o := buildOptions(opts)
	node, err := parse(expression, o)
	if err != nil {
		return nil, err
	}
	return generate(node, o)
}

// Generate translates an already built tree
func Generate(node ast.Node, opts ...Option) (*translator.Result, error) {
	return generate(node, buildOptions(opts))
}

func generate(node ast.Node, o Options) (*translator.Result, error) {
	result, err := translator.Translate(node, o.Dialect, translator.WithPluralCollections(o.PluralizeCollections))
	if err != nil {
		return nil, &TranslationError{Stage: StageGenerate, Err: err}
	}
	if o.Validate && !result.IsRename() {
		text, err := result.Text()
		if err == nil {
			err = validator.ValidateQuery(text, result.Dialect)
		}
		if err != nil {
			return nil, &TranslationError{Stage: StageValidate, Err: err}
		}
	}
	return result, nil
}

// Evaluate computes an expression over explicit relations instead of
// generating a query for it
func Evaluate(expression string, bindings eval.Bindings, opts ...Option) (*eval.Relation, error) {
	node, err := parse(expression, buildOptions(opts))
	if err != nil {
		return nil, err
	}
	r, err := eval.Evaluate(node, bindings)
	if err != nil {
		return nil, &TranslationError{Stage: StageEvaluate, Err: err}
	}
	return r, nil
}

// Stage returns the stage a pipeline error came from, or "" for errors
// not produced here
func Stage(err error) string {
	var te *TranslationError
	if errors.As(err, &te) {
		return te.Stage
	}
	return ""
}

// Describe renders a pipeline error for people: the stage and the message
func Describe(err error) string {
	if stage := Stage(err); stage != "" {
		return fmt.Sprintf("%s: %v", stage, err)
	}
	return err.Error()
}
