package ratst

import (
	"github.com/ratst-engine/ratst/engine/ast"
	"github.com/ratst-engine/ratst/engine/inspect"
	"github.com/ratst-engine/ratst/engine/lexer"
	"github.com/ratst-engine/ratst/engine/translator"
	"github.com/ratst-engine/ratst/mapping"
)

// Explanation shows every stage of one translation
type Explanation struct {
	Tokens    string // nested token list, e.g. ['π', 'a', ['R']]
	Tree      string // indented operator tree
	Infix     string
	Result    *translator.Result
	Relations []string // relations the generated query reads
}

// Explain translates an expression and keeps the intermediate forms
func Explain(expression string, opts ...Option) (*Explanation, error) {
	o := buildOptions(opts)
	node, err := parse(expression, o)
	if err != nil {
		return nil, err
	}
	result, err := generate(node, o)
	if err != nil {
		return nil, err
	}

	tokens, err := lexer.Scan(expression)
	if err != nil {
		return nil, &TranslationError{Stage: StageScan, Err: err}
	}

	e := &Explanation{
		Tokens: lexer.FormatTokens(tokens),
		Tree:   ast.PrintTree(node),
		Infix:  ast.String(node),
		Result: result,
	}
	e.Relations = ast.Relations(node)
	if mapping.IsRelational(result.Dialect) && result.SQL != "" {
		if rels, err := inspect.Relations(result.SQL); err == nil {
			e.Relations = rels
		}
	}
	return e, nil
}
