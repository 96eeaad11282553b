package parser

import (
	"errors"
	"strings"

	"github.com/ratst-engine/ratst/engine/ast"
	"github.com/ratst-engine/ratst/engine/lexer"
	"github.com/ratst-engine/ratst/engine/values"
	"github.com/ratst-engine/ratst/mapping"
)

// Parser builds an AST from scanned tokens. Operator precedence comes from
// scan order: binary operators are found right to left before unary ones,
// which makes them left associative and lower in precedence.
type Parser struct {
	identifiers *values.IdentifierValidator
}

// Option configures a Parser
type Option func(*Parser)

// WithReservedWords replaces the reserved words relation names are
// checked against
func WithReservedWords(words []string) Option {
	return func(p *Parser) {
		p.identifiers = values.NewIdentifierValidator(words)
	}
}

// New creates a parser; by default relation names may not be MySQL
// reserved words
func New(opts ...Option) *Parser {
	p := &Parser{
		identifiers: values.NewIdentifierValidator(mapping.ReservedWordsFor(mapping.DefaultDialect)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse scans and builds an expression with the default parser
func Parse(expression string) (ast.Node, error) {
	return New().Parse(expression)
}

// Build builds scanned tokens with the default parser
func Build(tokens []lexer.Token) (ast.Node, error) {
	return New().Build(tokens)
}

// Parse scans and builds an expression
func (p *Parser) Parse(expression string) (ast.Node, error) {
	tokens, err := lexer.Scan(expression)
	if err != nil {
		return nil, err
	}
	return p.Build(tokens)
}

// Build turns a token sequence into a tree
func (p *Parser) Build(tokens []lexer.Token) (ast.Node, error) {
	return p.build(tokens, 0)
}

func (p *Parser) build(tokens []lexer.Token, position int) (ast.Node, error) {
	for len(tokens) == 1 && tokens[0].IsGroup() {
		position = tokens[0].Position
		tokens = tokens[0].Children
	}

	if len(tokens) == 0 {
		return nil, newParseError(position, "", "empty expression")
	}

	if len(tokens) == 1 && !isOperator(tokens[0]) {
		return p.relation(tokens[0])
	}

	if i := binaryIndex(tokens); i >= 0 {
		return p.binary(tokens, i)
	}

	if i := unaryIndex(tokens); i >= 0 {
		return p.unary(tokens, i)
	}

	return nil, expectedOperator(tokens)
}

// =============================================================================
// NODES
// =============================================================================

func (p *Parser) relation(tok lexer.Token) (ast.Node, error) {
	if err := p.identifiers.Validate(tok.Value); err != nil {
		return nil, positioned(err, tok.Position, "")
	}
	return &ast.Relation{Name: tok.Value, Position: tok.Position}, nil
}

func (p *Parser) binary(tokens []lexer.Token, i int) (ast.Node, error) {
	tok := tokens[i]
	op, _ := mapping.LookupOperator(tok.Value)

	if i == 0 {
		return nil, newParseError(tok.Position, tok.Value, "expected left operand for '%s'", tok.Value)
	}
	if i == len(tokens)-1 {
		return nil, newParseError(tok.Position, tok.Value, "expected right operand for '%s'", tok.Value)
	}

	left, err := p.build(tokens[:i], tokens[0].Position)
	if err != nil {
		return nil, err
	}
	right, err := p.build(tokens[i+1:], tokens[i+1].Position)
	if err != nil {
		return nil, err
	}

	return &ast.BinaryOp{Operator: op, Left: left, Right: right, Position: tok.Position}, nil
}

func (p *Parser) unary(tokens []lexer.Token, i int) (ast.Node, error) {
	tok := tokens[i]
	op, _ := mapping.LookupOperator(tok.Value)

	if i > 0 {
		prev := tokens[i-1]
		return nil, newParseError(prev.Position, prev.Value, "unexpected token before '%s'", tok.Value)
	}
	if len(tokens) < i+3 {
		return nil, newParseError(tok.Position, tok.Value, "expected parameter and operand for '%s'", tok.Value)
	}
	if len(tokens) > i+3 {
		extra := tokens[i+3]
		return nil, newParseError(extra.Position, extra.Value, "unexpected token after '%s' operand", tok.Value)
	}

	param := tokens[i+1]
	if param.IsGroup() || strings.TrimSpace(param.Value) == "" {
		return nil, newParseError(param.Position, param.Value, "missing parameter for '%s'", tok.Value)
	}
	switch op {
	case mapping.Projection:
		if err := p.checkProjection(param); err != nil {
			return nil, err
		}
	case mapping.Rename:
		if err := p.checkRename(param); err != nil {
			return nil, err
		}
	}

	child, err := p.build([]lexer.Token{tokens[i+2]}, tokens[i+2].Position)
	if err != nil {
		return nil, err
	}

	return &ast.UnaryOp{
		Operator:  op,
		Parameter: strings.TrimSpace(param.Value),
		Child:     child,
		Position:  tok.Position,
	}, nil
}

// checkRename validates every name a ρ parameter introduces
func (p *Parser) checkRename(param lexer.Token) error {
	spec, err := ast.ParseRename(param.Value)
	if err != nil {
		return newParseError(param.Position, param.Value, "%s", err.Error())
	}
	role := values.RoleAttribute
	if spec.IsRelation() {
		role = values.RoleRelation
	}
	for _, name := range spec.Names() {
		if err := p.identifiers.Validate(name); err != nil {
			return positioned(err, param.Position, role)
		}
	}
	return nil
}

// checkProjection validates the attributes a π parameter lists. An
// attribute may be qualified by its relation, as in Books.author.
func (p *Parser) checkProjection(param lexer.Token) error {
	for _, attr := range strings.Split(param.Value, ",") {
		attr = strings.TrimSpace(attr)
		if attr == "" {
			continue
		}
		for _, name := range strings.SplitN(attr, ".", 2) {
			if err := p.identifiers.Validate(name); err != nil {
				return positioned(err, param.Position, values.RoleAttribute)
			}
		}
	}
	return nil
}

// positioned stamps an identifier error with where its name was found
func positioned(err error, position int, role string) error {
	var idErr *values.IdentifierError
	if !errors.As(err, &idErr) {
		return err
	}
	idErr.Position = position
	if role != "" {
		idErr.Role = role
	}
	return idErr
}

// =============================================================================
// OPERATOR SCANS
// =============================================================================

// binaryIndex returns the right-most binary operator, or -1
func binaryIndex(tokens []lexer.Token) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		if isParameter(tokens, i) {
			continue
		}
		if !tokens[i].IsGroup() && mapping.IsBinarySymbol(tokens[i].Value) {
			return i
		}
	}
	return -1
}

// unaryIndex returns the right-most unary operator, or -1
func unaryIndex(tokens []lexer.Token) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		if isParameter(tokens, i) {
			continue
		}
		if isUnary(tokens[i]) {
			return i
		}
	}
	return -1
}

// isParameter reports whether tokens[i] is the parameter of a unary
// operator; a parameter is never an operator itself
func isParameter(tokens []lexer.Token, i int) bool {
	return i > 0 && isUnary(tokens[i-1]) && !isParameter(tokens, i-1)
}

func isUnary(tok lexer.Token) bool {
	if tok.IsGroup() {
		return false
	}
	op, ok := mapping.LookupOperator(tok.Value)
	return ok && op.IsUnary()
}

func isOperator(tok lexer.Token) bool {
	if tok.IsGroup() {
		return false
	}
	_, ok := mapping.LookupOperator(tok.Value)
	return ok
}

func expectedOperator(tokens []lexer.Token) *ParseError {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsGroup() {
			parts = append(parts, "(…)")
		} else {
			parts = append(parts, tok.Value)
		}
	}

	err := newParseError(tokens[0].Position, "", "expected operator in '%s'", strings.Join(parts, " "))
	for _, tok := range tokens {
		if tok.IsGroup() {
			continue
		}
		if op, ok := SuggestOperator(tok.Value); ok {
			err.Position = tok.Position
			err.Token = tok.Value
			err.Suggestion = string(op)
			break
		}
	}
	return err
}
