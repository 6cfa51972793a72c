// Package parser turns a Token sequence into a flat list of top-level
// statement nodes, using operator-precedence climbing for expressions.
//
// Leading-tab tokens carry no syntactic meaning (see package token) and
// are filtered out up front; the language has no other whitespace-
// sensitive construct.
package parser

import (
	"fmt"

	"github.com/skx/nimi-compiler/ast"
	"github.com/skx/nimi-compiler/token"
)

// Parser walks a Token sequence with a single cursor.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New creates a Parser over the given Token sequence.
func New(tokens []token.Token) *Parser {
	filtered := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind == token.INDENT {
			continue
		}
		filtered = append(filtered, t)
	}
	return &Parser{tokens: filtered}
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() {
	p.pos++
}

// skipDots consumes any run of "." punctuation between statements. The
// language uses "." purely as a readability aid at the end of a
// sentence-like statement; it carries no grammatical weight of its own.
func (p *Parser) skipDots() {
	for p.cur().Kind == token.DOT {
		p.advance()
	}
}

// Parse consumes the whole Token sequence and returns the flat list of
// top-level statements, or the first fatal error encountered.
func (p *Parser) Parse() ([]*ast.Statement, error) {
	var stmts []*ast.Statement

	for {
		p.skipDots()
		if p.cur().Kind == token.EOF {
			break
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	return stmts, nil
}

// parseStatementsUntil parses a sequence of statements up to and
// including the terminating token end, returning the statements seen.
func (p *Parser) parseStatementsUntil(end token.Kind) ([]*ast.Statement, error) {
	var body []*ast.Statement

	for {
		p.skipDots()

		if p.cur().Kind == end {
			p.advance()
			break
		}
		if p.cur().Kind == token.EOF {
			return nil, fmt.Errorf("parser: unexpected end of input, expected %q", end)
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}

	return body, nil
}

// parseTypeName parses one of the fixed type-keyword tokens. Anything
// else is the "non-type where a type is required" parse error.
func (p *Parser) parseTypeName() (string, error) {
	switch p.cur().Kind {
	case token.NANPA, token.LINJA:
		name := string(p.cur().Kind)
		p.advance()
		return name, nil
	default:
		return "", fmt.Errorf("parser: expected a type, got %q", p.cur().Kind)
	}
}

// parseStatement dispatches on the current token's kind. Unrecognised
// tokens in statement position are fatal.
func (p *Parser) parseStatement() (*ast.Statement, error) {
	p.skipDots()

	switch p.cur().Kind {
	case token.RETURN_PROGRAM:
		return p.parseReturnProgram()
	case token.VAR_DECL:
		return p.parseVarDecl()
	case token.IDENT:
		return p.parseAssign()
	case token.PALI:
		return p.parseFuncDef()
	case token.CALL_INTRO:
		return p.parseCallStatement()
	case token.COND_INTRO:
		return p.parseCond()
	case token.LOOP_INTRO:
		// Unbounded loops are reserved: the idiom is recognised by
		// the phrase assembler, but parsing it is deliberately
		// stubbed here.
		return nil, fmt.Errorf("parser: \"tenpo ale pi\" loops are not implemented")
	case token.RETURN_FUNC:
		return p.parseReturnFunc()
	case token.LPAREN:
		return p.parseBlock()
	default:
		return nil, fmt.Errorf("parser: unexpected token %q in statement position", p.cur().Kind)
	}
}
