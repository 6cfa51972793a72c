package parser

import (
	"fmt"
	"strconv"

	"github.com/skx/nimi-compiler/ast"
	"github.com/skx/nimi-compiler/token"
)

// Precedence orders the binary operators from loosest- to tightest-
// binding. next raises the floor by one level, saturating at Highest
// so a right-hand operand never recurses past the top of the ladder.
type Precedence int

// The precedence ladder, lowest first.
const (
	Undefined Precedence = iota
	Comparing
	Linear
	Scaling
	UnaryPrec
	Highest
)

func (p Precedence) next() Precedence {
	if p >= Highest {
		return Highest
	}
	return p + 1
}

var binaryPrecedence = map[token.Kind]Precedence{
	token.LT:     Comparing,
	token.GT:     Comparing,
	token.ASSIGN: Comparing,
	token.PLUS:   Linear,
	token.MINUS:  Linear,
	token.STAR:   Scaling,
	token.SLASH:  Scaling,
}

var binaryOp = map[token.Kind]ast.BinaryOp{
	token.PLUS:   ast.Add,
	token.MINUS:  ast.Sub,
	token.STAR:   ast.Mul,
	token.SLASH:  ast.Div,
	token.GT:     ast.Gt,
	token.LT:     ast.Lt,
	token.ASSIGN: ast.Eq,
}

// parseExpression parses a unary expression, then climbs, left to
// right, folding in any binary operator whose precedence is at least
// min.
func (p *Parser) parseExpression(min Precedence) (*ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		prec, ok := binaryPrecedence[p.cur().Kind]
		if !ok || prec < min {
			break
		}

		op := binaryOp[p.cur().Kind]
		p.advance()

		right, err := p.parseExpression(prec.next())
		if err != nil {
			return nil, err
		}

		left = &ast.Expression{Kind: ast.BinaryExpr, Op: op, Left: left, Right: right}
	}

	return left, nil
}

// parseUnary parses one of the language's four unary expression forms.
func (p *Parser) parseUnary() (*ast.Expression, error) {
	switch p.cur().Kind {
	case token.NUMBER:
		n, err := strconv.ParseInt(p.cur().Literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parser: invalid numeric literal %q", p.cur().Literal)
		}
		p.advance()
		return &ast.Expression{Kind: ast.NumberExpr, Number: n}, nil

	case token.IDENT, token.A:
		// "a" closes a call's argument list, but in operand position
		// it is an ordinary variable name.
		name := p.cur().Literal
		p.advance()
		return &ast.Expression{Kind: ast.VarExpr, Name: name}, nil

	case token.CALL_INTRO:
		return p.parseCallExpr()

	case token.STRING:
		s := p.cur().Literal
		p.advance()
		return &ast.Expression{Kind: ast.StringExpr, Str: s}, nil

	default:
		return nil, fmt.Errorf("parser: unexpected token %q in expression position", p.cur().Kind)
	}
}

// parseCallExpr parses "o <name>", followed by zero or more "e <expr>"
// arguments, and a mandatory trailing discourse-marker "a".
func (p *Parser) parseCallExpr() (*ast.Expression, error) {
	p.advance() // consume the call introducer

	if p.cur().Kind != token.IDENT {
		return nil, fmt.Errorf("parser: expected a callee name after \"o\", got %q", p.cur().Kind)
	}
	callee := p.cur().Literal
	p.advance()

	var args []*ast.Expression
	for p.cur().Kind == token.E {
		p.advance()
		arg, err := p.parseExpression(Undefined)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	if p.cur().Kind != token.A {
		return nil, fmt.Errorf("parser: call to %q must end with \"a\"", callee)
	}
	p.advance()

	return &ast.Expression{Kind: ast.CallExpr, Callee: callee, Args: args}, nil
}
