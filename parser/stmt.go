package parser

import (
	"fmt"

	"github.com/skx/nimi-compiler/ast"
	"github.com/skx/nimi-compiler/token"
)

// parseReturnProgram parses "o tawa <expr>": exits the process with the
// expression's value as its status.
func (p *Parser) parseReturnProgram() (*ast.Statement, error) {
	p.advance() // consume RETURN_PROGRAM
	expr, err := p.parseExpression(Undefined)
	if err != nil {
		return nil, err
	}
	return &ast.Statement{Kind: ast.ReturnProgramStmt, Expr: expr}, nil
}

// parseVarDecl parses "o sin e <type> <name>".
func (p *Parser) parseVarDecl() (*ast.Statement, error) {
	p.advance() // consume VAR_DECL

	typeName, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != token.IDENT {
		return nil, fmt.Errorf("parser: expected a variable name, got %q", p.cur().Kind)
	}
	name := p.cur().Literal
	p.advance()

	return &ast.Statement{Kind: ast.VarDeclStmt, Type: typeName, Name: name}, nil
}

// parseAssign parses "<name> li kama sama <expr>", where the cursor is
// already positioned on the leading identifier.
func (p *Parser) parseAssign() (*ast.Statement, error) {
	name := p.cur().Literal
	p.advance()

	if p.cur().Kind != token.ASSIGN_OP {
		return nil, fmt.Errorf("parser: unexpected token %q in statement position", p.cur().Kind)
	}
	p.advance()

	expr, err := p.parseExpression(Undefined)
	if err != nil {
		return nil, err
	}

	return &ast.Statement{Kind: ast.AssignStmt, Name: name, Expr: expr}, nil
}

// parseCallStatement parses a call expression used in statement
// position, discarding its result.
func (p *Parser) parseCallStatement() (*ast.Statement, error) {
	call, err := p.parseCallExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Statement{Kind: ast.CallStmt, Call: call}, nil
}

// parseCond parses "tenpo pi <expr> la <statements> o pini".
func (p *Parser) parseCond() (*ast.Statement, error) {
	p.advance() // consume COND_INTRO

	pred, err := p.parseExpression(Undefined)
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != token.LA {
		return nil, fmt.Errorf("parser: expected \"la\" in conditional, got %q", p.cur().Kind)
	}
	p.advance()

	body, err := p.parseStatementsUntil(token.BLOCK_END)
	if err != nil {
		return nil, err
	}

	return &ast.Statement{Kind: ast.CondStmt, Expr: pred, Body: body}, nil
}

// parseReturnFunc parses "o weka", with an optional trailing "e <expr>".
func (p *Parser) parseReturnFunc() (*ast.Statement, error) {
	p.advance() // consume RETURN_FUNC

	var expr *ast.Expression
	if p.cur().Kind == token.E {
		p.advance()
		e, err := p.parseExpression(Undefined)
		if err != nil {
			return nil, err
		}
		expr = e
	}

	return &ast.Statement{Kind: ast.ReturnFuncStmt, Expr: expr}, nil
}

// parseBlock parses a parenthesised statement sequence, opening a
// fresh lexical scope for code generation.
func (p *Parser) parseBlock() (*ast.Statement, error) {
	p.advance() // consume (

	body, err := p.parseStatementsUntil(token.RPAREN)
	if err != nil {
		return nil, err
	}

	return &ast.Statement{Kind: ast.BlockStmt, Body: body}, nil
}

// bodyReturns reports whether any top-level statement in body already
// returns from the function, making an implicit trailing "o weka"
// unnecessary.
func bodyReturns(body []*ast.Statement) bool {
	for _, s := range body {
		if s.Kind == ast.ReturnFuncStmt {
			return true
		}
	}
	return false
}

// parseFuncDef parses a "pali"-form: a name, then the return-type and
// parameter-list clauses interleaved in either order (at most once
// each), then either a body (yielding a function definition) or
// nothing further (yielding an external declaration).
func (p *Parser) parseFuncDef() (*ast.Statement, error) {
	p.advance() // consume PALI

	if p.cur().Kind != token.IDENT {
		return nil, fmt.Errorf("parser: expected a function name after \"pali\", got %q", p.cur().Kind)
	}
	name := p.cur().Literal
	p.advance()

	var (
		params     []ast.Param
		returnType string
		hasReturn  bool
		sawRetType bool
		sawParams  bool
	)

clauses:
	for {
		switch p.cur().Kind {
		case token.RETTYPE_INTRO:
			if sawRetType {
				break clauses
			}
			sawRetType = true
			p.advance()

			t, err := p.parseTypeName()
			if err != nil {
				return nil, err
			}
			returnType = t
			hasReturn = true

		case token.PARAM_LIST_INTRO:
			if sawParams {
				break clauses
			}
			sawParams = true
			p.advance()

			for {
				t, err := p.parseTypeName()
				if err != nil {
					return nil, err
				}
				if p.cur().Kind != token.IDENT && p.cur().Kind != token.A {
					return nil, fmt.Errorf("parser: expected a parameter name, got %q", p.cur().Kind)
				}
				pname := p.cur().Literal
				p.advance()

				params = append(params, ast.Param{Type: t, Name: pname})

				if p.cur().Kind != token.EN {
					break
				}
				p.advance()
			}

		default:
			break clauses
		}
	}

	if p.cur().Kind != token.BODY_INTRO {
		return &ast.Statement{
			Kind:       ast.ExternFuncStmt,
			Name:       name,
			Params:     params,
			ReturnType: returnType,
			HasReturn:  hasReturn,
		}, nil
	}
	p.advance() // consume BODY_INTRO

	if p.cur().Kind != token.COLON {
		return nil, fmt.Errorf("parser: expected \":\" after the function-body introducer, got %q", p.cur().Kind)
	}
	p.advance()

	body, err := p.parseStatementsUntil(token.BLOCK_END)
	if err != nil {
		return nil, err
	}

	if !bodyReturns(body) {
		body = append(body, &ast.Statement{Kind: ast.ReturnFuncStmt})
	}

	return &ast.Statement{
		Kind:       ast.FuncDefStmt,
		Name:       name,
		Params:     params,
		ReturnType: returnType,
		HasReturn:  hasReturn,
		Body:       body,
	}, nil
}
