package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skx/nimi-compiler/ast"
	"github.com/skx/nimi-compiler/lexer"
	"github.com/skx/nimi-compiler/phrase"
	"github.com/skx/nimi-compiler/token"
)

func parse(t *testing.T, input string) []*ast.Statement {
	t.Helper()

	toks, err := phrase.New(lexer.New(input)).Assemble()
	assert.NoError(t, err, "assembling %q", input)

	stmts, err := New(toks).Parse()
	assert.NoError(t, err, "parsing %q", input)
	return stmts
}

func TestReturnProgram(t *testing.T) {
	stmts := parse(t, "o tawa wan.")
	assert.Len(t, stmts, 1)
	assert.Equal(t, ast.ReturnProgramStmt, stmts[0].Kind)
	assert.Equal(t, ast.NumberExpr, stmts[0].Expr.Kind)
	assert.EqualValues(t, 1, stmts[0].Expr.Number)
}

func TestVarDeclAndAssign(t *testing.T) {
	stmts := parse(t, "o sin e nanpa x. x li kama sama tu.")
	assert.Len(t, stmts, 2)

	assert.Equal(t, ast.VarDeclStmt, stmts[0].Kind)
	assert.Equal(t, "nanpa", stmts[0].Type)
	assert.Equal(t, "x", stmts[0].Name)

	assert.Equal(t, ast.AssignStmt, stmts[1].Kind)
	assert.Equal(t, "x", stmts[1].Name)
	assert.Equal(t, ast.NumberExpr, stmts[1].Expr.Kind)
}

func TestBinaryPrecedence(t *testing.T) {
	// "tu + tu * luka" must bind as tu + (tu * luka): multiplication
	// scales tighter than addition.
	stmts := parse(t, "x li kama sama tu + tu * luka.")
	expr := stmts[0].Expr

	assert.Equal(t, ast.BinaryExpr, expr.Kind)
	assert.Equal(t, ast.Add, expr.Op)
	assert.Equal(t, ast.NumberExpr, expr.Left.Kind)

	assert.Equal(t, ast.BinaryExpr, expr.Right.Kind)
	assert.Equal(t, ast.Mul, expr.Right.Op)
}

func TestCallExpression(t *testing.T) {
	stmts := parse(t, "o add e tu e luka a.")
	assert.Len(t, stmts, 1)

	call := stmts[0].Call
	assert.Equal(t, ast.CallExpr, call.Kind)
	assert.Equal(t, "add", call.Callee)
	assert.Len(t, call.Args, 2)
}

func TestCallMissingDiscourseMarker(t *testing.T) {
	_, err := New(mustAssemble(t, "o add e tu e luka")).Parse()
	assert.Error(t, err)
}

func TestConditionalNoElse(t *testing.T) {
	stmts := parse(t, "tenpo pi wan la o tawa wan. o pini.")
	assert.Len(t, stmts, 1)
	assert.Equal(t, ast.CondStmt, stmts[0].Kind)
	assert.Len(t, stmts[0].Body, 1)
}

func TestFuncDefWithParamsAndReturnType(t *testing.T) {
	stmts := parse(t, "pali add li pana e nanpa li kepeken nanpa a en nanpa b li pali e ni: o weka e a + b. o pini.")
	assert.Len(t, stmts, 1)

	fn := stmts[0]
	assert.Equal(t, ast.FuncDefStmt, fn.Kind)
	assert.Equal(t, "add", fn.Name)
	assert.True(t, fn.HasReturn)
	assert.Equal(t, "nanpa", fn.ReturnType)
	assert.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.Equal(t, "b", fn.Params[1].Name)

	// The body already ends with an explicit return, so no implicit one
	// should have been appended.
	assert.Len(t, fn.Body, 1)
	assert.Equal(t, ast.ReturnFuncStmt, fn.Body[0].Kind)
}

func TestFuncDefImplicitReturn(t *testing.T) {
	stmts := parse(t, "pali noop li pali e ni: o sin e nanpa x. o pini.")
	fn := stmts[0]

	assert.Len(t, fn.Body, 2)
	assert.Equal(t, ast.ReturnFuncStmt, fn.Body[1].Kind)
	assert.Nil(t, fn.Body[1].Expr)
}

func TestFuncDefClausesEitherOrder(t *testing.T) {
	a := parse(t, "pali f li pana e nanpa li kepeken nanpa x li pali e ni: o weka. o pini.")
	b := parse(t, "pali f li kepeken nanpa x li pana e nanpa li pali e ni: o weka. o pini.")

	assert.Equal(t, a[0].ReturnType, b[0].ReturnType)
	assert.Equal(t, a[0].Params, b[0].Params)
}

func TestExternDeclarationHasNoBody(t *testing.T) {
	stmts := parse(t, "pali puts li kepeken linja s.")
	assert.Len(t, stmts, 1)
	assert.Equal(t, ast.ExternFuncStmt, stmts[0].Kind)
	assert.Nil(t, stmts[0].Body)
}

func TestBlock(t *testing.T) {
	stmts := parse(t, "(o sin e nanpa x.)")
	assert.Len(t, stmts, 1)
	assert.Equal(t, ast.BlockStmt, stmts[0].Kind)
	assert.Len(t, stmts[0].Body, 1)
}

func TestNonTypeWhereTypeRequired(t *testing.T) {
	_, err := New(mustAssemble(t, "o sin e x y")).Parse()
	assert.Error(t, err)
}

func TestUnexpectedTokenInStatementPosition(t *testing.T) {
	_, err := New(mustAssemble(t, "+")).Parse()
	assert.Error(t, err)
}

func mustAssemble(t *testing.T, input string) []token.Token {
	t.Helper()
	toks, err := phrase.New(lexer.New(input)).Assemble()
	assert.NoError(t, err)
	return toks
}
