// Package compiler walks a parsed program and emits FASM x86-64
// assembly text, threading a single Scope through every recursive call
// to track lexical Environments, the function and type tables, and the
// unique-label counter.
//
// Top-level function definitions and external declarations each become
// their own labelled block; any other top-level statement is gathered
// into an implicit "main" entry point, since the language allows bare
// executable statements outside of any "pali" definition.
package compiler

import (
	"bytes"
	"fmt"

	"github.com/skx/nimi-compiler/ast"
	"github.com/skx/nimi-compiler/stack"
)

// argRegisters are the System V AMD64 integer argument registers, in
// order.
//
// Known limitation: a seventh-or-later argument is also bound to r9,
// silently clobbering whatever the sixth argument placed there.
var argRegisters = []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}

func argRegister(i int) string {
	if i >= len(argRegisters) {
		return "r9"
	}
	return argRegisters[i]
}

// sizeWord maps a byte size to the FASM operand-size keyword.
var sizeWord = map[int]string{1: "byte", 2: "word", 4: "dword", 8: "qword"}

// Compiler holds the output sink and the ambient Scope threaded
// through every node-translation call.
type Compiler struct {
	scope *stack.Scope
	out   bytes.Buffer

	strConsts map[string]string
	strOrder  []string
}

// New returns a Compiler over an initial Scope. The caller is expected
// to have registered any non-built-in types before compiling.
func New(scope *stack.Scope) *Compiler {
	return &Compiler{scope: scope, strConsts: make(map[string]string)}
}

func (c *Compiler) emit(format string, args ...interface{}) {
	fmt.Fprintf(&c.out, format+"\n", args...)
}

// Compile walks a flat top-level statement list and returns the
// generated FASM source text, or the first fatal error encountered.
func (c *Compiler) Compile(stmts []*ast.Statement) (string, error) {
	c.emit("format ELF64")
	c.emit("")
	c.emit("section '.text' executable")
	c.emit("")

	var mainBody []*ast.Statement
	hasMain := false

	for _, s := range stmts {
		switch s.Kind {
		case ast.FuncDefStmt, ast.ExternFuncStmt:
			if s.Kind == ast.FuncDefStmt && s.Name == "main" {
				hasMain = true
			}
			if err := c.genTopLevel(s); err != nil {
				return "", err
			}
		default:
			mainBody = append(mainBody, s)
		}
	}

	// A user-defined "main" (an ordinary, unreserved identifier) already
	// supplied its own "public main"/"main:" entry block above; emitting
	// a second one here would give fasm two definitions of the same
	// symbol. Bare top-level statements only get a synthesized entry
	// point when no such function exists.
	if !hasMain {
		c.emit("public main")
		c.emit("main:")
		c.emit("\tpush rbp")
		c.emit("\tmov rbp, rsp")

		for _, s := range mainBody {
			if err := c.genStatement(s); err != nil {
				return "", err
			}
		}

		// Every concrete program terminates via an explicit
		// return-from-program statement, but fall through safely to an
		// exit(0) if one ever doesn't.
		c.emit("\tmov rax, 60")
		c.zero("rdi")
		c.emit("\tsyscall")
		c.emit("")
	}

	c.emitStringConstants()

	return c.out.String(), nil
}

// genTopLevel emits a function definition or an external declaration,
// registering its signature in the Scope either way.
func (c *Compiler) genTopLevel(s *ast.Statement) error {
	switch s.Kind {
	case ast.ExternFuncStmt:
		c.scope.AddFunction(s.Name, paramTypes(s.Params), s.ReturnType, s.HasReturn)
		c.emit("extrn %s", s.Name)
		c.emit("")
		return nil

	case ast.FuncDefStmt:
		c.scope.AddFunction(s.Name, paramTypes(s.Params), s.ReturnType, s.HasReturn)

		c.emit("public %s", s.Name)
		c.emit("%s:", s.Name)
		c.emit("\tpush rbp")
		c.emit("\tmov rbp, rsp")

		c.scope.PushEnvironment()
		for i, p := range s.Params {
			size, err := c.scope.TypeSize(p.Type)
			if err != nil {
				return err
			}
			if _, err := c.scope.Current().Declare(p.Name, p.Type, size); err != nil {
				return err
			}
			c.pushReg(argRegister(i), size)
		}

		for _, stmt := range s.Body {
			if err := c.genStatement(stmt); err != nil {
				return err
			}
		}

		c.scope.PopEnvironment()
		c.emit("")
		return nil

	default:
		return fmt.Errorf("compiler: not a top-level declaration: %v", s.Kind)
	}
}

func paramTypes(params []ast.Param) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}
