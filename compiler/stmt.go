package compiler

import (
	"fmt"

	"github.com/skx/nimi-compiler/ast"
)

// genStatement dispatches on a Statement's kind, emitting its
// translation and threading the Scope through any nested body.
func (c *Compiler) genStatement(s *ast.Statement) error {
	switch s.Kind {
	case ast.ReturnProgramStmt:
		if _, err := c.genExpr(s.Expr); err != nil {
			return err
		}
		c.popReg("rdi", 8)
		c.emit("\tmov rax, 60")
		c.emit("\tsyscall")
		return nil

	case ast.ReturnFuncStmt:
		if s.Expr != nil {
			if _, err := c.genExpr(s.Expr); err != nil {
				return err
			}
			c.popReg("rax", 8)
		}
		c.emit("\tmov rsp, rbp")
		c.emit("\tpop rbp")
		c.emit("\tret")
		return nil

	case ast.VarDeclStmt:
		size, err := c.scope.TypeSize(s.Type)
		if err != nil {
			return err
		}
		c.emit("\tsub rsp, %d", size)
		if _, err := c.scope.Current().Declare(s.Name, s.Type, size); err != nil {
			return err
		}
		return nil

	case ast.AssignStmt:
		v, offset, err := c.scope.LookupVariable(s.Name)
		if err != nil {
			return err
		}
		exprType, err := c.genExpr(s.Expr)
		if err != nil {
			return err
		}
		if exprType != v.Type {
			return fmt.Errorf("compiler: cannot assign %q to variable %q of type %q", exprType, s.Name, v.Type)
		}
		c.popReg("r9", 8)
		size, err := c.scope.TypeSize(v.Type)
		if err != nil {
			return err
		}
		c.mov(fmt.Sprintf("[rbp-%d]", offset), size, "r9")
		return nil

	case ast.CallStmt:
		retType, err := c.genExpr(s.Call)
		if err != nil {
			return err
		}
		if retType != "" {
			c.popReg("rax", 8)
		}
		return nil

	case ast.CondStmt:
		return c.genCond(s)

	case ast.BlockStmt:
		return c.genBlock(s)

	default:
		return fmt.Errorf("compiler: unhandled statement kind %q", s.Kind)
	}
}

// genCond emits a predicate, branching around the body on falsehood.
// There is no else branch.
func (c *Compiler) genCond(s *ast.Statement) error {
	label := c.scope.NextLabel()

	c.scope.PushEnvironment()

	if _, err := c.genExpr(s.Expr); err != nil {
		return err
	}
	c.popReg("rax", 8)
	c.emit("\tcmp rax, 0")
	c.emit("\tje .endif_%d", label)

	for _, stmt := range s.Body {
		if err := c.genStatement(stmt); err != nil {
			return err
		}
		if stmt.Kind == ast.ReturnFuncStmt || stmt.Kind == ast.ReturnProgramStmt {
			break
		}
	}

	c.closeScope()
	c.emit(".endif_%d:", label)
	return nil
}

// genBlock emits a parenthesised, nested lexical scope.
func (c *Compiler) genBlock(s *ast.Statement) error {
	c.scope.PushEnvironment()

	for _, stmt := range s.Body {
		if err := c.genStatement(stmt); err != nil {
			return err
		}
	}

	c.closeScope()
	return nil
}

// closeScope restores rsp for every byte the innermost Environment
// allocated, then pops it.
func (c *Compiler) closeScope() {
	locals := c.scope.Current().StackPointer
	if locals > 0 {
		c.emit("\tadd rsp, %d", locals)
	}
	c.scope.PopEnvironment()
}
