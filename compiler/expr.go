package compiler

import (
	"fmt"

	"github.com/skx/nimi-compiler/ast"
)

// genExpr emits code that leaves expr's value on top of the stack,
// returning its static type.
func (c *Compiler) genExpr(e *ast.Expression) (string, error) {
	switch e.Kind {
	case ast.NumberExpr:
		c.push(fmt.Sprintf("%d", e.Number))
		return "nanpa", nil

	case ast.StringExpr:
		label := c.internString(e.Str)
		c.emit("\tlea r8, [%s]", label)
		c.emit("\tpush r8")
		c.scope.Current().StackPointer += 8
		return "linja", nil

	case ast.VarExpr:
		v, offset, err := c.scope.LookupVariable(e.Name)
		if err != nil {
			return "", err
		}
		size, err := c.scope.TypeSize(v.Type)
		if err != nil {
			return "", err
		}
		c.pushMem(fmt.Sprintf("[rbp-%d]", offset), size)
		return v.Type, nil

	case ast.BinaryExpr:
		return c.genBinary(e)

	case ast.CallExpr:
		return c.genCall(e)

	default:
		return "", fmt.Errorf("compiler: unhandled expression kind %q", e.Kind)
	}
}

// genBinary emits both operands, pops them into r8 (left) and r9
// (right), and dispatches on the operator. Less-than and greater-than
// are an intentionally unimplemented path: they parse, but generate no
// instructions beyond the common pop and leave nothing pushed back.
func (c *Compiler) genBinary(e *ast.Expression) (string, error) {
	leftType, err := c.genExpr(e.Left)
	if err != nil {
		return "", err
	}
	rightType, err := c.genExpr(e.Right)
	if err != nil {
		return "", err
	}
	if leftType != rightType {
		return "", fmt.Errorf("compiler: type mismatch in binary expression: %q vs %q", leftType, rightType)
	}

	c.popReg("r9", 8) // RHS
	c.popReg("r8", 8) // LHS

	switch e.Op {
	case ast.Add:
		c.emit("\tadd r8, r9")
	case ast.Sub:
		c.emit("\tsub r8, r9")
	case ast.Mul:
		c.emit("\tmov rax, r8")
		c.emit("\tmul r9")
		c.emit("\tmov r8, rax")
	case ast.Div:
		c.zero("rdx")
		c.emit("\tmov rax, r8")
		c.emit("\tdiv r9")
		c.emit("\tmov r8, rax")
	case ast.Eq:
		c.zero("ecx")
		c.emit("\tcmp r8, r9")
		c.emit("\tsetz cl")
		c.emit("\tmov r8, rcx")
	case ast.Lt, ast.Gt:
		return leftType, nil
	default:
		return "", fmt.Errorf("compiler: unknown binary operator %q", e.Op)
	}

	c.pushReg("r8", 8)
	return leftType, nil
}

// genCall evaluates a call's arguments in reverse source order, so
// that popping them back off in forward order binds each to its
// correct positional register, then emits the call itself.
func (c *Compiler) genCall(e *ast.Expression) (string, error) {
	fn, err := c.scope.LookupFunction(e.Callee)
	if err != nil {
		return "", err
	}
	if len(e.Args) != len(fn.Params) {
		return "", fmt.Errorf("compiler: call to %q passes %d arguments, want %d", e.Callee, len(e.Args), len(fn.Params))
	}

	for i := len(e.Args) - 1; i >= 0; i-- {
		argType, err := c.genExpr(e.Args[i])
		if err != nil {
			return "", err
		}
		if argType != fn.Params[i] {
			return "", fmt.Errorf("compiler: call to %q: argument %d has type %q, want %q", e.Callee, i, argType, fn.Params[i])
		}
	}

	for i := range e.Args {
		c.popReg(argRegister(i), 8)
	}

	c.emit("\tcall %s", e.Callee)

	if fn.HasReturn {
		size, err := c.scope.TypeSize(fn.ReturnType)
		if err != nil {
			return "", err
		}
		c.pushReg("rax", size)
		return fn.ReturnType, nil
	}

	return "", nil
}
