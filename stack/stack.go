// Package stack holds the compiler's process-wide compilation state: a
// stack of lexical Environments (innermost last), the function and type
// tables, and the label counter used to generate unique assembly labels.
//
// Adapted from a generic string-stack: code generation is single-threaded
// end to end (the pipeline has no concurrency - see the driver), so the
// locking the original stack used has been dropped, and the element type
// has been specialised from strings to lexical Environment frames.
package stack

import "fmt"

// Type is a named primitive with a fixed byte size.
type Type struct {
	Name string
	Size int
}

// Variable carries its type name and the byte offset, within its owning
// Environment, at which it was declared: the sum of the sizes of every
// variable declared before it in that same Environment.
type Variable struct {
	Type     string
	StackPos int
}

// Function carries a declared function's signature: its ordered
// parameter type list and its optional return type.
type Function struct {
	Params     []string
	ReturnType string
	HasReturn  bool
}

// Environment is a single lexical scope: its local variables, keyed by
// name, and the running total of bytes they occupy on the stack.
type Environment struct {
	vars map[string]*Variable

	// StackPointer is the total bytes of locals allocated so far in
	// this Environment.
	StackPointer int

	// TabDepth is a tab-depth hint; unused semantically, reserved.
	TabDepth int
}

// NewEnvironment returns an empty Environment.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]*Variable)}
}

// Declare records a new Variable of the given type and size in this
// Environment, returning an error if name is already in use here.
func (e *Environment) Declare(name, typeName string, size int) (*Variable, error) {
	if _, exists := e.vars[name]; exists {
		return nil, fmt.Errorf("duplicate variable %q in current scope", name)
	}

	v := &Variable{Type: typeName, StackPos: e.StackPointer}
	e.vars[name] = v
	e.StackPointer += size
	return v, nil
}

// Lookup returns the Variable named name in this Environment only (no
// outward search).
func (e *Environment) Lookup(name string) (*Variable, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Scope is the ambient compilation state threaded through every
// codegen call: the stack of Environments, the function table, the
// type table, and the label counter.
type Scope struct {
	environments []*Environment
	Functions    map[string]*Function
	Types        map[string]*Type

	labelCounter int
}

// New returns a Scope seeded with the built-in "nanpa" type (a 64-bit
// integer, 8 bytes) and a single empty outermost Environment.
func New() *Scope {
	s := &Scope{
		environments: []*Environment{NewEnvironment()},
		Functions:    make(map[string]*Function),
		Types:        make(map[string]*Type),
	}
	s.RegisterType("nanpa", 8)
	return s
}

// RegisterType adds (or replaces) a named primitive type.
func (s *Scope) RegisterType(name string, size int) {
	s.Types[name] = &Type{Name: name, Size: size}
}

// TypeSize returns the byte size of a registered type, or an error if
// the name isn't a known type.
func (s *Scope) TypeSize(name string) (int, error) {
	t, ok := s.Types[name]
	if !ok {
		return 0, fmt.Errorf("unknown type %q", name)
	}
	return t.Size, nil
}

// PushEnvironment opens a new, innermost lexical scope.
func (s *Scope) PushEnvironment() {
	s.environments = append(s.environments, NewEnvironment())
}

// PopEnvironment closes the innermost lexical scope.
func (s *Scope) PopEnvironment() {
	s.environments = s.environments[:len(s.environments)-1]
}

// Current returns the innermost (currently active) Environment.
func (s *Scope) Current() *Environment {
	return s.environments[len(s.environments)-1]
}

// NextLabel returns the next unique label index, starting at 0.
func (s *Scope) NextLabel() int {
	n := s.labelCounter
	s.labelCounter++
	return n
}

// AddFunction registers a function's signature, enabling calls
// (including self-recursive ones) to resolve it.
func (s *Scope) AddFunction(name string, params []string, returnType string, hasReturn bool) {
	s.Functions[name] = &Function{Params: params, ReturnType: returnType, HasReturn: hasReturn}
}

// LookupFunction resolves a function by name.
func (s *Scope) LookupFunction(name string) (*Function, error) {
	f, ok := s.Functions[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	return f, nil
}

// LookupVariable resolves name innermost-outward - the first match
// wins, so inner declarations shadow outer ones - and returns the
// Variable together with its signed byte offset relative to the
// current function's frame pointer ([rbp - k]).
//
// A variable's address is the number of bytes, counting down from rbp,
// occupied by every Environment pushed before its own plus its own
// position and size within that Environment; Environments pushed after
// it (nested blocks entered later) don't affect it, since the stack
// only grows further away from rbp as they're entered.
func (s *Scope) LookupVariable(name string) (*Variable, int, error) {
	for i := len(s.environments) - 1; i >= 0; i-- {
		env := s.environments[i]
		v, ok := env.Lookup(name)
		if !ok {
			continue
		}

		size, err := s.TypeSize(v.Type)
		if err != nil {
			return nil, 0, err
		}

		outer := 0
		for j := 0; j < i; j++ {
			outer += s.environments[j].StackPointer
		}

		return v, outer + v.StackPos + size, nil
	}

	return nil, 0, fmt.Errorf("unknown variable %q", name)
}
