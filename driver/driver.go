// Package driver orchestrates the four compilation stages against a
// single input file and hands the resulting assembly to the external
// assembler and, optionally, linker.
//
// This is the only package that touches the filesystem or spawns
// external processes; every other package is pure.
package driver

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/skx/nimi-compiler/compiler"
	"github.com/skx/nimi-compiler/lexer"
	"github.com/skx/nimi-compiler/parser"
	"github.com/skx/nimi-compiler/phrase"
	"github.com/skx/nimi-compiler/stack"
)

// Mode is the CLI's compilation mode.
type Mode string

const (
	// ObjectOnly ("o") stops after assembling to a relocatable object.
	ObjectOnly Mode = "o"

	// Link ("l") additionally links the object into an executable
	// against the runtime support library.
	Link Mode = "l"
)

// runtimeObjects are the fixed runtime-library objects linked in
// alongside the compiler's own output in Link mode.
var runtimeObjects = []string{"lib/asen_asm.o", "lib/pu.o"}

// Driver holds the streams external tool output is copied to.
type Driver struct {
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a Driver that copies external tool output to os.Stdout
// and os.Stderr.
func New() *Driver {
	return &Driver{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run implements the CLI contract: <program> <mode> <input_file>
// <output_basename>. args excludes the program name, i.e. it holds
// exactly [mode, input_file, output_basename] on success.
func (d *Driver) Run(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("driver: usage: <mode> <input_file> <output_basename>")
	}

	mode := Mode(args[0])
	if mode != ObjectOnly && mode != Link {
		return fmt.Errorf("driver: unknown mode %q: expected %q or %q", args[0], ObjectOnly, Link)
	}

	input, basename := args[1], args[2]

	source, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("driver: reading %q: %w", input, err)
	}

	asm, err := Compile(string(source))
	if err != nil {
		return fmt.Errorf("driver: %w", err)
	}

	asmPath := basename + ".asm"
	if err := os.WriteFile(asmPath, []byte(asm), 0644); err != nil {
		return fmt.Errorf("driver: writing %q: %w", asmPath, err)
	}

	if err := d.run("fasm", asmPath); err != nil {
		return fmt.Errorf("driver: assembling %q: %w", asmPath, err)
	}

	if mode == Link {
		objPath := basename + ".o"
		ldArgs := append([]string{objPath}, runtimeObjects...)
		if err := d.run("ld", ldArgs...); err != nil {
			return fmt.Errorf("driver: linking %q: %w", objPath, err)
		}
	}

	return nil
}

// run invokes an external tool, streaming its output to the Driver's
// configured writers. Any non-zero exit is fatal.
func (d *Driver) run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr
	return cmd.Run()
}

// Compile runs the lexer, phrase assembler, parser, and code generator
// over source, returning the generated FASM assembly text.
func Compile(source string) (string, error) {
	toks, err := phrase.New(lexer.New(source)).Assemble()
	if err != nil {
		return "", err
	}

	stmts, err := parser.New(toks).Parse()
	if err != nil {
		return "", err
	}

	scope := stack.New()
	scope.RegisterType("linja", 8)

	return compiler.New(scope).Compile(stmts)
}
