package compiler

// push loads an immediate value into r8 and pushes it, growing the
// current Environment's stack-pointer accounting by 8 bytes.
func (c *Compiler) push(value string) {
	c.emit("\tmov r8, %s", value)
	c.emit("\tpush r8")
	c.scope.Current().StackPointer += 8
}

// pushReg pushes reg, sized, onto the stack.
func (c *Compiler) pushReg(reg string, size int) {
	c.emit("\tpush %s %s", sizeWord[size], reg)
	c.scope.Current().StackPointer += size
}

// popReg pops the stack into reg, sized.
func (c *Compiler) popReg(reg string, size int) {
	c.emit("\tpop %s %s", sizeWord[size], reg)
	c.scope.Current().StackPointer -= size
}

// pushMem pushes the sized value held at a memory operand, e.g. a
// variable's frame-relative address.
func (c *Compiler) pushMem(mem string, size int) {
	c.emit("\tpush %s %s", sizeWord[size], mem)
	c.scope.Current().StackPointer += size
}

// mov emits a sized move of from into the memory or register operand
// to.
func (c *Compiler) mov(to string, size int, from string) {
	c.emit("\tmov %s %s, %s", sizeWord[size], to, from)
}

// zero clears reg via xor.
func (c *Compiler) zero(reg string) {
	c.emit("\txor %s, %s", reg, reg)
}
