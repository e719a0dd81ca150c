package gj

// Instruction is one step of a compiled query's straight-line evaluation
// program: either an Intersect (bind the next variable by intersecting the
// listed atoms' trie cursors) or a Call (evaluate a primitive).
type Instruction interface {
	isInstruction()
}

// Intersect advances every atom listed in AtomIndices by the same key,
// binding tuple[TupleSlot] to that key for the remainder of the program.
type Intersect struct {
	TupleSlot   int
	AtomIndices []int
}

// Call evaluates Prim over Args (the last element of Args is the output
// term, earlier elements are inputs) and binds or verifies its result
// depending on Check.
type Call struct {
	Prim  Primitive
	Args  []AtomTerm
	Check bool
}

func (Intersect) isInstruction() {}
func (Call) isInstruction()      {}

// Program is a compiled straight-line sequence of Instructions, produced
// by the compiler for one semi-naive split and consumed by a Context.
type Program []Instruction
