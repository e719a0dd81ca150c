package gj

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileProgramElimOrderPrefersMoreOccurrences(t *testing.T) {
	table := NewSymbolTable()
	r := table.Intern("R")
	s := table.Intern("S")
	x := table.Intern("x")
	y := table.Intern("y")
	z := table.Intern("z")

	// x occurs in both R and S; y and z occur once each. x must be
	// eliminated first regardless of relation sizes.
	q := Query{Atoms: []Atom{
		{Head: r, Args: []AtomTerm{Var(x), Var(y)}},
		{Head: s, Args: []AtomTerm{Var(x), Var(z)}},
	}}
	cq := CompileQuery(q)

	eg := NewMemEGraph()
	eg.Relation(r, 2).Insert([]Value{intVal(table, 1), intVal(table, 2)}, 0)
	eg.Relation(s, 2).Insert([]Value{intVal(table, 1), intVal(table, 3)}, 0)

	ranges := []TimestampRange{AllTime, AllTime}
	program, order, err := compileProgram(eg, cq, ranges)
	require.NoError(t, err)
	require.Len(t, order, 3)
	assert.Equal(t, x, order[0], "x has the most occurrences and must be eliminated first")

	first, ok := program[0].(Intersect)
	require.True(t, ok)
	assert.ElementsMatch(t, []int{0, 1}, first.AtomIndices)
}

func TestCompileProgramTieBreaksBySmallerRelation(t *testing.T) {
	table := NewSymbolTable()
	r := table.Intern("R")
	s := table.Intern("S")
	x := table.Intern("x")
	y := table.Intern("y")

	q := Query{Atoms: []Atom{
		{Head: r, Args: []AtomTerm{Var(x)}},
		{Head: s, Args: []AtomTerm{Var(y)}},
	}}
	cq := CompileQuery(q)

	eg := NewMemEGraph()
	rRel := eg.Relation(r, 1)
	for i := 0; i < 5; i++ {
		rRel.Insert([]Value{intVal(table, int64(i))}, 0)
	}
	sRel := eg.Relation(s, 1)
	sRel.Insert([]Value{intVal(table, 100)}, 0)

	ranges := []TimestampRange{AllTime, AllTime}
	_, order, err := compileProgram(eg, cq, ranges)
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Equal(t, y, order[0], "S is smaller and both vars have one occurrence each")
}

func TestCompileProgramSchedulesFiltersAfterInputsBound(t *testing.T) {
	table := NewSymbolTable()
	r := table.Intern("R")
	plus := table.Intern("+")
	x := table.Intern("x")
	y := table.Intern("y")
	z := table.Intern("z")

	q := Query{
		Atoms: []Atom{{Head: r, Args: []AtomTerm{Var(x), Var(y)}}},
		Filters: []PrimitiveAtom{
			{Head: sumPrimitive{name: plus}, Args: []AtomTerm{Var(x), Var(y), Var(z)}},
		},
	}
	cq := CompileQuery(q)
	eg := NewMemEGraph()
	eg.Relation(r, 2).Insert([]Value{intVal(table, 1), intVal(table, 2)}, 0)

	program, _, err := compileProgram(eg, cq, []TimestampRange{AllTime})
	require.NoError(t, err)

	call, ok := program[len(program)-1].(Call)
	require.True(t, ok, "the Call instruction must come last, after its inputs are bound")
	assert.False(t, call.Check, "z is a fresh output variable, so Check must be false")
}

func TestCompileProgramCyclicPrimitivesFails(t *testing.T) {
	table := NewSymbolTable()
	plus := table.Intern("+")
	x := table.Intern("x")
	y := table.Intern("y")

	// Each primitive's output is the other's only unbound input: neither
	// is schedulable.
	q := Query{Filters: []PrimitiveAtom{
		{Head: sumPrimitive{name: plus}, Args: []AtomTerm{Var(y), Var(x)}},
		{Head: sumPrimitive{name: plus}, Args: []AtomTerm{Var(x), Var(y)}},
	}}
	cq := CompileQuery(q)
	eg := NewMemEGraph()

	_, _, err := compileProgram(eg, cq, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCyclicPrimitives))
}

func intVal(table *SymbolTable, n int64) Value {
	return Value{Tag: table.Intern("int"), Bits: uint64(n)}
}

// sumPrimitive is a minimal two-input primitive stand-in used where a test
// only needs scheduling behavior, not a specific function.
type sumPrimitive struct {
	name Symbol
}

func (p sumPrimitive) Name() Symbol { return p.name }
func (p sumPrimitive) Apply(args []Value) (Value, bool) {
	if len(args) != 2 {
		return Value{}, false
	}
	return Value{Tag: args[0].Tag, Bits: args[0].Bits + args[1].Bits}, true
}
