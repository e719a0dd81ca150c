package gj

// VarInfo is per-variable bookkeeping produced by the tuple-layout pass:
// which atoms (indices into Query.Atoms) mention the variable. A variable
// that appears only in primitive filters, as a pure output, has an empty
// Occurrences.
type VarInfo struct {
	Occurrences []int
}

// varLayout is an insertion-ordered Symbol->VarInfo map: the fixed tuple
// index layout used throughout compilation and execution. Order here is
// the layout order, not the GJ elimination order (see compiler.go).
type varLayout struct {
	index map[Symbol]int
	order []Symbol
	info  []VarInfo
}

func newVarLayout() *varLayout {
	return &varLayout{index: make(map[Symbol]int)}
}

// ensure returns v's tuple slot, creating one (with empty VarInfo) if v is
// new.
func (m *varLayout) ensure(v Symbol) int {
	if i, ok := m.index[v]; ok {
		return i
	}
	i := len(m.order)
	m.index[v] = i
	m.order = append(m.order, v)
	m.info = append(m.info, VarInfo{})
	return i
}

func (m *varLayout) addOccurrence(v Symbol, atomIndex int) {
	i := m.ensure(v)
	m.info[i].Occurrences = append(m.info[i].Occurrences, atomIndex)
}

// IndexOf returns v's tuple slot, or ok=false if v does not appear in the
// query.
func (m *varLayout) IndexOf(v Symbol) (int, bool) {
	i, ok := m.index[v]
	return i, ok
}

// CompiledQuery is a Query plus the fixed tuple layout computed from it.
// It is immutable after CompileQuery returns and may be reused across many
// RunQuery calls, e.g. as the host e-graph grows.
type CompiledQuery struct {
	Query Query
	vars  *varLayout
}

// IndexOf returns the tuple slot assigned to v, or ok=false if v does not
// appear anywhere in the query.
func (cq *CompiledQuery) IndexOf(v Symbol) (int, bool) {
	return cq.vars.IndexOf(v)
}

// NumVars returns the width of a result tuple: the number of distinct
// variables in the query.
func (cq *CompiledQuery) NumVars() int {
	return len(cq.vars.order)
}

// Vars returns the query's variables in tuple layout order.
func (cq *CompiledQuery) Vars() []Symbol {
	return append([]Symbol(nil), cq.vars.order...)
}

// CompileQuery runs Phase A of compilation: a pure pass over query that
// fixes the tuple layout (the ordered Symbol->VarInfo map). It performs no
// I/O, cannot fail, and is independent of any timestamp range or e-graph
// state — malformed queries (missing heads, arity mismatches) are assumed
// already rejected by an upstream type-checker.
func CompileQuery(query Query) *CompiledQuery {
	vars := newVarLayout()
	for i, atom := range query.Atoms {
		for _, v := range atom.Vars() {
			vars.addOccurrence(v, i)
		}
	}
	// Filter-only variables (pure outputs) still need a tuple slot, with no
	// atom occurrences.
	for _, f := range query.Filters {
		for _, t := range f.Args {
			if t.IsVar() {
				vars.ensure(t.Var())
			}
		}
	}
	return &CompiledQuery{Query: query, vars: vars}
}
