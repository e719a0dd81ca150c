package gj

// constraintKind distinguishes the two kinds of intra-atom constraints a
// trie build must enforce before projecting a row.
type constraintKind int

const (
	constraintEq constraintKind = iota
	constraintConst
)

// constraint is one intra-atom requirement discovered from an atom's own
// argument list: either two argument positions must hold equal values
// (repeated variable, e.g. R(x, x)) or one position must hold a specific
// literal (e.g. R(1, y)). A row must satisfy every constraint in the set
// to be inserted into the atom's trie.
type constraint struct {
	kind constraintKind
	i, j int
	val  Value
}

// Context holds the mutable state of one query execution: the tuple under
// construction, a trie cursor per atom, the arena those tries were
// allocated from, and the pooled transient buffers the general
// intersection path reuses across branches. A Context is built fresh for
// each semi-naive split and discarded (with its arena) once that split's
// program has run to completion.
type Context struct {
	egraph EGraph
	cq     *CompiledQuery
	arena  *trieArena

	tuple []Value
	tries []*Trie

	valPool  [][]Value
	triePool [][]*Trie

	// disableTwoAtomFastPath, when set, routes two-atom intersections
	// through runIntersectGeneral instead of runIntersect2. It is false in
	// every Context newContext builds, and no test in this package sets it.
	disableTwoAtomFastPath bool
}

// newContext builds per-atom tries for cq, projected onto order, under
// ranges. It returns ok=false if any atom's trie ends up with zero rows —
// the spec's EmptyRelation short-circuit: execution is skipped entirely
// for this split.
func newContext(egraph EGraph, cq *CompiledQuery, order []Symbol, ranges []TimestampRange) (*Context, bool) {
	ctx := &Context{
		egraph: egraph,
		cq:     cq,
		arena:  newTrieArena(),
		tuple:  make([]Value, cq.NumVars()),
		tries:  make([]*Trie, len(cq.Query.Atoms)),
	}

	for i, atom := range cq.Query.Atoms {
		trie, ok := ctx.buildTrie(atom, order, ranges[i])
		if !ok {
			return nil, false
		}
		ctx.tries[i] = trie
	}
	return ctx, true
}

// buildTrie projects atom onto the coordinates whose variable appears in
// order, after filtering out rows that violate atom's own repeated-
// variable or literal constraints.
func (ctx *Context) buildTrie(atom Atom, order []Symbol, r TimestampRange) (*Trie, bool) {
	var constraints []constraint
	for i, t := range atom.Args {
		if !t.IsVar() {
			constraints = append(constraints, constraint{kind: constraintConst, i: i, val: t.Value()})
			continue
		}
		for j := 0; j < i; j++ {
			if atom.Args[j].IsVar() && atom.Args[j].Var() == t.Var() {
				constraints = append(constraints, constraint{kind: constraintEq, i: j, j: i})
				break
			}
		}
	}

	var projection []int
	for _, v := range order {
		for i, t := range atom.Args {
			if t.IsVar() && t.Var() == v {
				projection = append(projection, i)
				break
			}
		}
	}

	root := &Trie{}
	matched := false
	ctx.egraph.ForEachCanonicalized(atom.Head, r, func(tuple []Value) {
		for _, c := range constraints {
			switch c.kind {
			case constraintEq:
				if tuple[c.i] != tuple[c.j] {
					return
				}
			case constraintConst:
				if tuple[c.i] != c.val {
					return
				}
			}
		}
		matched = true
		root.insert(ctx.arena, projection, tuple)
	})

	if !matched {
		return nil, false
	}
	return root, true
}

// run executes program from the current recursion depth, invoking emit
// with the current tuple once the program is exhausted. emit must not
// retain its argument past the call.
func (ctx *Context) run(program Program, emit func(tuple []Value)) {
	if len(program) == 0 {
		emit(ctx.tuple)
		return
	}
	instr, rest := program[0], program[1:]
	switch in := instr.(type) {
	case Intersect:
		ctx.runIntersect(in, rest, emit)
	case Call:
		ctx.runCall(in, rest, emit)
	}
}

func (ctx *Context) runIntersect(in Intersect, rest Program, emit func([]Value)) {
	switch {
	case len(in.AtomIndices) == 1:
		ctx.runIntersect1(in, rest, emit)
	case len(in.AtomIndices) == 2 && !ctx.disableTwoAtomFastPath:
		ctx.runIntersect2(in, rest, emit)
	default:
		ctx.runIntersectGeneral(in, rest, emit)
	}
}

// runIntersect1 handles the common single-atom case directly, with no
// candidate-key buffer at all: every key of the atom's current trie node
// is a valid binding.
func (ctx *Context) runIntersect1(in Intersect, rest Program, emit func([]Value)) {
	j := in.AtomIndices[0]
	saved := ctx.tries[j]
	for v, child := range saved.children {
		ctx.tuple[in.TupleSlot] = v
		ctx.tries[j] = child
		ctx.run(rest, emit)
	}
	ctx.tries[j] = saved
}

// runIntersect2 handles the two-atom case by pivoting on the smaller
// trie's keys and probing the other trie's map directly, without building
// an intermediate candidate-key vector.
func (ctx *Context) runIntersect2(in Intersect, rest Program, emit func([]Value)) {
	j0, j1 := in.AtomIndices[0], in.AtomIndices[1]
	t0, t1 := ctx.tries[j0], ctx.tries[j1]

	lead, other := t0, t1
	leadIdx, otherIdx := j0, j1
	if t1.Len() < t0.Len() {
		lead, other = t1, t0
		leadIdx, otherIdx = j1, j0
	}

	for v, leadChild := range lead.children {
		otherChild, ok := other.children[v]
		if !ok {
			continue
		}
		ctx.tuple[in.TupleSlot] = v
		ctx.tries[leadIdx] = leadChild
		ctx.tries[otherIdx] = otherChild
		ctx.run(rest, emit)
	}
	ctx.tries[j0], ctx.tries[j1] = t0, t1
}

// runIntersectGeneral handles three-or-more-way (or, if the two-atom fast
// path is disabled, two-way) intersections via classic leapfrog pivoting: it picks the
// smallest trie, filters its keys down to those present in every other
// listed trie, then recurses once per surviving key. The candidate-key and
// saved-cursor buffers are drawn from Context's pools and returned after
// use.
func (ctx *Context) runIntersectGeneral(in Intersect, rest Program, emit func([]Value)) {
	indices := in.AtomIndices

	leader := indices[0]
	for _, j := range indices[1:] {
		if ctx.tries[j].Len() < ctx.tries[leader].Len() {
			leader = j
		}
	}

	keys := ctx.getValPool()
	for v := range ctx.tries[leader].children {
		keys = append(keys, v)
	}
	for _, j := range indices {
		if j == leader {
			continue
		}
		r := ctx.tries[j]
		kept := keys[:0]
		for _, v := range keys {
			if _, ok := r.children[v]; ok {
				kept = append(kept, v)
			}
		}
		keys = kept
	}

	saved := ctx.getTriePool()
	for _, j := range indices {
		saved = append(saved, ctx.tries[j])
	}

	for _, v := range keys {
		ctx.tuple[in.TupleSlot] = v
		for k, j := range indices {
			ctx.tries[j] = saved[k].Get(v)
		}
		ctx.run(rest, emit)
	}

	for k, j := range indices {
		ctx.tries[j] = saved[k]
	}

	ctx.putValPool(keys[:0])
	ctx.putTriePool(saved[:0])
}

func (ctx *Context) getValPool() []Value {
	n := len(ctx.valPool)
	if n == 0 {
		return nil
	}
	v := ctx.valPool[n-1]
	ctx.valPool = ctx.valPool[:n-1]
	return v[:0]
}

func (ctx *Context) putValPool(v []Value) {
	ctx.valPool = append(ctx.valPool, v)
}

func (ctx *Context) getTriePool() []*Trie {
	n := len(ctx.triePool)
	if n == 0 {
		return nil
	}
	v := ctx.triePool[n-1]
	ctx.triePool = ctx.triePool[:n-1]
	return v[:0]
}

func (ctx *Context) putTriePool(v []*Trie) {
	ctx.triePool = append(ctx.triePool, v)
}

// runCall evaluates in.Prim over its resolved inputs and binds or verifies
// its output, pruning the current branch (no recursion) when the
// primitive is undefined or a check fails.
func (ctx *Context) runCall(in Call, rest Program, emit func([]Value)) {
	inputs := in.Args[:len(in.Args)-1]
	out := in.Args[len(in.Args)-1]

	args := make([]Value, len(inputs))
	for i, t := range inputs {
		if t.IsVar() {
			slot, ok := ctx.cq.IndexOf(t.Var())
			if !ok {
				panic("gj: primitive call references unbound variable")
			}
			args[i] = ctx.tuple[slot]
		} else {
			args[i] = t.Value()
		}
	}

	res, ok := in.Prim.Apply(args)
	if !ok {
		return
	}

	if out.IsVar() {
		slot, ok := ctx.cq.IndexOf(out.Var())
		if !ok {
			panic("gj: primitive output variable missing from tuple layout")
		}
		if in.Check {
			if ctx.tuple[slot] != res {
				return
			}
		} else {
			ctx.tuple[slot] = res
		}
	} else if out.Value() != res {
		return
	}

	ctx.run(rest, emit)
}
