package gj

import (
	"sort"

	"golang.org/x/xerrors"
)

// elimInfo is per-variable bookkeeping for the elimination-order heuristic:
// distinct from VarInfo because it is scoped to one semi-naive split (its
// sizeGuess depends on the timestamp ranges of that split).
type elimInfo struct {
	occurrences []int
	sizeGuess   int
}

// compileProgram runs Phase B of compilation: it builds a variable
// elimination order over cq's variables — sorted by occurrence count
// descending, then by estimated relation size ascending — and emits the
// Intersect/Call program that realizes it.
//
// ranges[i] is the timestamp range atoms[i] is restricted to for this
// semi-naive split; egraph.FunctionSize is queried over those same ranges
// to break ties in the heuristic. It returns the chosen elimination order
// alongside the program, since trie construction must project each atom
// onto that same order (see newContext).
func compileProgram(egraph EGraph, cq *CompiledQuery, ranges []TimestampRange) (Program, []Symbol, error) {
	order := make([]Symbol, 0, len(cq.vars.order))
	info := make(map[Symbol]*elimInfo)
	for i, atom := range cq.Query.Atoms {
		for _, v := range atom.Vars() {
			e, ok := info[v]
			if !ok {
				e = &elimInfo{}
				info[v] = e
				order = append(order, v)
			}
			e.occurrences = append(e.occurrences, i)
		}
	}

	relationSizes := make([]int, len(cq.Query.Atoms))
	for i, atom := range cq.Query.Atoms {
		relationSizes[i] = egraph.FunctionSize(atom.Head, ranges[i])
	}
	for _, v := range order {
		e := info[v]
		min := relationSizes[e.occurrences[0]]
		for _, i := range e.occurrences[1:] {
			if relationSizes[i] < min {
				min = relationSizes[i]
			}
		}
		e.sizeGuess = min
	}

	sort.SliceStable(order, func(i, j int) bool {
		ei, ej := info[order[i]], info[order[j]]
		if len(ei.occurrences) != len(ej.occurrences) {
			return len(ei.occurrences) > len(ej.occurrences) // more occurrences first
		}
		return ei.sizeGuess < ej.sizeGuess // then smaller relations first
	})

	program := make(Program, 0, len(order)+len(cq.Query.Filters))
	bound := make(map[Symbol]bool, len(order))
	for _, v := range order {
		slot, ok := cq.IndexOf(v)
		if !ok {
			panic("gj: elimination-order variable missing from tuple layout")
		}
		program = append(program, Intersect{TupleSlot: slot, AtomIndices: info[v].occurrences})
		bound[v] = true
	}

	remaining := append([]PrimitiveAtom(nil), cq.Query.Filters...)
	for len(remaining) > 0 {
		picked := -1
		for i, f := range remaining {
			if allBoundOrConst(f.Args[:len(f.Args)-1], bound) {
				picked = i
				break
			}
		}
		if picked == -1 {
			return nil, nil, xerrors.Errorf("gj: schedule remaining filters: %w", ErrCyclicPrimitives)
		}
		f := remaining[picked]
		remaining = append(remaining[:picked], remaining[picked+1:]...)

		out := f.Args[len(f.Args)-1]
		check := true
		if out.IsVar() && !bound[out.Var()] {
			check = false
			bound[out.Var()] = true
		}
		program = append(program, Call{Prim: f.Head, Args: f.Args, Check: check})
	}

	return program, order, nil
}

func allBoundOrConst(args []AtomTerm, bound map[Symbol]bool) bool {
	for _, a := range args {
		if a.IsVar() && !bound[a.Var()] {
			return false
		}
	}
	return true
}
