package gj

// RunQuery runs the semi-naive driver for cq against egraph: it invokes
// callback once for every variable assignment that satisfies cq's atoms
// and filters and involves at least one row with timestamp >= ts. callback
// must not retain its tuple slice past the call.
//
// The driver runs one full compile+build+execute per atom: in split i,
// atom i is restricted to "new" rows (timestamp in [ts, +inf)), atoms
// before it to "old" rows ([0, ts)), and atoms after it are unrestricted. The union over
// splits enumerates each qualifying tuple exactly once: see SPEC_FULL.md
// and spec.md section 4.4 for the argument. Splits run in atom-index
// order; each is fully independent (fresh arena, fresh tries, fresh
// Context).
//
// The only error this can return is ErrCyclicPrimitives, raised from
// compilation when no primitive filter can be scheduled.
func RunQuery(egraph EGraph, cq *CompiledQuery, ts uint64, callback func(tuple []Value)) error {
	n := len(cq.Query.Atoms)
	if n == 0 {
		return runSplit(egraph, cq, nil, callback)
	}

	ranges := make([]TimestampRange, n)
	for i := range ranges {
		ranges[i] = AllTime
	}

	for i := 0; i < n; i++ {
		ranges[i] = TimestampRange{Start: ts, End: AllTime.End}
		if err := runSplit(egraph, cq, ranges, callback); err != nil {
			return err
		}
		ranges[i] = TimestampRange{Start: 0, End: ts}
	}
	return nil
}

// runSplit is the state machine for a single execution: Compile ->
// BuildTries -> [empty trie? -> done] -> Execute -> done.
func runSplit(egraph EGraph, cq *CompiledQuery, ranges []TimestampRange, callback func(tuple []Value)) error {
	program, order, err := compileProgram(egraph, cq, ranges)
	if err != nil {
		return err
	}
	ctx, ok := newContext(egraph, cq, order, ranges)
	if !ok {
		return nil
	}
	ctx.run(program, callback)
	return nil
}
