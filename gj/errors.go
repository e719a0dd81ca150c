package gj

import "errors"

// Sentinel errors returned by this package. Compare with errors.Is;
// compile errors wrap these with golang.org/x/xerrors for added context.
var (
	// ErrCyclicPrimitives is returned when the filter-scheduling fixpoint
	// stalls: some primitive's non-output arguments can never all become
	// bound, because the query's primitives form a cyclic dependency.
	ErrCyclicPrimitives = errors.New("gj: cyclic primitive dependency")
)
