package gj

// Value is an opaque, fixed-size, bit-comparable datum exchanged between
// this package and its host: an e-graph row coordinate, a primitive
// argument, or a query result. Tag identifies the value's sort; Bits
// carries the payload. Equality is the Go struct equality of (Tag, Bits) —
// this package never interprets Bits itself.
type Value struct {
	Tag  Symbol
	Bits uint64
}

// Primitive is a pure partial function from Values to a Value, used as a
// filter or assignment term inside a query. Apply returns ok=false when the
// primitive is undefined for the given inputs (e.g. division by zero); the
// engine treats that as pruning the current branch, never as an error.
type Primitive interface {
	Name() Symbol
	Apply(args []Value) (result Value, ok bool)
}
