package gj

import (
	"fmt"
	"strings"
)

// memRow is one stored tuple plus the timestamp it was first inserted at.
type memRow struct {
	tuple []Value
	ts    uint64
}

// MemRelation is one named, timestamped function table: a reference
// implementation of the row store a real e-graph would back a relation
// with. Insertion is idempotent per full tuple — re-inserting an existing
// row does not change its recorded timestamp — mirroring the
// merge-on-conflict semantics of an e-graph's function-sort relations.
type MemRelation struct {
	arity int
	rows  map[string]memRow
}

// NewMemRelation returns an empty relation of the given arity.
func NewMemRelation(arity int) *MemRelation {
	return &MemRelation{arity: arity, rows: make(map[string]memRow)}
}

// Insert adds tuple at timestamp ts if it is not already present, and
// reports whether the row was newly added.
func (r *MemRelation) Insert(tuple []Value, ts uint64) bool {
	if len(tuple) != r.arity {
		panic(fmt.Sprintf("gj: relation arity mismatch: want %d got %d", r.arity, len(tuple)))
	}
	key := rowKey(tuple)
	if _, ok := r.rows[key]; ok {
		return false
	}
	r.rows[key] = memRow{tuple: append([]Value(nil), tuple...), ts: ts}
	return true
}

func rowKey(tuple []Value) string {
	var b strings.Builder
	for _, v := range tuple {
		fmt.Fprintf(&b, "%s#%d|", v.Tag.name, v.Bits)
	}
	return b.String()
}

// MemEGraph is a minimal in-memory EGraph: a set of named, timestamped
// relations with no union-find or congruence closure, so canonicalization
// is the identity. It exists so this package's tests and demo command have
// a concrete host to run queries against; a host backed by a real
// union-find satisfies the same EGraph interface.
type MemEGraph struct {
	relations map[Symbol]*MemRelation
}

// NewMemEGraph returns an empty MemEGraph.
func NewMemEGraph() *MemEGraph {
	return &MemEGraph{relations: make(map[Symbol]*MemRelation)}
}

// Relation returns the named relation, creating it at the given arity on
// first use.
func (g *MemEGraph) Relation(sym Symbol, arity int) *MemRelation {
	r, ok := g.relations[sym]
	if !ok {
		r = NewMemRelation(arity)
		g.relations[sym] = r
	}
	return r
}

// ForEachCanonicalized implements EGraph.
func (g *MemEGraph) ForEachCanonicalized(sym Symbol, r TimestampRange, visit func(tuple []Value)) {
	rel, ok := g.relations[sym]
	if !ok {
		return
	}
	for _, row := range rel.rows {
		if r.Contains(row.ts) {
			visit(row.tuple)
		}
	}
}

// FunctionSize implements EGraph.
func (g *MemEGraph) FunctionSize(sym Symbol, r TimestampRange) int {
	rel, ok := g.relations[sym]
	if !ok {
		return 0
	}
	n := 0
	for _, row := range rel.rows {
		if r.Contains(row.ts) {
			n++
		}
	}
	return n
}
