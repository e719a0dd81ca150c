// Package gj implements a worst-case-optimal (Generic Join) multi-way join
// evaluator over relations that represent functions of an e-graph,
// augmented with primitive filters/assignments and semi-naive
// incrementalization by timestamp range.
//
// This package consumes an already type-checked conjunctive query and a host
// EGraph; it does not parse, type-check, or maintain union-find state
// itself. See SPEC_FULL.md for the full contract.
package gj

import "github.com/google/uuid"

// Symbol identifies a relation, variable, or primitive name. Two Symbols
// compare equal iff they were interned from the same name by the same
// SymbolTable.
type Symbol struct {
	id   uuid.UUID
	name string
}

// String returns the interned name, for diagnostics.
func (s Symbol) String() string { return s.name }

// IsZero reports whether s is the zero Symbol. A SymbolTable never returns
// the zero Symbol from Intern.
func (s Symbol) IsZero() bool { return s.id == uuid.Nil }

// SymbolTable interns names into stable Symbols, one per distinct name.
// A host typically keeps one SymbolTable for the lifetime of an EGraph.
type SymbolTable struct {
	byName map[string]Symbol
}

// NewSymbolTable returns an empty SymbolTable.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byName: make(map[string]Symbol)}
}

// Intern returns the Symbol for name, minting a fresh one on first use.
func (t *SymbolTable) Intern(name string) Symbol {
	if sym, ok := t.byName[name]; ok {
		return sym
	}
	sym := Symbol{id: uuid.New(), name: name}
	t.byName[name] = sym
	return sym
}
