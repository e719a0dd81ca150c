// Package intprim provides a concrete 64-bit integer primitive vocabulary:
// the arithmetic, comparison, and bitwise operations egglog's i64 sort
// registers, reimplemented as gj.Primitive values so the demo command and
// tests have something other than a mock to query against.
package intprim

import "github.com/mehrresearch/egglog-gj/gj"

// Sort names the 64-bit signed integer value sort and mints Values and
// Primitives tagged with it.
type Sort struct {
	tag gj.Symbol
}

// NewSort interns name as this sort's tag symbol.
func NewSort(table *gj.SymbolTable, name string) *Sort {
	return &Sort{tag: table.Intern(name)}
}

// Tag returns the Symbol used to tag every Value this sort produces.
func (s *Sort) Tag() gj.Symbol { return s.tag }

// Value wraps n as a gj.Value tagged with this sort.
func (s *Sort) Value(n int64) gj.Value {
	return gj.Value{Tag: s.tag, Bits: uint64(n)}
}

// Int returns v's payload as a Go int64, assuming v is tagged with this
// sort.
func (s *Sort) Int(v gj.Value) int64 {
	return int64(v.Bits)
}

type binaryPrim struct {
	name gj.Symbol
	sort *Sort
	fn   func(a, b int64) (int64, bool)
}

func (p binaryPrim) Name() gj.Symbol { return p.name }

func (p binaryPrim) Apply(args []gj.Value) (gj.Value, bool) {
	if len(args) != 2 {
		return gj.Value{}, false
	}
	res, ok := p.fn(p.sort.Int(args[0]), p.sort.Int(args[1]))
	if !ok {
		return gj.Value{}, false
	}
	return p.sort.Value(res), true
}

type predicatePrim struct {
	name gj.Symbol
	sort *Sort
	fn   func(a, b int64) bool
}

func (p predicatePrim) Name() gj.Symbol { return p.name }

// Apply returns the sort's truthy encoding (1) when the predicate holds,
// and reports ok=false (the branch is pruned) when it does not — matching
// the i64 sort's "<" et al., which are undefined rather than false-valued
// on failure.
func (p predicatePrim) Apply(args []gj.Value) (gj.Value, bool) {
	if len(args) != 2 {
		return gj.Value{}, false
	}
	if !p.fn(p.sort.Int(args[0]), p.sort.Int(args[1])) {
		return gj.Value{}, false
	}
	return p.sort.Value(1), true
}

type unaryPrim struct {
	name gj.Symbol
	sort *Sort
	fn   func(a int64) int64
}

func (p unaryPrim) Name() gj.Symbol { return p.name }

func (p unaryPrim) Apply(args []gj.Value) (gj.Value, bool) {
	if len(args) != 1 {
		return gj.Value{}, false
	}
	return p.sort.Value(p.fn(p.sort.Int(args[0]))), true
}

// Vocabulary is the primitive set a Sort registers.
type Vocabulary struct {
	Add, Sub, Mul, Div, Mod     gj.Primitive
	And, Or, Xor, Shl, Shr, Not gj.Primitive
	Lt, Lte, Gt, Gte, Eq        gj.Primitive
	Min, Max                    gj.Primitive
}

// Register builds the vocabulary for this sort, interning one Symbol per
// primitive name via table.
func (s *Sort) Register(table *gj.SymbolTable) Vocabulary {
	bin := func(name string, fn func(a, b int64) (int64, bool)) gj.Primitive {
		return binaryPrim{name: table.Intern(name), sort: s, fn: fn}
	}
	pred := func(name string, fn func(a, b int64) bool) gj.Primitive {
		return predicatePrim{name: table.Intern(name), sort: s, fn: fn}
	}
	un := func(name string, fn func(a int64) int64) gj.Primitive {
		return unaryPrim{name: table.Intern(name), sort: s, fn: fn}
	}

	return Vocabulary{
		Add: bin("+", func(a, b int64) (int64, bool) { return a + b, true }),
		Sub: bin("-", func(a, b int64) (int64, bool) { return a - b, true }),
		Mul: bin("*", func(a, b int64) (int64, bool) { return a * b, true }),
		Div: bin("/", func(a, b int64) (int64, bool) {
			if b == 0 {
				return 0, false
			}
			return a / b, true
		}),
		Mod: bin("%", func(a, b int64) (int64, bool) {
			if b == 0 {
				return 0, false
			}
			return a % b, true
		}),
		And: bin("&", func(a, b int64) (int64, bool) { return a & b, true }),
		Or:  bin("|", func(a, b int64) (int64, bool) { return a | b, true }),
		Xor: bin("^", func(a, b int64) (int64, bool) { return a ^ b, true }),
		Shl: bin("<<", func(a, b int64) (int64, bool) {
			if b < 0 || b >= 64 {
				return 0, false
			}
			return a << uint(b), true
		}),
		Shr: bin(">>", func(a, b int64) (int64, bool) {
			if b < 0 || b >= 64 {
				return 0, false
			}
			return a >> uint(b), true
		}),
		Not: un("not-i64", func(a int64) int64 { return ^a }),
		Lt:  pred("<", func(a, b int64) bool { return a < b }),
		Lte: pred("<=", func(a, b int64) bool { return a <= b }),
		Gt:  pred(">", func(a, b int64) bool { return a > b }),
		Gte: pred(">=", func(a, b int64) bool { return a >= b }),
		Eq:  pred("=", func(a, b int64) bool { return a == b }),
		Min: bin("min", func(a, b int64) (int64, bool) {
			if a < b {
				return a, true
			}
			return b, true
		}),
		Max: bin("max", func(a, b int64) (int64, bool) {
			if a > b {
				return a, true
			}
			return b, true
		}),
	}
}
