// gjdemo runs one of a few canned Generic Join queries against an in-memory
// e-graph and prints the emitted tuples. It exists to give the gj and
// intprim packages a runnable entry point, the way the causal-tree demo
// server exercises the crdt package end to end.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mehrresearch/egglog-gj/gj"
	"github.com/mehrresearch/egglog-gj/intprim"
)

var (
	scenario = flag.String("scenario", "join", "which canned query to run: join, selfjoin, sum, filter")
	asJSON   = flag.Bool("json", false, "print results as a JSON array of rows instead of text")
	ts       = flag.Uint64("ts", 0, "semi-naive split timestamp: rows older than this are treated as already seen")
)

func main() {
	flag.Parse()

	table := gj.NewSymbolTable()
	sort := intprim.NewSort(table, "int")
	vocab := sort.Register(table)
	eg := gj.NewMemEGraph()

	cq, header := buildScenario(table, sort, vocab, eg, *scenario)
	if cq == nil {
		log.Fatalf("unknown scenario %q", *scenario)
	}

	var rows [][]int64
	err := gj.RunQuery(eg, cq, *ts, func(tuple []gj.Value) {
		row := make([]int64, len(tuple))
		for i, v := range tuple {
			row[i] = sort.Int(v)
		}
		rows = append(rows, row)
	})
	if err != nil {
		log.Fatalf("gjdemo: %v", err)
	}

	if *asJSON {
		if err := json.NewEncoder(os.Stdout).Encode(rows); err != nil {
			log.Fatalf("gjdemo: encoding output: %v", err)
		}
		return
	}
	fmt.Println(header)
	for _, row := range rows {
		fmt.Println(row)
	}
}

// buildScenario populates eg with a small fixed dataset and compiles the
// query for one of the -scenario choices, returning nil if name is
// unrecognized.
func buildScenario(table *gj.SymbolTable, sort *intprim.Sort, vocab intprim.Vocabulary, eg *gj.MemEGraph, name string) (*gj.CompiledQuery, string) {
	r := table.Intern("R")
	s := table.Intern("S")
	x := table.Intern("x")
	y := table.Intern("y")
	z := table.Intern("z")

	switch name {
	case "join":
		rel := eg.Relation(r, 2)
		rel.Insert([]gj.Value{sort.Value(1), sort.Value(2)}, 0)
		rel.Insert([]gj.Value{sort.Value(2), sort.Value(3)}, 0)
		sel := eg.Relation(s, 2)
		sel.Insert([]gj.Value{sort.Value(2), sort.Value(4)}, 0)
		sel.Insert([]gj.Value{sort.Value(3), sort.Value(5)}, 0)
		q := gj.Query{Atoms: []gj.Atom{
			{Head: r, Args: []gj.AtomTerm{gj.Var(x), gj.Var(y)}},
			{Head: s, Args: []gj.AtomTerm{gj.Var(y), gj.Var(z)}},
		}}
		return gj.CompileQuery(q), "x y z"

	case "selfjoin":
		rel := eg.Relation(r, 2)
		rel.Insert([]gj.Value{sort.Value(1), sort.Value(1)}, 0)
		rel.Insert([]gj.Value{sort.Value(1), sort.Value(2)}, 0)
		rel.Insert([]gj.Value{sort.Value(3), sort.Value(3)}, 0)
		q := gj.Query{Atoms: []gj.Atom{{Head: r, Args: []gj.AtomTerm{gj.Var(x), gj.Var(x)}}}}
		return gj.CompileQuery(q), "x"

	case "sum":
		rel := eg.Relation(r, 2)
		rel.Insert([]gj.Value{sort.Value(1), sort.Value(2)}, 0)
		rel.Insert([]gj.Value{sort.Value(10), sort.Value(20)}, 0)
		q := gj.Query{
			Atoms:   []gj.Atom{{Head: r, Args: []gj.AtomTerm{gj.Var(x), gj.Var(y)}}},
			Filters: []gj.PrimitiveAtom{{Head: vocab.Add, Args: []gj.AtomTerm{gj.Var(x), gj.Var(y), gj.Var(z)}}},
		}
		return gj.CompileQuery(q), "x y sum"

	case "filter":
		rel := eg.Relation(r, 2)
		rel.Insert([]gj.Value{sort.Value(1), sort.Value(2)}, 0)
		rel.Insert([]gj.Value{sort.Value(3), sort.Value(3)}, 0)
		rel.Insert([]gj.Value{sort.Value(5), sort.Value(4)}, 0)
		q := gj.Query{
			Atoms: []gj.Atom{{Head: r, Args: []gj.AtomTerm{gj.Var(x), gj.Var(y)}}},
			Filters: []gj.PrimitiveAtom{
				{Head: vocab.Lt, Args: []gj.AtomTerm{gj.Var(x), gj.Var(y), gj.Const(sort.Value(1))}},
			},
		}
		return gj.CompileQuery(q), "x y (x<y)"

	default:
		return nil, ""
	}
}
