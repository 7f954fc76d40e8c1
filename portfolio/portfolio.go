// Package portfolio races several independent solving strategies
// against the same instance and reports whichever finishes first: a
// configurable number of seeded DPLL runs from package solver, plus one
// run of an independent CDCL engine (gini). Every run owns its own
// clause database and assignment, so there is no shared mutable state
// between portfolio members; cancellation between them is cooperative
// via context.Context.
package portfolio

import (
	"context"
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"golang.org/x/sync/errgroup"

	"github.com/baseng0815/satdpll/bf"
	"github.com/baseng0815/satdpll/solver"
)

// Race launches n seeded solver.Solve runs plus one gini-backed CDCL
// run against inst, all starting from init. The first run to return
// Sat cancels the rest and its result is returned; if every run
// returns Unsat, Race returns Unsat. A run that returns Unknown (a
// solver.Solve run stopped by cancellation, or a gini run that was
// canceled before solving or gave no answer) is treated like Unsat for
// the purpose of deciding the race, since it carries no assignment.
func Race(ctx context.Context, inst *solver.Instance, init bf.Assignment, n int) (solver.Verdict, bf.Assignment, error) {
	if n < 1 {
		return solver.Unknown, bf.Assignment{}, fmt.Errorf("portfolio: n must be at least 1, got %d", n)
	}

	// raceCtx is the one context every worker watches; canceling it is
	// what actually stops the losers, unlike a context derived off to
	// the side that only the race loop itself would observe.
	raceCtx, cancelRace := context.WithCancel(ctx)
	defer cancelRace()

	g, gctx := errgroup.WithContext(raceCtx)

	type result struct {
		verdict solver.Verdict
		model   bf.Assignment
	}
	results := make(chan result, n+1)

	for i := 0; i < n; i++ {
		seed := int64(i + 1)
		g.Go(func() error {
			verdict, model, _ := solver.Solve(inst, init, solver.Options{Seed: &seed, Cancel: gctx.Done()})
			select {
			case results <- result{verdict: verdict, model: model}:
			case <-gctx.Done():
			}
			return nil
		})
	}

	g.Go(func() error {
		verdict, model, err := solveWithGini(gctx, inst, init)
		if err != nil {
			return err
		}
		select {
		case results <- result{verdict: verdict, model: model}:
		case <-gctx.Done():
		}
		return nil
	})

	var (
		winner   solver.Verdict = solver.Unsat
		winModel bf.Assignment
		seen     int
	)
	for seen < n+1 {
		select {
		case r := <-results:
			seen++
			if r.verdict == solver.Sat {
				winner = solver.Sat
				winModel = r.model
				goto done
			}
		case <-gctx.Done():
			goto done
		}
	}

done:
	cancelRace()
	_ = g.Wait()
	return winner, winModel, nil
}

// solveWithGini runs inst's CNF through the independent gini CDCL
// engine, translating bf.Literal into gini's z.Lit by +1-offsetting
// variable identifiers (gini reserves literal 0 as the clause
// terminator).
func solveWithGini(ctx context.Context, inst *solver.Instance, init bf.Assignment) (solver.Verdict, bf.Assignment, error) {
	cnf := bf.ToCNF(inst.Expression)
	engine := gini.New()

	litOf := func(l bf.Literal) z.Lit {
		v := z.Var(int(l.ID) + 1)
		if l.Positive {
			return v.Pos()
		}
		return v.Neg()
	}

	for _, clause := range cnf.Clauses {
		for _, lit := range clause.Literals() {
			engine.Add(litOf(lit))
		}
		engine.Add(0)
	}

	for _, id := range init.IDs() {
		val, _ := init.Get(id)
		engine.Assume(litOf(bf.Literal{ID: id, Positive: val}))
	}

	if ctx.Err() != nil {
		return solver.Unknown, bf.Assignment{}, nil
	}

	switch engine.Solve() {
	case 1: // satisfiable
		model := bf.NewAssignment()
		for _, id := range inst.VariableIDs() {
			model.Set(id, engine.Value(litOf(bf.Literal{ID: id, Positive: true})))
		}
		return solver.Sat, model, nil
	case -1: // unsatisfiable
		return solver.Unsat, bf.Assignment{}, nil
	default:
		return solver.Unknown, bf.Assignment{}, nil
	}
}
