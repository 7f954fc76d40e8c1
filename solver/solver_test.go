package solver

import (
	"math/rand"
	"testing"

	"github.com/baseng0815/satdpll/bf"
)

func names(ids ...bf.VariableID) map[bf.VariableID]string {
	m := make(map[bf.VariableID]string, len(ids))
	for i, id := range ids {
		m[id] = string(rune('a' + i))
	}
	return m
}

func seed(n int64) Options {
	s := n
	return Options{Seed: &s}
}

func TestScenarioContradiction(t *testing.T) {
	// v0 & -v0
	inst := NewInstance(bf.And(bf.Var(0), bf.Not(bf.Var(0))), names(0))
	verdict, _, _ := Solve(inst, bf.NewAssignment(), seed(1))
	if verdict != Unsat {
		t.Fatalf("Solve(v0 & -v0) = %v, want Unsat", verdict)
	}
}

func TestScenarioTautology(t *testing.T) {
	// v0 | -v0
	inst := NewInstance(bf.Or(bf.Var(0), bf.Not(bf.Var(0))), names(0))
	verdict, _, _ := Solve(inst, bf.NewAssignment(), seed(1))
	if verdict != Sat {
		t.Fatalf("Solve(v0 | -v0) = %v, want Sat", verdict)
	}
}

func TestScenarioBareConstant(t *testing.T) {
	inst := NewInstance(bf.Const(true), map[bf.VariableID]string{})
	verdict, _, _ := Solve(inst, bf.NewAssignment(), seed(1))
	if verdict != Sat {
		t.Fatalf("Solve(Const(true)) = %v, want Sat", verdict)
	}

	inst = NewInstance(bf.Const(false), map[bf.VariableID]string{})
	verdict, _, _ = Solve(inst, bf.NewAssignment(), seed(1))
	if verdict != Unsat {
		t.Fatalf("Solve(Const(false)) = %v, want Unsat", verdict)
	}
}

func TestScenarioFourClauseContradiction(t *testing.T) {
	v0, v1 := bf.Var(0), bf.Var(1)
	f := bf.And(
		bf.Or(v0, v1),
		bf.Or(bf.Not(v0), v1),
		bf.Or(v0, bf.Not(v1)),
		bf.Or(bf.Not(v0), bf.Not(v1)),
	)
	inst := NewInstance(f, names(0, 1))
	verdict, _, _ := Solve(inst, bf.NewAssignment(), seed(1))
	if verdict != Unsat {
		t.Fatalf("Solve(4-clause contradiction) = %v, want Unsat", verdict)
	}
}

func TestScenarioCycleSatisfiable(t *testing.T) {
	a, b, c := bf.Var(0), bf.Var(1), bf.Var(2)
	f := bf.And(
		bf.Or(a, b, c),
		bf.Or(bf.Not(a), b),
		bf.Or(bf.Not(b), c),
		bf.Or(bf.Not(c), a),
	)
	inst := NewInstance(f, names(0, 1, 2))
	verdict, model, _ := Solve(inst, bf.NewAssignment(), seed(1))
	if verdict != Sat {
		t.Fatalf("Solve(cycle) = %v, want Sat", verdict)
	}
	assertSatisfies(t, inst.Expression, model)
}

func TestScenarioUnitPropagationOnly(t *testing.T) {
	v0, v1, v2 := bf.Var(0), bf.Var(1), bf.Var(2)
	f := bf.And(v0, bf.Or(bf.Not(v0), v1), bf.Or(bf.Not(v1), v2))
	inst := NewInstance(f, names(0, 1, 2))
	init := bf.NewAssignment()
	init.Set(0, true)
	verdict, model, stats := Solve(inst, init, seed(1))
	if verdict != Sat {
		t.Fatalf("Solve(unit-prop chain) = %v, want Sat", verdict)
	}
	if stats.Decisions != 0 {
		t.Errorf("Solve(unit-prop chain) made %d decisions, want 0 (pure propagation)", stats.Decisions)
	}
	for id, want := range map[bf.VariableID]bool{0: true, 1: true, 2: true} {
		got, ok := model.Get(id)
		if !ok || got != want {
			t.Errorf("model[v%d] = %v (ok=%v), want %t", id, got, ok, want)
		}
	}
}

func TestSolveRespectsInitialAssignment(t *testing.T) {
	v0, v1 := bf.Var(0), bf.Var(1)
	f := bf.Or(v0, v1)
	inst := NewInstance(f, names(0, 1))
	init := bf.NewAssignment()
	init.Set(0, false)
	verdict, model, _ := Solve(inst, init, seed(7))
	if verdict != Sat {
		t.Fatalf("Solve = %v, want Sat", verdict)
	}
	if val, ok := model.Get(0); !ok || val != false {
		t.Errorf("model[v0] = %v (ok=%v), initial assignment not preserved", val, ok)
	}
}

func TestSolveDeterministicUnderSeed(t *testing.T) {
	v0, v1, v2 := bf.Var(0), bf.Var(1), bf.Var(2)
	f := bf.And(bf.Or(v0, v1), bf.Or(bf.Not(v1), v2), bf.Or(bf.Not(v2), v0))
	inst := NewInstance(f, names(0, 1, 2))

	verdict1, model1, _ := Solve(inst, bf.NewAssignment(), seed(42))
	verdict2, model2, _ := Solve(inst, bf.NewAssignment(), seed(42))
	if verdict1 != verdict2 {
		t.Fatalf("same seed produced different verdicts: %v vs %v", verdict1, verdict2)
	}
	if verdict1 == Sat {
		for _, id := range []bf.VariableID{0, 1, 2} {
			val1, ok1 := model1.Get(id)
			val2, ok2 := model2.Get(id)
			if ok1 != ok2 || val1 != val2 {
				t.Errorf("same seed produced different models at v%d: (%v,%v) vs (%v,%v)", id, val1, ok1, val2, ok2)
			}
		}
	}
}

func TestSolveCompletenessOnUnsat(t *testing.T) {
	v0, v1 := bf.Var(0), bf.Var(1)
	f := bf.And(bf.Or(v0, v1), bf.Or(bf.Not(v0), v1), bf.Or(v0, bf.Not(v1)), bf.Or(bf.Not(v0), bf.Not(v1)))
	for _, a0 := range []bool{true, false} {
		for _, a1 := range []bool{true, false} {
			assign := bf.NewAssignment()
			assign.Set(0, a0)
			assign.Set(1, a1)
			if val, ok := bf.AsConstant(bf.Evaluate(f, assign)); !ok || val {
				t.Fatalf("expected formula unsatisfiable at every assignment, got sat at v0=%t,v1=%t", a0, a1)
			}
		}
	}
	inst := NewInstance(f, names(0, 1))
	verdict, _, _ := Solve(inst, bf.NewAssignment(), seed(1))
	if verdict != Unsat {
		t.Fatalf("Solve = %v, want Unsat", verdict)
	}
}

func TestBacktrackRestoration(t *testing.T) {
	v0, v1 := bf.Var(0), bf.Var(1)
	f := bf.And(bf.Or(v0, v1), bf.Or(bf.Not(v0), bf.Not(v1)), bf.Or(bf.Not(v0), v1), bf.Or(v0, bf.Not(v1)))
	inst := NewInstance(f, names(0, 1))
	cnf := bf.ToCNF(inst.Expression)
	search := newSearchCNF(cnf)

	before := make([]bool, len(search.clauses))
	for i, c := range search.clauses {
		before[i] = c.disabled
	}

	assignment := bf.NewAssignment()
	e := &engine{}
	e.rng = rand.New(rand.NewSource(3))

	verdict := e.solveRecursive(search, &assignment, 1, false)
	if verdict != Unsat {
		t.Fatalf("solveRecursive = %v, want Unsat", verdict)
	}
	if assignment.Len() != 0 {
		t.Errorf("assignment not restored after Unsat: %v", assignment)
	}
	for i, c := range search.clauses {
		if c.disabled != before[i] {
			t.Errorf("clause %d disabled=%t after backtrack, want %t", i, c.disabled, before[i])
		}
	}
}

func TestMaxDecisionsYieldsUnknown(t *testing.T) {
	// every variable appears with both polarities and every clause
	// starts with two free literals, so neither unit propagation nor
	// pure-literal elimination can resolve this without a decision.
	v0, v1, v2, v3 := bf.Var(0), bf.Var(1), bf.Var(2), bf.Var(3)
	f := bf.And(
		bf.Or(v0, v1), bf.Or(bf.Not(v0), bf.Not(v1)),
		bf.Or(v1, v2), bf.Or(bf.Not(v1), bf.Not(v2)),
		bf.Or(v2, v3), bf.Or(bf.Not(v2), bf.Not(v3)),
		bf.Or(v3, v0), bf.Or(bf.Not(v3), bf.Not(v0)),
	)
	inst := NewInstance(f, names(0, 1, 2, 3))
	zero := 0
	verdict, _, _ := Solve(inst, bf.NewAssignment(), Options{MaxDecisions: &zero})
	if verdict != Unknown {
		t.Fatalf("Solve with MaxDecisions=0 = %v, want Unknown", verdict)
	}
}

func assertSatisfies(t *testing.T, f bf.Formula, a bf.Assignment) {
	t.Helper()
	val, ok := bf.AsConstant(bf.Evaluate(f, a))
	if !ok {
		t.Fatalf("model %v does not totally evaluate %v", a, f)
	}
	if !val {
		t.Fatalf("model %v does not satisfy %v", a, f)
	}
}
