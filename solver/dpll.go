package solver

import (
	"math/rand"

	"github.com/baseng0815/satdpll/bf"
)

// Options tunes a solve call. The zero Options selects default
// behavior: an unseeded decision stream, pure-literal elimination
// enabled, no decision budget, no cancellation.
type Options struct {
	// Seed fixes the decision stream for deterministic runs. A nil
	// Seed draws from the package-level math/rand source.
	Seed *int64
	// DisablePureLiteral skips pure-literal elimination (§4.4 step 2),
	// useful for isolating its effect in timing studies.
	DisablePureLiteral bool
	// MaxDecisions bounds the number of branch decisions taken before
	// giving up and returning Unknown. A nil MaxDecisions means
	// unbounded.
	MaxDecisions *int
	// Cancel, if non-nil, is polled at the start of every recursive
	// step; a closed/ready channel aborts the search with Unknown.
	Cancel <-chan struct{}
}

// Stats reports search effort for one Solve call.
type Stats struct {
	Decisions        int
	UnitPropagations int
	PureLiterals     int
}

// engine carries the mutable search state threaded through the
// recursion: the decision stream, the remaining decision budget, the
// cancellation channel, and running statistics.
type engine struct {
	rng          *rand.Rand
	decisionsLeft *int
	cancel        <-chan struct{}
	stats         Stats
}

func (e *engine) budgetExceeded() bool {
	return e.decisionsLeft != nil && *e.decisionsLeft <= 0
}

func (e *engine) cancelled() bool {
	if e.cancel == nil {
		return false
	}
	select {
	case <-e.cancel:
		return true
	default:
		return false
	}
}

// Solve decides satisfiability of inst.Expression, starting the search
// from initial. It never mutates initial; the returned Assignment, on
// Sat, is a superset of initial restricted to the identifiers initial
// names.
func Solve(inst *Instance, initial bf.Assignment, opts Options) (Verdict, bf.Assignment, Stats) {
	cnf := bf.ToCNF(inst.Expression)
	search := newSearchCNF(cnf)

	assignment := initial.Clone()
	for _, id := range assignment.IDs() {
		val, _ := assignment.Get(id)
		search.disableSatisfying(bf.Literal{ID: id, Positive: val})
	}

	var maxID bf.VariableID
	if inst.hasVariable {
		maxID = inst.MaxVariableID()
	}

	e := &engine{}
	if opts.Seed != nil {
		e.rng = rand.New(rand.NewSource(*opts.Seed))
	} else {
		e.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if opts.MaxDecisions != nil {
		left := *opts.MaxDecisions
		e.decisionsLeft = &left
	}
	e.cancel = opts.Cancel

	verdict := e.solveRecursive(search, &assignment, maxID, opts.DisablePureLiteral)
	return verdict, assignment, e.stats
}

// solveRecursive implements one level of the DPLL recursion per
// spec §4.4: unit propagation, pure-literal elimination, termination
// checks, decision, branch-and-backtrack. assignment is mutated in
// place and restored to its entry state on every non-Sat return path.
func (e *engine) solveRecursive(cnf *searchCNF, assignment *bf.Assignment, maxID bf.VariableID, disablePureLiteral bool) Verdict {
	if e.cancelled() {
		return Unknown
	}

	var trail []bf.Literal

	// 1. Unit propagation.
	for {
		lit, ok := findUnitLiteral(cnf, *assignment)
		if !ok {
			break
		}
		assignment.Set(lit.ID, lit.Positive)
		trail = append(trail, lit)
		cnf.disableSatisfying(lit)
		e.stats.UnitPropagations++
	}

	// 2. Pure-literal elimination.
	if !disablePureLiteral {
		for _, lit := range findPureLiterals(cnf, *assignment) {
			assignment.Set(lit.ID, lit.Positive)
			trail = append(trail, lit)
			cnf.disableSatisfying(lit)
			e.stats.PureLiterals++
		}
	}

	// 3. Termination checks.
	if cnf.hasNoEnabledClauses() {
		return Sat
	}
	if cnf.hasEmptyEnabledClause(*assignment) {
		undoTrail(cnf, assignment, trail)
		return Unsat
	}

	if e.budgetExceeded() || e.cancelled() {
		undoTrail(cnf, assignment, trail)
		return Unknown
	}

	// 4. Decision.
	decisionVar, ok := e.chooseVariable(*assignment, maxID)
	if !ok {
		panic("solver: no variable left to decide but clauses remain enabled")
	}
	if e.decisionsLeft != nil {
		*e.decisionsLeft--
	}
	e.stats.Decisions++

	// 5. Branch true.
	litTrue := bf.Literal{ID: decisionVar, Positive: true}
	assignment.Set(decisionVar, true)
	cnf.disableSatisfying(litTrue)
	v := e.solveRecursive(cnf, assignment, maxID, disablePureLiteral)
	if v == Sat {
		return Sat
	}
	sawUnknown := v == Unknown
	assignment.Unset(decisionVar)
	cnf.enableIfEligible(litTrue, *assignment)

	// 6. Branch false.
	litFalse := bf.Literal{ID: decisionVar, Positive: false}
	assignment.Set(decisionVar, false)
	cnf.disableSatisfying(litFalse)
	v = e.solveRecursive(cnf, assignment, maxID, disablePureLiteral)
	if v == Sat {
		return Sat
	}
	if v == Unknown {
		sawUnknown = true
	}
	assignment.Unset(decisionVar)
	cnf.enableIfEligible(litFalse, *assignment)

	// 7. Failure: undo this call's own trail and report Unsat, or
	// Unknown if either branch was abandoned.
	undoTrail(cnf, assignment, trail)
	if sawUnknown {
		return Unknown
	}
	return Unsat
}

// undoTrail removes trail's literals from assignment and re-enables
// their clauses, in reverse order, restoring strict LIFO discipline.
func undoTrail(cnf *searchCNF, assignment *bf.Assignment, trail []bf.Literal) {
	for i := len(trail) - 1; i >= 0; i-- {
		lit := trail[i]
		assignment.Unset(lit.ID)
		cnf.enableIfEligible(lit, *assignment)
	}
}

// findUnitLiteral looks for an enabled clause with exactly one
// unassigned literal and returns it.
func findUnitLiteral(cnf *searchCNF, a bf.Assignment) (bf.Literal, bool) {
	for i := range cnf.clauses {
		c := &cnf.clauses[i]
		if c.disabled {
			continue
		}
		if c.freeLiteralCount(a) == 1 {
			return c.freeLiteral(a), true
		}
	}
	return bf.Literal{}, false
}

// findPureLiterals scans every enabled clause's unassigned literals
// once, returning every literal whose negation never co-occurs.
func findPureLiterals(cnf *searchCNF, a bf.Assignment) []bf.Literal {
	pure := make(map[bf.Literal]bool)
	impure := make(map[bf.Literal]bool)

	for i := range cnf.clauses {
		c := &cnf.clauses[i]
		if c.disabled {
			continue
		}
		for _, l := range c.literals {
			if a.Has(l.ID) {
				continue
			}
			neg := l.Negate()
			if pure[neg] {
				delete(pure, neg)
				impure[l] = true
				impure[neg] = true
			} else if !impure[l] {
				pure[l] = true
			}
		}
	}

	out := make([]bf.Literal, 0, len(pure))
	for l := range pure {
		out = append(out, l)
	}
	return out
}

// chooseVariable selects an unassigned variable identifier in
// [0, maxID]. When fewer than half the variables are assigned it
// samples uniformly by repeated random draw; otherwise it enumerates
// the unassigned identifiers and picks one uniformly.
func (e *engine) chooseVariable(a bf.Assignment, maxID bf.VariableID) (bf.VariableID, bool) {
	total := int(maxID) + 1
	if total <= 0 {
		return 0, false
	}
	if a.Len() < total/2 {
		// The random draws are capped at total attempts; if none hits
		// an unassigned candidate, fall through to the enumeration
		// below rather than spinning indefinitely.
		for attempt := 0; attempt < total; attempt++ {
			candidate := bf.VariableID(e.rng.Intn(total))
			if !a.Has(candidate) {
				return candidate, true
			}
		}
	}

	var available []bf.VariableID
	for id := bf.VariableID(0); int(id) < total; id++ {
		if !a.Has(id) {
			available = append(available, id)
		}
	}
	if len(available) == 0 {
		return 0, false
	}
	return available[e.rng.Intn(len(available))], true
}
