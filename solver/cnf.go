package solver

import "github.com/baseng0815/satdpll/bf"

// searchClause is one clause of the runtime database: its literals,
// plus a flag recording whether the clause is currently considered
// already satisfied. Disabled clauses are skipped by every scan below.
type searchClause struct {
	literals []bf.Literal
	disabled bool
}

// freeLiteralCount counts the literals of c whose variable is not yet
// bound by a.
func (c *searchClause) freeLiteralCount(a bf.Assignment) int {
	n := 0
	for _, l := range c.literals {
		if !a.Has(l.ID) {
			n++
		}
	}
	return n
}

// freeLiteral returns the single unassigned literal of c under a. It
// panics if c does not have exactly one free literal; callers must
// check freeLiteralCount first.
func (c *searchClause) freeLiteral(a bf.Assignment) bf.Literal {
	for _, l := range c.literals {
		if !a.Has(l.ID) {
			return l
		}
	}
	panic("solver: freeLiteral called on a clause with no free literal")
}

// hasSatisfiedLiteral reports whether some literal of c is already
// satisfied by a.
func (c *searchClause) hasSatisfiedLiteral(a bf.Assignment) bool {
	for _, l := range c.literals {
		if val, ok := a.Get(l.ID); ok && val == l.Positive {
			return true
		}
	}
	return false
}

func (c *searchClause) contains(l bf.Literal) bool {
	for _, x := range c.literals {
		if x == l {
			return true
		}
	}
	return false
}

// searchCNF is a CNF augmented with per-clause enable/disable flags: a
// disabled clause is treated as already satisfied. disable/enable are
// LIFO-reversible, letting DPLL backtrack without ever copying the
// clause slice.
type searchCNF struct {
	clauses []searchClause
}

// newSearchCNF builds a fresh, fully-enabled runtime database from cnf.
func newSearchCNF(cnf bf.CNF) *searchCNF {
	clauses := make([]searchClause, len(cnf.Clauses))
	for i, c := range cnf.Clauses {
		lits := make([]bf.Literal, len(c.Literals()))
		copy(lits, c.Literals())
		clauses[i] = searchClause{literals: lits}
	}
	return &searchCNF{clauses: clauses}
}

// disableSatisfying disables every currently-enabled clause containing
// literal: that clause is now satisfied because literal holds.
func (s *searchCNF) disableSatisfying(literal bf.Literal) {
	for i := range s.clauses {
		c := &s.clauses[i]
		if !c.disabled && c.contains(literal) {
			c.disabled = true
		}
	}
}

// enableIfEligible re-enables every currently-disabled clause
// containing literal, provided no other literal of that clause is
// currently satisfied by assignment. This is the precise inverse of
// disableSatisfying needed during backtrack.
func (s *searchCNF) enableIfEligible(literal bf.Literal, assignment bf.Assignment) {
clauseLoop:
	for i := range s.clauses {
		c := &s.clauses[i]
		if !c.disabled || !c.contains(literal) {
			continue
		}
		for _, l := range c.literals {
			if val, ok := assignment.Get(l.ID); ok && val == l.Positive {
				continue clauseLoop
			}
		}
		c.disabled = false
	}
}

// hasNoEnabledClauses reports whether every clause is disabled: the
// formula is satisfied under the current assignment.
func (s *searchCNF) hasNoEnabledClauses() bool {
	for i := range s.clauses {
		if !s.clauses[i].disabled {
			return false
		}
	}
	return true
}

// hasEmptyEnabledClause reports whether some enabled clause has every
// literal falsified by assignment: that clause witnesses
// unsatisfiability on the current branch.
func (s *searchCNF) hasEmptyEnabledClause(assignment bf.Assignment) bool {
	for i := range s.clauses {
		c := &s.clauses[i]
		if c.disabled {
			continue
		}
		if c.freeLiteralCount(assignment) == 0 && !c.hasSatisfiedLiteral(assignment) {
			return true
		}
	}
	return false
}
