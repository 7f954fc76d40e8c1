// Package bf implements the boolean expression algebra and the
// normal-form transformer: an arbitrary Formula built from variables,
// constants, conjunction, disjunction and negation can be partially
// evaluated against an assignment, or rewritten into conjunctive or
// disjunctive normal form and extracted into a clause database.
package bf

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// VariableID is a dense, small identifier for a boolean variable.
// Identifiers start at zero; the maximum identifier used in a formula
// bounds all iteration over its variables.
type VariableID uint16

// A Formula is any boolean expression, not necessarily in any normal
// form: a variable, a constant, or a conjunction/disjunction/negation
// of subformulas. Formulas are immutable; every rewrite in this package
// returns a fresh Formula rather than mutating one in place.
type Formula interface {
	String() string
	isFormula()
}

type variable struct{ id VariableID }

func (v variable) isFormula()     {}
func (v variable) String() string { return fmt.Sprintf("v%d", v.id) }

type constant struct{ value bool }

func (c constant) isFormula() {}
func (c constant) String() string {
	if c.value {
		return "1"
	}
	return "0"
}

type and struct{ left, right Formula }

func (a and) isFormula()      {}
func (a and) String() string  { return fmt.Sprintf("(%s & %s)", a.left, a.right) }

type or struct{ left, right Formula }

func (o or) isFormula()     {}
func (o or) String() string { return fmt.Sprintf("(%s | %s)", o.left, o.right) }

type not struct{ child Formula }

func (n not) isFormula()     {}
func (n not) String() string { return "-" + n.child.String() }

// True is the constant denoting a tautology.
var True Formula = constant{value: true}

// False is the constant denoting a contradiction.
var False Formula = constant{value: false}

// Var builds the formula consisting of a single variable.
func Var(id VariableID) Formula { return variable{id: id} }

// Const builds the formula consisting of a single boolean constant.
func Const(value bool) Formula { return constant{value: value} }

// Not negates the given subformula.
func Not(f Formula) Formula { return not{child: f} }

// And folds subs into a right-leaning conjunction tree. And() with no
// arguments is the identity element True; And(f) is f itself.
func And(subs ...Formula) Formula {
	if len(subs) == 0 {
		return True
	}
	res := subs[len(subs)-1]
	for i := len(subs) - 2; i >= 0; i-- {
		res = and{left: subs[i], right: res}
	}
	return res
}

// Or folds subs into a right-leaning disjunction tree. Or() with no
// arguments is the identity element False; Or(f) is f itself.
func Or(subs ...Formula) Formula {
	if len(subs) == 0 {
		return False
	}
	res := subs[len(subs)-1]
	for i := len(subs) - 2; i >= 0; i-- {
		res = or{left: subs[i], right: res}
	}
	return res
}

// Implies indicates that f1 implies f2: -f1 | f2.
func Implies(f1, f2 Formula) Formula { return Or(Not(f1), f2) }

// Eq indicates f1 and f2 are equivalent: (-f1 | f2) & (f1 | -f2).
func Eq(f1, f2 Formula) Formula {
	return And(Or(Not(f1), f2), Or(f1, Not(f2)))
}

// Xor indicates exactly one of f1, f2 holds.
func Xor(f1, f2 Formula) Formula {
	return And(Or(Not(f1), Not(f2)), Or(f1, f2))
}

// --- Inspection (tree walker) ---

// Kind identifies which case of the Formula sum type a value belongs to.
type Kind int

// The five Formula cases.
const (
	KindVariable Kind = iota
	KindConstant
	KindAnd
	KindOr
	KindNot
)

// KindOf reports which case f belongs to.
func KindOf(f Formula) Kind {
	switch f.(type) {
	case variable:
		return KindVariable
	case constant:
		return KindConstant
	case and:
		return KindAnd
	case or:
		return KindOr
	case not:
		return KindNot
	default:
		panic("bf: unknown Formula implementation")
	}
}

// AsVariable reports f's variable identifier, if f is a variable.
func AsVariable(f Formula) (VariableID, bool) {
	v, ok := f.(variable)
	return v.id, ok
}

// AsConstant reports f's boolean value, if f is a constant.
func AsConstant(f Formula) (bool, bool) {
	c, ok := f.(constant)
	return c.value, ok
}

// AsAnd reports f's two operands, if f is a conjunction.
func AsAnd(f Formula) (left, right Formula, ok bool) {
	a, ok := f.(and)
	return a.left, a.right, ok
}

// AsOr reports f's two operands, if f is a disjunction.
func AsOr(f Formula) (left, right Formula, ok bool) {
	o, ok := f.(or)
	return o.left, o.right, ok
}

// AsNot reports f's negated subformula, if f is a negation.
func AsNot(f Formula) (child Formula, ok bool) {
	n, ok := f.(not)
	return n.child, ok
}

// Walk calls visit on f and, recursively, on every subformula of f, in
// pre-order (a node before its children).
func Walk(f Formula, visit func(Formula)) {
	visit(f)
	switch v := f.(type) {
	case and:
		Walk(v.left, visit)
		Walk(v.right, visit)
	case or:
		Walk(v.left, visit)
		Walk(v.right, visit)
	case not:
		Walk(v.child, visit)
	}
}

// --- Partial evaluation ---

// Evaluate folds every variable present in a into its assigned constant
// and reduces every subtree that becomes constant-only. If a is total
// over f, the result is a single Const.
func Evaluate(f Formula, a Assignment) Formula {
	switch v := f.(type) {
	case variable:
		if val, ok := a.Get(v.id); ok {
			return Const(val)
		}
		return v
	case constant:
		return v
	case and:
		l := Evaluate(v.left, a)
		r := Evaluate(v.right, a)
		if val, ok := AsConstant(l); ok {
			if !val {
				return False
			}
			return r
		}
		if val, ok := AsConstant(r); ok {
			if !val {
				return False
			}
			return l
		}
		return and{left: l, right: r}
	case or:
		l := Evaluate(v.left, a)
		r := Evaluate(v.right, a)
		if val, ok := AsConstant(l); ok {
			if val {
				return True
			}
			return r
		}
		if val, ok := AsConstant(r); ok {
			if val {
				return True
			}
			return l
		}
		return or{left: l, right: r}
	case not:
		c := Evaluate(v.child, a)
		if val, ok := AsConstant(c); ok {
			return Const(!val)
		}
		return not{child: c}
	default:
		panic("bf: unknown Formula implementation")
	}
}

// --- Literals, clauses, CNF/DNF ---

// A Literal is a variable together with a polarity: Positive true
// denotes the variable itself, Positive false its negation. A literal
// never represents a constant.
type Literal struct {
	ID       VariableID
	Positive bool
}

// Lit builds the positive literal for id.
func Lit(id VariableID) Literal { return Literal{ID: id, Positive: true} }

// NegLit builds the negative literal for id.
func NegLit(id VariableID) Literal { return Literal{ID: id, Positive: false} }

// Negate flips the literal's polarity.
func (l Literal) Negate() Literal { return Literal{ID: l.ID, Positive: !l.Positive} }

// Formula renders the literal back as a single-variable Formula.
func (l Literal) Formula() Formula {
	if l.Positive {
		return Var(l.ID)
	}
	return Not(Var(l.ID))
}

func (l Literal) String() string {
	if l.Positive {
		return fmt.Sprintf("v%d", l.ID)
	}
	return fmt.Sprintf("-v%d", l.ID)
}

// A Clause is an unordered, duplicate-free collection of literals,
// semantically the disjunction of its members. The empty clause is
// semantically false.
type Clause struct {
	literals []Literal
}

// NewClause builds a clause from lits, dropping duplicate (id, polarity)
// pairs.
func NewClause(lits ...Literal) Clause {
	var c Clause
	for _, l := range lits {
		c.add(l)
	}
	return c
}

func (c *Clause) add(l Literal) {
	for _, x := range c.literals {
		if x == l {
			return
		}
	}
	c.literals = append(c.literals, l)
}

// Literals returns the clause's literals. The slice must not be
// mutated by the caller.
func (c Clause) Literals() []Literal { return c.literals }

// Len returns the number of distinct literals in the clause.
func (c Clause) Len() int { return len(c.literals) }

// IsEmpty reports whether the clause has no literals (semantically false).
func (c Clause) IsEmpty() bool { return len(c.literals) == 0 }

func (c Clause) String() string {
	if c.IsEmpty() {
		return "⊥"
	}
	parts := make([]string, len(c.literals))
	for i, l := range c.literals {
		parts[i] = l.String()
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

// A CNF is a sequence of clauses, semantically their conjunction.
// Clause order carries no meaning; duplicate clauses may occur.
type CNF struct {
	Clauses []Clause
}

// A DNF is a sequence of clauses read as conjunctions, semantically
// their disjunction.
type DNF struct {
	Clauses []Clause
}

// --- Normal-form transformer ---

// ToDNF converts f into disjunctive normal form: a disjunction of
// conjunctions of literals. A bare-constant result is handled outside
// the generic worklist: the empty DNF (no clauses) is the identity for
// disjunction (false), so it represents a DNF reduced to false, while a
// single empty clause (vacuous conjunction, true) is the absorbing
// case and represents a DNF reduced to true.
func ToDNF(f Formula) DNF {
	expr := toDNFExpr(f)
	if v, ok := AsConstant(expr); ok {
		if v {
			return DNF{Clauses: []Clause{NewClause()}}
		}
		return DNF{}
	}
	return DNF{Clauses: extractClauses(expr, KindOr)}
}

// ToCNF converts f into conjunctive normal form: a conjunction of
// disjunctions of literals. Defined by duality with ToDNF:
// negate, compute DNF, negate again, push Not back to the leaves. A
// bare-constant result is handled outside the generic worklist: the
// empty CNF (no clauses) is the identity for conjunction (true), while
// a single empty clause (vacuous disjunction, false) is the absorbing
// case, matching spec.md §4.4's "an input CNF with no clauses is
// immediately Sat".
func ToCNF(f Formula) CNF {
	expr := toCNFExpr(f)
	if v, ok := AsConstant(expr); ok {
		if v {
			return CNF{}
		}
		return CNF{Clauses: []Clause{NewClause()}}
	}
	return CNF{Clauses: extractClauses(expr, KindAnd)}
}

// toDNFExpr runs the NNF-pushdown/distribution pipeline and returns a
// disjunction-of-conjunctions Formula, without extracting clauses.
func toDNFExpr(f Formula) Formula {
	reduced := Evaluate(f, NewAssignment())
	pushed := nnf(reduced)
	return distribute(pushed)
}

// toCNFExpr mirrors toDNFExpr by the negate-DNF-negate duality.
func toCNFExpr(f Formula) Formula {
	negatedDNF := toDNFExpr(Not(f))
	return nnf(Not(negatedDNF))
}

// nnf pushes every Not in f down to variable leaves via De Morgan's
// laws and eliminates double negation, to a fixpoint: the result has
// Not only directly above a variable.
func nnf(f Formula) Formula {
	switch v := f.(type) {
	case variable, constant:
		return f
	case and:
		return and{left: nnf(v.left), right: nnf(v.right)}
	case or:
		return or{left: nnf(v.left), right: nnf(v.right)}
	case not:
		return pushNot(v.child)
	default:
		panic("bf: unknown Formula implementation")
	}
}

// pushNot computes nnf(Not(f)) directly, one De Morgan step at a time.
func pushNot(f Formula) Formula {
	switch v := f.(type) {
	case variable:
		return not{child: v}
	case constant:
		return constant{value: !v.value}
	case and:
		return or{left: pushNot(v.left), right: pushNot(v.right)}
	case or:
		return and{left: pushNot(v.left), right: pushNot(v.right)}
	case not:
		return nnf(v.child)
	default:
		panic("bf: unknown Formula implementation")
	}
}

// distribute applies and(a, or(b, c)) -> or(and(a,b), and(a,c)) (and its
// mirror image) to a fixpoint, turning an NNF formula into a
// disjunction of conjunctions over literals.
func distribute(f Formula) Formula {
	switch v := f.(type) {
	case and:
		if r, ok := v.right.(or); ok {
			return distribute(or{
				left:  and{left: v.left, right: r.left},
				right: and{left: v.left, right: r.right},
			})
		}
		if l, ok := v.left.(or); ok {
			return distribute(or{
				left:  and{left: l.left, right: v.right},
				right: and{left: l.right, right: v.right},
			})
		}
		l, r := distribute(v.left), distribute(v.right)
		_, lOr := l.(or)
		_, rOr := r.(or)
		if lOr || rOr {
			return distribute(and{left: l, right: r})
		}
		return and{left: l, right: r}
	case or:
		return or{left: distribute(v.left), right: distribute(v.right)}
	case not:
		return not{child: distribute(v.child)}
	default:
		return f
	}
}

// extractClauses walks a worklist over a CNF- or DNF-shaped expression:
// on a node of the given joining kind it pushes both children, on
// anything else it treats the node as a clause and harvests its
// literals. join must be KindAnd (for CNF) or KindOr (for DNF).
func extractClauses(expr Formula, join Kind) []Clause {
	var clauses []Clause
	remaining := []Formula{expr}
	for len(remaining) > 0 {
		top := remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]

		var matched bool
		var left, right Formula
		switch join {
		case KindAnd:
			left, right, matched = AsAnd(top)
		case KindOr:
			left, right, matched = AsOr(top)
		}
		if matched {
			remaining = append(remaining, left, right)
			continue
		}
		clauses = append(clauses, NewClause(collectLiterals(top)...))
	}
	return clauses
}

// collectLiterals harvests the literals of a clause-shaped subtree: a
// variable contributes its positive literal, a Not of a variable its
// negative literal, a constant contributes nothing, And/Or union both
// sides. A Not whose child is not a bare variable recurses into the
// child unchanged (polarity is not flipped); this is only reachable
// from callers that invoke collectLiterals on subtrees where Not has
// not yet been pushed to variables, which never happens here since
// extractClauses only ever calls this on output of nnf/distribute.
func collectLiterals(f Formula) []Literal {
	switch v := f.(type) {
	case variable:
		return []Literal{Lit(v.id)}
	case constant:
		return nil
	case and:
		return append(collectLiterals(v.left), collectLiterals(v.right)...)
	case or:
		return append(collectLiterals(v.left), collectLiterals(v.right)...)
	case not:
		if id, ok := AsVariable(v.child); ok {
			return []Literal{NegLit(id)}
		}
		return collectLiterals(v.child)
	default:
		panic("bf: unknown Formula implementation")
	}
}

// --- Exactly-one encoding ---

// IDAllocator hands out fresh, dense VariableIDs starting after the
// highest identifier already in use by a problem. Unique uses it to
// create the dummy row/column variables of its factorized encoding.
type IDAllocator struct {
	next VariableID
}

// NewIDAllocator returns an allocator whose first Fresh() call returns
// firstFree.
func NewIDAllocator(firstFree VariableID) *IDAllocator {
	return &IDAllocator{next: firstFree}
}

// Fresh returns a new identifier not previously returned by this
// allocator.
func (a *IDAllocator) Fresh() VariableID {
	id := a.next
	a.next++
	return id
}

// Unique builds a formula asserting that exactly one of vars is true.
// For four or fewer variables it generates the naive O(n^2) pairwise
// exclusion directly; for more it factors the variables into a
// sqrt(n)-by-sqrt(n) grid of dummy row/column variables (allocated from
// alloc) to keep the clause count near O(n) instead of O(n^2).
func Unique(alloc *IDAllocator, vars ...VariableID) Formula {
	return uniqueRec(alloc, vars...)
}

func uniqueSmall(vars ...VariableID) Formula {
	forms := make([]Formula, len(vars))
	for i, v := range vars {
		forms[i] = Var(v)
	}
	clauses := make([]Formula, 1, 1+(len(vars)*len(vars)-1)/2)
	clauses[0] = Or(forms...)
	for i := 0; i < len(vars)-1; i++ {
		for j := i + 1; j < len(vars); j++ {
			clauses = append(clauses, Or(Not(forms[i]), Not(forms[j])))
		}
	}
	return And(clauses...)
}

func uniqueRec(alloc *IDAllocator, vars ...VariableID) Formula {
	n := len(vars)
	if n <= 4 {
		return uniqueSmall(vars...)
	}

	sqrtN := math.Sqrt(float64(n))
	nbLines := int(sqrtN + 0.5)
	nbCols := int(math.Ceil(sqrtN))

	lines := make([]VariableID, nbLines)
	for i := range lines {
		lines[i] = alloc.Fresh()
	}
	cols := make([]VariableID, nbCols)
	for i := range cols {
		cols[i] = alloc.Fresh()
	}

	clauses := make([]Formula, 0, 2*n+3)
	atLeastOne := make([]Formula, n)
	for i, v := range vars {
		atLeastOne[i] = Var(v)
		clauses = append(clauses, Or(Not(Var(v)), Var(lines[i/nbCols])))
		clauses = append(clauses, Or(Not(Var(v)), Var(cols[i%nbCols])))
	}
	clauses = append(clauses, Or(atLeastOne...))
	clauses = append(clauses, uniqueRec(alloc, lines...))
	clauses = append(clauses, uniqueRec(alloc, cols...))
	return And(clauses...)
}

// --- DIMACS export ---

// Dimacs writes the DIMACS CNF representation of cnf to w: a "p cnf
// <vars> <clauses>" prolog followed by one 0-terminated line per
// clause. nbVars must be at least one greater than the highest
// VariableID appearing in cnf.
func Dimacs(w io.Writer, cnf CNF, nbVars int) error {
	prefix := fmt.Sprintf("p cnf %d %d\n", nbVars, len(cnf.Clauses))
	if _, err := io.WriteString(w, prefix); err != nil {
		return fmt.Errorf("bf: could not write DIMACS prolog: %w", err)
	}
	for _, clause := range cnf.Clauses {
		lits := clause.Literals()
		fields := make([]string, len(lits))
		for i, l := range lits {
			n := int(l.ID) + 1
			if !l.Positive {
				n = -n
			}
			fields[i] = strconv.Itoa(n)
		}
		sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
		line := fmt.Sprintf("%s 0\n", strings.Join(fields, " "))
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("bf: could not write DIMACS clause: %w", err)
		}
	}
	return nil
}
