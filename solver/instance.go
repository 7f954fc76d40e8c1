// Package solver builds a runtime clause database from a bf.Formula and
// decides its satisfiability with a flag-based DPLL search: unit
// propagation and pure-literal elimination reduce the database at each
// recursive step, decisions branch on an unassigned variable, and
// backtracking re-enables clauses through a per-call trail instead of
// copying the database.
package solver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/baseng0815/satdpll/bf"
)

// An Instance couples a formula with the bidirectional mapping between
// its variable identifiers and their external names. Both maps are
// immutable after construction; Instance holds no other state.
type Instance struct {
	Expression    bf.Formula
	idToName      map[bf.VariableID]string
	nameToID      map[string]bf.VariableID
	hasVariable   bool
	maxVariableID bf.VariableID
}

// NewInstance builds an Instance from expression and an id→name map.
// The inverse name→id map is derived; NewInstance panics if idToName
// contains a duplicate name, since that would make the inverse map lossy.
//
// expression may reference variable identifiers beyond those named in
// idToName (an encoder like encode.Sudoku allocates unnamed auxiliary
// variables alongside its named ones); NewInstance scans expression so
// MaxVariableID covers the full variable universe the solver must
// decide over, not just the named subset.
func NewInstance(expression bf.Formula, idToName map[bf.VariableID]string) *Instance {
	nameToID := make(map[string]bf.VariableID, len(idToName))
	for id, name := range idToName {
		if _, dup := nameToID[name]; dup {
			panic(fmt.Sprintf("solver: duplicate variable name %q", name))
		}
		nameToID[name] = id
	}
	cp := make(map[bf.VariableID]string, len(idToName))
	for id, name := range idToName {
		cp[id] = name
	}

	var hasVariable bool
	var maxVariableID bf.VariableID
	bf.Walk(expression, func(sub bf.Formula) {
		id, ok := bf.AsVariable(sub)
		if !ok {
			return
		}
		if !hasVariable || id > maxVariableID {
			maxVariableID = id
		}
		hasVariable = true
	})
	for id := range idToName {
		if !hasVariable || id > maxVariableID {
			maxVariableID = id
		}
		hasVariable = true
	}

	return &Instance{
		Expression:    expression,
		idToName:      cp,
		nameToID:      nameToID,
		hasVariable:   hasVariable,
		maxVariableID: maxVariableID,
	}
}

// NameOf returns the name interned for id, if any.
func (inst *Instance) NameOf(id bf.VariableID) (string, bool) {
	name, ok := inst.idToName[id]
	return name, ok
}

// IDOf returns the variable identifier interned for name, if any.
func (inst *Instance) IDOf(name string) (bf.VariableID, bool) {
	id, ok := inst.nameToID[name]
	return id, ok
}

// NumVariables reports how many variables are named by this instance.
// This can be fewer than the number of distinct variables the
// expression actually references; see MaxVariableID.
func (inst *Instance) NumVariables() int { return len(inst.idToName) }

// VariableIDs returns every variable identifier named by this
// instance, in ascending order. Unnamed auxiliary variables the
// expression references are not included; see MaxVariableID.
func (inst *Instance) VariableIDs() []bf.VariableID {
	ids := make([]bf.VariableID, 0, len(inst.idToName))
	for id := range inst.idToName {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MaxVariableID returns the highest variable identifier appearing
// anywhere in this instance's expression or named by the instance,
// including any unnamed auxiliary variables an encoder introduced
// alongside the named ones (e.g. encode.Sudoku's factorized bf.Unique
// dummy variables). The solver's decision search is bounded by this
// value, not by NumVariables, so every variable the formula actually
// references gets a chance to be decided. It panics if neither the
// expression nor the name map contains any variable.
func (inst *Instance) MaxVariableID() bf.VariableID {
	if !inst.hasVariable {
		panic("solver: MaxVariableID on an instance with no variables")
	}
	return inst.maxVariableID
}

func (inst *Instance) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "instance containing %d variables\n", len(inst.idToName))
	fmt.Fprintf(&sb, "expression: %s", inst.Expression)
	return sb.String()
}

// A Verdict is the outcome of a solve attempt.
type Verdict int

const (
	// Unsat means no assignment extending the initial one satisfies
	// the instance's expression.
	Unsat Verdict = iota
	// Sat means a satisfying assignment was found; it is returned
	// alongside the verdict.
	Sat
	// Unknown means the search was abandoned before reaching a
	// verdict, because Options.MaxDecisions or Options.Cancel fired.
	Unknown
)

func (v Verdict) String() string {
	switch v {
	case Sat:
		return "Sat"
	case Unsat:
		return "Unsat"
	case Unknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}
