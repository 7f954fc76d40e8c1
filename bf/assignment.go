package bf

import (
	"fmt"
	"sort"
	"strings"
)

// An Assignment maps a subset of variable identifiers to boolean
// values. The zero Assignment is empty and ready to use.
type Assignment struct {
	values map[VariableID]bool
}

// NewAssignment returns an empty Assignment.
func NewAssignment() Assignment {
	return Assignment{values: make(map[VariableID]bool)}
}

// AssignmentFrom builds an Assignment from a set of literals, each
// literal contributing its variable bound to its polarity. A variable
// appearing more than once takes the value of its last occurrence.
func AssignmentFrom(lits []Literal) Assignment {
	a := NewAssignment()
	for _, l := range lits {
		a.Set(l.ID, l.Positive)
	}
	return a
}

// Get reports the value bound to id, if any.
func (a Assignment) Get(id VariableID) (value bool, ok bool) {
	value, ok = a.values[id]
	return value, ok
}

// Has reports whether id is bound in a.
func (a Assignment) Has(id VariableID) bool {
	_, ok := a.values[id]
	return ok
}

// Set binds id to value, overwriting any previous binding. Set
// allocates the backing map on first use, so a zero Assignment may be
// used directly as the receiver of a Set call on an addressable value.
func (a *Assignment) Set(id VariableID, value bool) {
	if a.values == nil {
		a.values = make(map[VariableID]bool)
	}
	a.values[id] = value
}

// Unset removes any binding for id.
func (a *Assignment) Unset(id VariableID) {
	delete(a.values, id)
}

// Len reports the number of bound variables.
func (a Assignment) Len() int { return len(a.values) }

// Clone returns an independent copy of a.
func (a Assignment) Clone() Assignment {
	cp := make(map[VariableID]bool, len(a.values))
	for k, v := range a.values {
		cp[k] = v
	}
	return Assignment{values: cp}
}

// IDs returns the bound variable identifiers in ascending order.
func (a Assignment) IDs() []VariableID {
	ids := make([]VariableID, 0, len(a.values))
	for id := range a.values {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (a Assignment) String() string {
	ids := a.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("v%d=%t", id, a.values[id])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
