// Package element defines the sortable value type, its visual state
// machine, and the direction-aware ordering policy shared by every
// algorithm in the engine.
//
// An Element pairs an orderable value with a stable identity that is
// distinct from the value. Identity survives value-preserving operations
// such as rebuild-based overwrites, so a consumer tracking individual
// bars across an animation never loses an element even when its value
// slot is rewritten in place.
package element

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// VisualState is the algorithm-assigned marker attached to an element.
// It is consumed only by visualization layers; the engine itself never
// branches on it. Any state may follow any other, but every element
// ends a completed run in StateSorted.
type VisualState uint8

const (
	// StateUnsorted is the initial state of every element.
	StateUnsorted VisualState = iota
	// StateComparing marks an element participating in the current comparison.
	StateComparing
	// StatePivot marks the pivot of a partitioning pass.
	StatePivot
	// StatePointer marks an auxiliary cursor, such as selection sort's
	// current-best index or a partition boundary.
	StatePointer
	// StateSorted marks an element whose final position is settled.
	StateSorted
)

// String returns a human-readable state name.
func (s VisualState) String() string {
	switch s {
	case StateUnsorted:
		return "unsorted"
	case StateComparing:
		return "comparing"
	case StatePivot:
		return "pivot"
	case StatePointer:
		return "pointer"
	case StateSorted:
		return "sorted"
	default:
		return "unknown"
	}
}

// Direction selects ascending or descending output order.
type Direction uint8

const (
	// Ascending orders smallest first.
	Ascending Direction = iota
	// Descending orders largest first.
	Descending
)

// String returns the direction name.
func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// Precedes reports whether a value a belongs strictly before a value b
// under this direction. Every comparison in the engine goes through this
// single predicate, so flipping direction never duplicates branches
// inside an algorithm.
func (d Direction) Precedes(a, b int) bool {
	if d == Descending {
		return a > b
	}
	return a < b
}

// Element is one sortable unit: an immutable identity, a mutable value
// slot, and the current visual marker.
type Element struct {
	// ID is assigned at creation and never changes for the element's
	// lifetime, even when the value slot is overwritten.
	ID uuid.UUID

	// Value is the orderable payload. It changes only through explicit
	// overwrite operations performed by the engine.
	Value int

	// State is the current visual marker.
	State VisualState
}

// New creates an element with a fresh identity in StateUnsorted.
func New(value int) Element {
	return Element{
		ID:    uuid.New(),
		Value: value,
		State: StateUnsorted,
	}
}

// Sequence is the mutable working collection an algorithm sorts in
// place. It is owned exclusively by the running algorithm invocation;
// the length is fixed for the duration of one run.
type Sequence []Element

// FromValues builds a sequence wrapping the given values in creation
// order, each with a fresh identity.
func FromValues(values []int) Sequence {
	seq := make(Sequence, len(values))
	for i, v := range values {
		seq[i] = New(v)
	}
	return seq
}

// RandomPermutation builds a sequence holding a uniform random
// permutation of 1..n using the supplied source. A nil source falls
// back to the global generator.
func RandomPermutation(n int, rng *rand.Rand) Sequence {
	logrus.WithFields(logrus.Fields{
		"function": "RandomPermutation",
		"count":    n,
	}).Debug("Generating random permutation")

	values := make([]int, n)
	for i := range values {
		values[i] = i + 1
	}
	if rng != nil {
		rng.Shuffle(n, func(i, j int) { values[i], values[j] = values[j], values[i] })
	} else {
		rand.Shuffle(n, func(i, j int) { values[i], values[j] = values[j], values[i] })
	}
	return FromValues(values)
}

// Values returns a copy of the value slots in sequence order.
func (s Sequence) Values() []int {
	values := make([]int, len(s))
	for i := range s {
		values[i] = s[i].Value
	}
	return values
}

// Clone returns a deep copy of the sequence. Identities are preserved,
// so a clone is suitable as a replay target for an event stream recorded
// against the original.
func (s Sequence) Clone() Sequence {
	dup := make(Sequence, len(s))
	copy(dup, s)
	return dup
}

// IsSorted reports whether the value order satisfies the direction.
// Equal neighbors are always in order.
func (s Sequence) IsSorted(dir Direction) bool {
	for i := 1; i < len(s); i++ {
		if dir.Precedes(s[i].Value, s[i-1].Value) {
			return false
		}
	}
	return true
}
