// Package ordering implements dense zero-based position bookkeeping for
// ordered sequences of entities (tasks within a column, columns within a
// board). Every mutating operation renumbers the sequence so positions are
// exactly {0..n-1} in sequence order.
package ordering

import (
	"fmt"

	"github.com/google/uuid"
)

// Entry is an element of an ordered sequence.
type Entry interface {
	GetID() uuid.UUID
	GetPosition() int
	SetPosition(pos int)
}

// NextPosition returns the position a newly appended entry takes:
// the current length of the sequence.
func NextPosition[E Entry](seq []E) int {
	return len(seq)
}

// Renumber rewrites positions to 0..n-1 in sequence order.
func Renumber[E Entry](seq []E) {
	for i, e := range seq {
		e.SetPosition(i)
	}
}

// RemoveAndCompact removes the entry with the given id and renumbers the
// remaining entries so positions stay dense. Entries after the removed one
// shift left by one. The input slice is not modified.
func RemoveAndCompact[E Entry](seq []E, id uuid.UUID) []E {
	out := make([]E, 0, len(seq))
	for _, e := range seq {
		if e.GetID() == id {
			continue
		}
		out = append(out, e)
	}
	Renumber(out)
	return out
}

// InsertAt inserts entry at index, clamping index to [0, len(seq)], and
// renumbers the whole sequence. The input slice is not modified.
func InsertAt[E Entry](seq []E, entry E, index int) []E {
	if index < 0 {
		index = 0
	}
	if index > len(seq) {
		index = len(seq)
	}

	out := make([]E, 0, len(seq)+1)
	out = append(out, seq[:index]...)
	out = append(out, entry)
	out = append(out, seq[index:]...)
	Renumber(out)
	return out
}

// Contains reports whether the sequence holds an entry with the given id
func Contains[E Entry](seq []E, id uuid.UUID) bool {
	for _, e := range seq {
		if e.GetID() == id {
			return true
		}
	}
	return false
}

// Dense verifies the post-condition that positions are exactly {0..n-1} in
// sequence order with no gaps or duplicates. A violation indicates a
// programming error in the caller, never bad user input.
func Dense[E Entry](seq []E) error {
	for i, e := range seq {
		if e.GetPosition() != i {
			return fmt.Errorf("ordering: entry %s at index %d has position %d", e.GetID(), i, e.GetPosition())
		}
	}
	return nil
}
