package ecs

import (
	"math"
	"reflect"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const (
	// minCapacity is the first allocation made for an empty archetype.
	minCapacity = 64
	// maxRows bounds the length of an archetype so every row fits an EntityId
	// and an int on all platforms.
	maxRows = math.MaxInt32
)

// Archetype stores every entity that has exactly one set of component types.
// Each type owns a column; all columns share a single capacity, and the first
// Len() slots of every column hold live values.
type Archetype struct {
	id      uint32
	types   TypeSequence
	columns []*column
	index   *intmap.Map[TypeID, int]
	length  int
	cap     int
	logger  zerolog.Logger
}

func newArchetype(id uint32, types TypeSequence, logger zerolog.Logger) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]*column, types.Len()),
		index:   intmap.New[TypeID, int](max(types.Len(), 4)),
		logger:  logger.With().Uint32("archetype_id", id).Logger(),
	}

	for idx, info := range types.types {
		a.columns[idx] = newColumn(info, 0)
		a.index.Put(info.id, idx)
	}

	return a
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the canonical component types for this archetype
func (a *Archetype) Types() TypeSequence {
	return a.types
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	_, ok := a.column(typeID(compType))
	return ok
}

// Len returns the number of committed rows.
func (a *Archetype) Len() int {
	return a.length
}

// Capacity returns the number of allocated slots per column.
func (a *Archetype) Capacity() int {
	return a.cap
}

func (a *Archetype) column(id TypeID) (*column, bool) {
	idx, ok := a.index.Get(id)
	if !ok {
		return nil, false
	}
	return a.columns[idx], true
}

// Reserve grows every column so that at least n more rows fit after the
// committed ones. Existing slots, written or not, are preserved. Capacity at
// least doubles on growth.
//
// New buffers for all columns are allocated before any of them is installed,
// so a failed reservation never leaves columns with different capacities.
func (a *Archetype) Reserve(n int) error {
	if n < 0 {
		return eris.Wrapf(ErrNegativeCount, "reserve %d rows", n)
	}
	if n > maxRows-a.length {
		return eris.Wrapf(ErrCapacityOverflow, "reserve %d rows on top of %d", n, a.length)
	}

	need := a.length + n
	if need <= a.cap {
		return nil
	}

	newCap := max(need, minCapacity)
	if a.cap > maxRows/2 {
		newCap = maxRows
	} else if a.cap*2 > newCap {
		newCap = a.cap * 2
	}

	grown := make([]reflect.Value, len(a.columns))
	for i, c := range a.columns {
		grown[i] = c.grown(newCap)
	}
	for i, c := range a.columns {
		c.set(grown[i])
	}

	a.logger.Debug().
		Int("old_capacity", a.cap).
		Int("capacity", newCap).
		Int("length", a.length).
		Msg("archetype grown")

	a.cap = newCap
	return nil
}

// SetLen declares the first n rows of every column live.
//
// The caller guarantees that for every component type of the archetype, the
// slots in [Len(), n) hold values it wrote. This is not checked: committing
// slots that were never written publishes zero values as entities. SetLen
// panics if n exceeds the capacity or is smaller than the current length.
func (a *Archetype) SetLen(n int) {
	if n > a.cap {
		panic(eris.Wrapf(ErrLengthExceedsCapacity, "set length %d with capacity %d", n, a.cap))
	}
	if n < a.length {
		panic(eris.Wrapf(ErrLengthBackwards, "set length %d below %d", n, a.length))
	}
	a.length = n
}

// Clear drops every committed row. Capacity is kept for reuse.
func (a *Archetype) Clear() {
	for _, c := range a.columns {
		c.drop(0, a.length)
	}
	a.logger.Debug().Int("dropped", a.length).Msg("archetype cleared")
	a.length = 0
}

// Iter returns an iterator over the EntityIds of all committed rows
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		for index := 0; index < a.length; index++ {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}

// Column returns the committed values of T in a, or false if a has no T column.
func Column[T any](a *Archetype) ([]T, bool) {
	c, ok := a.column(typeID(reflect.TypeFor[T]()))
	if !ok {
		return nil, false
	}
	return typedSlice[T](c, a.length), true
}

// Get returns a pointer to the T value of a committed row.
func Get[T any](a *Archetype, row int) (*T, bool) {
	if row < 0 || row >= a.length {
		return nil, false
	}
	values, ok := Column[T](a)
	if !ok {
		return nil, false
	}
	return &values[row], true
}
