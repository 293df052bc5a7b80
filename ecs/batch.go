package ecs

import (
	"reflect"

	"github.com/bits-and-blooms/bitset"
	"github.com/rotisserie/eris"
)

// ColumnBatch spawns many entities with the same component types at once.
//
// The batch writes straight into the column memory of the matching archetype:
// Reserve room, fill each column through StorageFor or WriteColumn, then call
// SetLen to publish the rows. Until SetLen runs the archetype's length is
// unchanged, so dropping a batch half way has no visible effect.
//
// A batch has a single owner. It may be handed to another goroutine, and
// distinct columns may be filled concurrently, but every write must
// happen-before SetLen and Reserve must not overlap any other access to the
// archetype.
type ColumnBatch struct {
	archetype *Archetype

	// Only populated in ecsdebug builds.
	written []*bitset.BitSet
	raw     []bool
}

// NewColumnBatch opens a batch on the archetype of seq in storage.
func NewColumnBatch(storage *Storage, seq TypeSequence) *ColumnBatch {
	b := &ColumnBatch{archetype: storage.ArchetypeFor(seq)}
	if debugChecks {
		b.written = make([]*bitset.BitSet, seq.Len())
		b.raw = make([]bool, seq.Len())
		for i := range b.written {
			b.written[i] = bitset.New(0)
		}
	}
	return b
}

// Archetype returns the archetype the batch writes into.
func (b *ColumnBatch) Archetype() *Archetype {
	return b.archetype
}

// Types returns the batch's canonical component types.
func (b *ColumnBatch) Types() TypeSequence {
	return b.archetype.types
}

// Len returns the archetype's committed length.
func (b *ColumnBatch) Len() int {
	return b.archetype.Len()
}

// Capacity returns the number of slots in every column view.
func (b *ColumnBatch) Capacity() int {
	return b.archetype.Capacity()
}

// Reserve makes room for n entities past the committed length.
func (b *ColumnBatch) Reserve(n int) error {
	return b.archetype.Reserve(n)
}

// StorageFor returns the whole T column, Capacity() slots long, or false if T
// is not one of the batch's types. Slots past Len() hold zero values or stale
// data until the caller writes them; slots below Len() are live entities.
//
// The slice is only valid until the next Reserve.
func StorageFor[T any](b *ColumnBatch) ([]T, bool) {
	c, idx, ok := b.lookup(typeID(reflect.TypeFor[T]()))
	if !ok {
		return nil, false
	}
	if debugChecks {
		b.raw[idx] = true
	}
	return typedSlice[T](c, c.capacity()), true
}

// WriteColumn copies values into the T column starting at slot start. It
// returns false if T is not one of the batch's types and panics if the values
// do not fit the reserved capacity.
func WriteColumn[T any](b *ColumnBatch, start int, values []T) bool {
	c, idx, ok := b.lookup(typeID(reflect.TypeFor[T]()))
	if !ok {
		return false
	}
	if start < 0 || start+len(values) > c.capacity() {
		panic(eris.Wrapf(ErrLengthExceedsCapacity, "write %d %s values at %d with capacity %d",
			len(values), c.info, start, c.capacity()))
	}
	copy(typedSlice[T](c, c.capacity())[start:], values)
	if debugChecks {
		for i := start; i < start+len(values); i++ {
			b.written[idx].Set(uint(i))
		}
	}
	return true
}

// SetLen publishes the first n rows of every column.
//
// The caller guarantees that for every type of the batch, the slots in
// [Len(), n) have been written. Normal builds do not verify this. Builds
// tagged ecsdebug panic if a column filled through WriteColumn is missing any
// of those slots; columns obtained through StorageFor are trusted.
func (b *ColumnBatch) SetLen(n int) {
	if debugChecks {
		b.checkWritten(n)
	}
	b.archetype.SetLen(n)
}

func (b *ColumnBatch) lookup(id TypeID) (*column, int, bool) {
	idx, ok := b.archetype.index.Get(id)
	if !ok {
		return nil, 0, false
	}
	return b.archetype.columns[idx], idx, true
}

func (b *ColumnBatch) checkWritten(n int) {
	from := b.archetype.Len()
	for idx, written := range b.written {
		if b.raw[idx] || from >= n {
			continue
		}
		// Bits past the set's length are unset as well.
		slot, found := written.NextClear(uint(from))
		if !found {
			slot = max(written.Len(), uint(from))
		}
		if int(slot) < n {
			panic(eris.Wrapf(ErrUnwrittenSlots, "%s slot %d of [%d, %d)",
				b.archetype.columns[idx].info, slot, from, n))
		}
	}
}
