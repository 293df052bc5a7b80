package ecs

import (
	"slices"
	"strings"
	"unsafe"
)

// TypeSetBuilder collects the component types of a column batch.
// The same type may be added more than once; Finalize collapses duplicates.
type TypeSetBuilder struct {
	types []TypeInfo
}

// NewTypeSet creates an empty builder.
func NewTypeSet() *TypeSetBuilder {
	return &TypeSetBuilder{}
}

// AddType adds T to the builder and returns it for chaining.
func AddType[T any](b *TypeSetBuilder) *TypeSetBuilder {
	return b.Add(TypeInfoOf[T]())
}

// Add adds an already resolved descriptor.
func (b *TypeSetBuilder) Add(info TypeInfo) *TypeSetBuilder {
	b.types = append(b.types, info)
	return b
}

// Len returns the number of registrations, duplicates included.
func (b *TypeSetBuilder) Len() int {
	return len(b.types)
}

// Finalize returns the canonical sequence for the registered types: sorted by
// Compare with repeated registrations of a type collapsed into one entry.
// The builder is left untouched and can keep accumulating.
func (b *TypeSetBuilder) Finalize() TypeSequence {
	sorted := slices.Clone(b.types)
	slices.SortFunc(sorted, Compare)
	sorted = slices.CompactFunc(sorted, func(x, y TypeInfo) bool {
		return x.id == y.id
	})
	return TypeSequence{types: slices.Clip(sorted)}
}

// IntoBatch finalizes the builder and opens a batch on the matching archetype
// in storage.
func (b *TypeSetBuilder) IntoBatch(storage *Storage) *ColumnBatch {
	return NewColumnBatch(storage, b.Finalize())
}

// TypeSequence is a sorted, duplicate free list of component types. It is the
// identity of an archetype.
type TypeSequence struct {
	types []TypeInfo
}

// Len returns the number of component types.
func (s TypeSequence) Len() int { return len(s.types) }

// At returns the i-th descriptor.
func (s TypeSequence) At(i int) TypeInfo { return s.types[i] }

// Index returns the position of id in the sequence, or -1.
func (s TypeSequence) Index(id TypeID) int {
	for i, t := range s.types {
		if t.id == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id is part of the sequence.
func (s TypeSequence) Contains(id TypeID) bool {
	return s.Index(id) >= 0
}

// Equal reports whether both sequences hold the same types.
func (s TypeSequence) Equal(o TypeSequence) bool {
	return slices.EqualFunc(s.types, o.types, func(x, y TypeInfo) bool {
		return x.id == y.id
	})
}

// Hash generates a uint32 hash of the sorted type identities.
func (s TypeSequence) Hash() uint32 {
	var h uint32 = 2166136261     // FNV-1a 32-bit offset basis
	const prime uint32 = 16777619 // FNV-1a 32-bit prime

	for _, t := range s.types {
		val := uint32(t.id)

		// Mix in the upper half on 64-bit systems
		if unsafe.Sizeof(uintptr(0)) == 8 {
			val ^= uint32(t.id >> 32)
		}

		h ^= val
		h *= prime
	}

	return h
}

func (s TypeSequence) String() string {
	return "[" + strings.Join(s.names(), ", ") + "]"
}

func (s TypeSequence) names() []string {
	names := make([]string, len(s.types))
	for i, t := range s.types {
		names[i] = t.String()
	}
	return names
}
