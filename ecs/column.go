package ecs

import (
	"reflect"
	"unsafe"
)

// column is a type-erased buffer holding one component type for every slot of
// an archetype. The backing array is a real []T allocated through reflect so
// that alignment and the collector's pointer map match the component type.
type column struct {
	info  TypeInfo
	slice reflect.Value
	base  unsafe.Pointer
}

func newColumn(info TypeInfo, capacity int) *column {
	c := &column{info: info}
	c.set(reflect.MakeSlice(reflect.SliceOf(info.typ), capacity, capacity))
	return c
}

func (c *column) set(slice reflect.Value) {
	c.slice = slice
	c.base = slice.UnsafePointer()
}

func (c *column) capacity() int {
	return c.slice.Len()
}

// grown returns a new backing slice of newCap slots holding a copy of every
// slot of the current buffer. The column itself is not modified.
func (c *column) grown(newCap int) reflect.Value {
	next := reflect.MakeSlice(c.slice.Type(), newCap, newCap)
	reflect.Copy(next, c.slice)
	return next
}

func (c *column) drop(lo, hi int) {
	c.info.Drop(c.slice, lo, hi)
}

// typedSlice reinterprets c as n slots of T. It is the only place where a
// column's raw memory is cast, and it refuses any T other than the column's
// own type.
func typedSlice[T any](c *column, n int) []T {
	if reflect.TypeFor[T]() != c.info.typ {
		panic("column holds " + c.info.String() + ", not " + reflect.TypeFor[T]().String())
	}
	if n > c.capacity() {
		panic("typed view exceeds column capacity")
	}
	if n == 0 {
		return []T{}
	}
	return unsafe.Slice((*T)(c.base), n)
}
