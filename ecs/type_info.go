package ecs

import (
	"cmp"
	"reflect"
	"unsafe"
)

// TypeID is a stable identity for a component type within one process.
type TypeID uint64

// iface mirrors the runtime layout of an interface value. The data word of a
// boxed reflect.Type is the *rtype, which is unique per type.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

func typeID(t reflect.Type) TypeID {
	ptr := (*iface)(unsafe.Pointer(&t)).data
	return TypeID(uintptr(ptr))
}

// TypeInfo describes a single component type: its identity, memory layout and
// how to drop its values.
type TypeInfo struct {
	typ       reflect.Type
	id        TypeID
	needsDrop bool
}

// TypeInfoOf returns the descriptor for T.
func TypeInfoOf[T any]() TypeInfo {
	return TypeInfoFor(reflect.TypeFor[T]())
}

// TypeInfoFor returns the descriptor for t.
// Components must be value types; pointers, maps, channels, functions and
// interfaces are rejected.
func TypeInfoFor(t reflect.Type) TypeInfo {
	if t == nil {
		panic("nil component type")
	}
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		panic("components cannot be pointers, maps, channels, functions or interfaces: " + t.String())
	}

	return TypeInfo{
		typ:       t,
		id:        typeID(t),
		needsDrop: hasPointers(t),
	}
}

// Type returns the reflected component type.
func (ti TypeInfo) Type() reflect.Type { return ti.typ }

// ID returns the type identity used for ordering and archetype hashing.
func (ti TypeInfo) ID() TypeID { return ti.id }

// Size returns the size of one slot in bytes.
func (ti TypeInfo) Size() uintptr { return ti.typ.Size() }

// Align returns the required alignment of one slot.
func (ti TypeInfo) Align() uintptr { return uintptr(ti.typ.Align()) }

// NeedsDrop reports whether values of this type hold references that must be
// cleared before their slots are considered dead.
func (ti TypeInfo) NeedsDrop() bool { return ti.needsDrop }

// Drop zeroes the slots of col in [lo, hi). col must be a slice of this type.
func (ti TypeInfo) Drop(col reflect.Value, lo, hi int) {
	if !ti.needsDrop || lo >= hi {
		return
	}
	col.Slice(lo, hi).Clear()
}

func (ti TypeInfo) String() string {
	if ti.typ == nil {
		return "<nil>"
	}
	return ti.typ.String()
}

// Compare orders descriptors by type name, falling back to TypeID for distinct
// types that print the same.
func Compare(a, b TypeInfo) int {
	if c := cmp.Compare(a.typ.String(), b.typ.String()); c != 0 {
		return c
	}
	return cmp.Compare(a.id, b.id)
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface,
		reflect.Slice, reflect.String, reflect.UnsafePointer:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
