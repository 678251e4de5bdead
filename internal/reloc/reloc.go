// Package reloc checks that element types are safe to store in memory the
// garbage collector does not scan, and to relocate via raw byte copies.
package reloc

import (
	"fmt"
	"reflect"
)

// Assert panics unless T is pointer-free at every depth. Allocator-backed
// storage is invisible to the garbage collector, so a Go pointer stored there
// would not keep its referent alive; pointer-free types are also the ones
// that may be moved with a plain byte copy.
func Assert[T any]() {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if !pointerFree(t) {
		panic(fmt.Sprintf(`reloc: type %s contains Go pointers and cannot be stored in unmanaged memory`, t))
	}
}

// PointerFree reports whether T is pointer-free at every depth.
func PointerFree[T any]() bool {
	return pointerFree(reflect.TypeOf((*T)(nil)).Elem())
}

func pointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return pointerFree(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !pointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		// Ptr, UnsafePointer, Slice, Map, Chan, Func, Interface, String.
		return false
	}
}
