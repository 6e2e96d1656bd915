package alloc

import (
	"reflect"
)

// checkLayout panics if T contains Go pointers. Off-heap memory is invisible
// to the garbage collector: a Go pointer stored there keeps nothing alive and
// dangles as soon as the collector moves on.
func checkLayout[T any]() {
	var v T
	if t := reflect.TypeOf(v); hasPointers(t) {
		panic("alloc: " + t.String() + " contains Go pointers and cannot live off-heap")
	}
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
