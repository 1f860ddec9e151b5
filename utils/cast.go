package utils

import (
	"fmt"
	"reflect"
)

// Ptr take and returns ptr of the input
func Ptr[T any](s T) *T {
	switch reflect.ValueOf(s).Kind() {
	case reflect.Invalid:
		return nil
	case reflect.Pointer, reflect.UnsafePointer:
		panic("input is pointer")
	default:
		return &s
	}
}

// Coalesce returns the first non-nil.
// It panics if the input type is not nil-able.
func Coalesce[T any](first T, others ...T) T {
	switch reflect.ValueOf(first).Kind() {
	case reflect.Invalid, reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		// ok
	default:
		panic(fmt.Sprintf("type can't be nil: %T", first))
	}

	isNil := func(in T) bool {
		v := reflect.ValueOf(in)
		return !v.IsValid() || v.IsNil()
	}

	if !isNil(first) {
		return first
	}
	for _, other := range others {
		if !isNil(other) {
			return other
		}
	}
	var tNil T
	return tNil
}

// FirstNonZero returns the first value which is not the zero value of its type, eg. a non-empty string.
func FirstNonZero[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
