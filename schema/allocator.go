package schema

import "reflect"

// Allocator lets decode control how a record's backing storage is
// obtained, mirroring Eet.h's mem_alloc/mem_free descriptor hooks. The
// default relies on Go's garbage collector and never frees explicitly;
// a caller decoding many short-lived records may supply one backed by
// a sync.Pool instead.
type Allocator interface {
	// Alloc returns an addressable, zero-valued reflect.Value of type t
	// (as if by reflect.New(t).Elem()).
	Alloc(t reflect.Type) reflect.Value

	// Free releases a value obtained from Alloc. The default allocator's
	// Free is a no-op; it exists so a pooling allocator has somewhere to
	// return decode failures' partially-built records, per the data
	// codec's free-on-failure rule.
	Free(v reflect.Value)
}

type defaultAllocator struct{}

func (defaultAllocator) Alloc(t reflect.Type) reflect.Value {
	return reflect.New(t).Elem()
}

func (defaultAllocator) Free(reflect.Value) {}
