package schema

import "reflect"

// UnionOps resolves the concrete sub-descriptor of a polymorphic field
// at encode/decode time, replacing Eet.h's (type_of, type_set)
// callback pair with a lookup table plus functions over reflect.Value
// (TypeOf, Set, and Opaque for unresolved variant tags).
//
// A union field must always resolve to a known variant; a variant
// field (AddVariant) tolerates an unresolved tag by stashing the raw
// bytes via Opaque instead of failing.
type UnionOps struct {
	// TypeOf returns the wire tag name naming value's current variant.
	TypeOf func(value reflect.Value) string

	// Variants maps a wire tag name to the descriptor used to
	// encode/decode that variant's payload.
	Variants map[string]*Descriptor

	// Set stores a decoded variant's value (and its resolved tag name)
	// back into the union field.
	Set func(value reflect.Value, tagName string, decoded reflect.Value)

	// Opaque is called instead of Set when a variant field's tag isn't
	// in Variants; raw carries the still-encoded chunk bytes so the
	// application can round-trip data it does not understand.
	Opaque func(value reflect.Value, tagName string, raw []byte)
}
