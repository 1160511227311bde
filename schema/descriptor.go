// Package schema builds record descriptors: the field-by-field shape
// the data codec walks to encode and decode Go values. Construction is
// programmatic, mirroring Eet.h's eet_data_descriptor_element_add
// argument shape (name, type, group, offset, count, counter field,
// sub-descriptor) field-for-field, with the offset/counter-callback
// plumbing replaced by Go's native reflect.Value field and slice/map
// access.
package schema

import (
	"reflect"

	"github.com/goeet/eet/format"
)

// StringMode records the string ownership a descriptor asks for in
// decoded records. The data decoder does not consult it: every decoded
// string is an owned Go string (dict.Dictionary.StringAt returns a
// copy), so StringModeCopy and StringModeBorrow decode identically.
type StringMode int

const (
	StringModeCopy StringMode = iota
	StringModeBorrow
)

// Descriptor describes one record type: its Go shape plus the ordered
// list of fields the data codec encodes/decodes.
type Descriptor struct {
	Name       string
	GoType     reflect.Type
	StringMode StringMode
	Alloc      Allocator
	Fields     []Field
}

// New returns an empty Descriptor for records of sample's type. sample
// may be a struct value or a pointer to one.
func New(name string, sample interface{}) *Descriptor {
	t := reflect.TypeOf(sample)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return &Descriptor{
		Name:   name,
		GoType: t,
		Alloc:  defaultAllocator{},
	}
}

// FieldByName returns the field with the given wire name.
func (d *Descriptor) FieldByName(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// AddBasic registers a primitive-valued field: a scalar, string, or
// fixed-point number stored directly at goFieldName.
func (d *Descriptor) AddBasic(wireName, goFieldName string, tag format.Tag) *Descriptor {
	return d.add(Field{Name: wireName, GoName: goFieldName, Type: tag})
}

// AddRecord registers a field that is itself a nested record, encoded
// recursively via sub — Eet.h's EET_T_UNKNOW/EET_G_UNKNOWN element
// shape with a non-nil subtype.
func (d *Descriptor) AddRecord(wireName, goFieldName string, sub *Descriptor) *Descriptor {
	return d.add(Field{Name: wireName, GoName: goFieldName, Sub: sub})
}

// AddArray registers a fixed-length array field of count elements,
// each encoded per sub (or as a primitive, if sub is nil).
func (d *Descriptor) AddArray(wireName, goFieldName string, tag format.Tag, count int, sub *Descriptor) *Descriptor {
	return d.add(Field{Name: wireName, GoName: goFieldName, Type: tag, Group: GroupArray, Count: count, Sub: sub})
}

// AddVarArray registers a variable-length array field; its length is
// simply the Go slice's own length (len(field)), replacing Eet.h's
// separate counter-field offset with the slice header's built-in
// length.
func (d *Descriptor) AddVarArray(wireName, goFieldName string, tag format.Tag, sub *Descriptor) *Descriptor {
	return d.add(Field{Name: wireName, GoName: goFieldName, Type: tag, Group: GroupVarArray, Sub: sub})
}

// AddList registers a field encoded as an ordered sequence of
// elements, each encoded per sub (or as a primitive tag, if sub is
// nil); goFieldName must name a Go slice field.
func (d *Descriptor) AddList(wireName, goFieldName string, tag format.Tag, sub *Descriptor) *Descriptor {
	return d.add(Field{Name: wireName, GoName: goFieldName, Type: tag, Group: GroupList, Sub: sub})
}

// AddHash registers a field encoded as key/value pairs, each value
// encoded per sub (or as a primitive tag, if sub is nil); goFieldName
// must name a Go map[string]V field.
func (d *Descriptor) AddHash(wireName, goFieldName string, tag format.Tag, sub *Descriptor) *Descriptor {
	return d.add(Field{Name: wireName, GoName: goFieldName, Type: tag, Group: GroupHash, Sub: sub})
}

// AddUnion registers a polymorphic field whose concrete sub-descriptor
// is resolved at encode/decode time by ops.
func (d *Descriptor) AddUnion(wireName, goFieldName string, ops *UnionOps) *Descriptor {
	return d.add(Field{Name: wireName, GoName: goFieldName, Group: GroupUnion, Union: ops})
}

// AddVariant is AddUnion plus tolerance for tags the descriptor
// doesn't recognize: unrecognized payloads round-trip as opaque bytes
// instead of failing decode.
func (d *Descriptor) AddVariant(wireName, goFieldName string, ops *UnionOps) *Descriptor {
	return d.add(Field{Name: wireName, GoName: goFieldName, Group: GroupVariant, Union: ops})
}

func (d *Descriptor) add(f Field) *Descriptor {
	d.Fields = append(d.Fields, f)

	return d
}
