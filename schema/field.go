package schema

import "github.com/goeet/eet/format"

// Field is one descriptor element, matching Eet.h's
// eet_data_descriptor_element_add argument shape: wire name,
// primitive tag, group shape, the Go field it binds to, and (for
// arrays) a count or sub-descriptor.
type Field struct {
	Name   string
	GoName string
	Type   format.Tag
	Group  format.GroupTag
	Count  int
	Sub    *Descriptor
	Union  *UnionOps
}

// Group shape aliases, so schema callers don't need to import format
// directly just to pass a group tag around.
const (
	GroupArray    = format.GroupArray
	GroupVarArray = format.GroupVarArray
	GroupList     = format.GroupList
	GroupHash     = format.GroupHash
	GroupUnion    = format.GroupUnion
	GroupVariant  = format.GroupVariant
)
