package data

import "reflect"

// Opaque holds a variant field's still-encoded payload when its wire
// tag doesn't match any sub-descriptor the caller's schema.UnionOps
// knows about. Storing one back into a union field and re-encoding it
// re-emits the original bytes verbatim, so data this build doesn't
// understand survives a decode/encode round-trip intact.
type Opaque struct {
	Tag   string
	Bytes []byte
}

var opaqueType = reflect.TypeOf(Opaque{})
