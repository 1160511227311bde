package data

import (
	"reflect"

	"github.com/goeet/eet/codec"
	"github.com/goeet/eet/dict"
	"github.com/goeet/eet/errs"
	"github.com/goeet/eet/format"
	"github.com/goeet/eet/schema"
)

// unionTagFieldName is the synthetic chunk name carrying a union or
// variant's resolved tag, nested as the first chunk inside the
// group's own payload.
const unionTagFieldName = "@type"

// hashKeyFieldName and hashValueFieldName are the synthetic chunk names
// wrapping a hash entry's key and value as their own nested chunks,
// rather than splicing a raw cstring key in front of the value bytes —
// this keeps every hash entry's payload a plain chunk sequence that
// dump.Dump can walk without knowing the enclosing schema.
const (
	hashKeyFieldName   = "@key"
	hashValueFieldName = "@value"
)

// Encode serializes value (a d.GoType struct, or pointer to one) as a
// single outer group chunk. dictionary may be nil; when non-nil,
// string fields already interned into it are emitted as a dictionary
// reference instead of their literal bytes.
func Encode(d *schema.Descriptor, value interface{}, dictionary *dict.Dictionary) ([]byte, error) {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	body, err := encodeFields(d, v, dictionary, 0)
	if err != nil {
		return nil, err
	}

	return appendChunk(nil, uint32(format.GroupUnknown), d.Name, body), nil
}

func encodeFields(d *schema.Descriptor, v reflect.Value, dictionary *dict.Dictionary, depth int) ([]byte, error) {
	if depth > format.RecursionLimit {
		return nil, errs.ErrMalformedData
	}

	var out []byte

	for _, f := range d.Fields {
		chunk, err := encodeField(f, v.FieldByName(f.GoName), dictionary, depth+1)
		if err != nil {
			return nil, err
		}

		out = append(out, chunk...)
	}

	return out, nil
}

func encodeField(f schema.Field, fv reflect.Value, dictionary *dict.Dictionary, depth int) ([]byte, error) {
	switch f.Group {
	case format.GroupArray, format.GroupVarArray, format.GroupList:
		return encodeSequence(f, fv, dictionary, depth)
	case format.GroupHash:
		return encodeHash(f, fv, dictionary, depth)
	case format.GroupUnion:
		return encodeUnion(f, fv, dictionary, depth, false)
	case format.GroupVariant:
		return encodeUnion(f, fv, dictionary, depth, true)
	default:
		if f.Sub != nil {
			return encodeSubRecord(f, fv, dictionary, depth)
		}

		return encodeScalarField(f, fv, dictionary)
	}
}

func encodeSubRecord(f schema.Field, fv reflect.Value, dictionary *dict.Dictionary, depth int) ([]byte, error) {
	body, err := encodeFields(f.Sub, fv, dictionary, depth)
	if err != nil {
		return nil, err
	}

	return appendChunk(nil, uint32(format.GroupUnknown), f.Name, body), nil
}

func encodeSequence(f schema.Field, fv reflect.Value, dictionary *dict.Dictionary, depth int) ([]byte, error) {
	if fv.Kind() != reflect.Slice && fv.Kind() != reflect.Array {
		return nil, errs.ErrMalformedData
	}

	n := fv.Len()
	if f.Group == format.GroupArray && f.Count > 0 && n != f.Count {
		return nil, errs.ErrMalformedData
	}

	var out []byte

	for i := 0; i < n; i++ {
		chunk, err := encodeElement(f, fv.Index(i), dictionary, depth)
		if err != nil {
			return nil, err
		}

		out = append(out, chunk...)
	}

	return out, nil
}

func encodeElement(f schema.Field, elem reflect.Value, dictionary *dict.Dictionary, depth int) ([]byte, error) {
	if f.Sub != nil {
		body, err := encodeFields(f.Sub, elem, dictionary, depth)
		if err != nil {
			return nil, err
		}

		return appendChunk(nil, uint32(format.GroupUnknown), f.Name, body), nil
	}

	payload, err := encodeScalar(f.Type, elem)
	if err != nil {
		return nil, err
	}

	return appendChunk(nil, uint32(f.Type), f.Name, payload), nil
}

func encodeHash(f schema.Field, fv reflect.Value, dictionary *dict.Dictionary, depth int) ([]byte, error) {
	if fv.Kind() != reflect.Map {
		return nil, errs.ErrMalformedData
	}

	var out []byte

	iter := fv.MapRange()
	for iter.Next() {
		keyChunk := appendChunk(nil, uint32(format.TagString), hashKeyFieldName, []byte(iter.Key().String()))

		var valueChunk []byte

		if f.Sub != nil {
			body, err := encodeFields(f.Sub, iter.Value(), dictionary, depth)
			if err != nil {
				return nil, err
			}

			valueChunk = appendChunk(nil, uint32(format.GroupUnknown), hashValueFieldName, body)
		} else {
			scalar, err := encodeScalar(f.Type, iter.Value())
			if err != nil {
				return nil, err
			}

			valueChunk = appendChunk(nil, uint32(f.Type), hashValueFieldName, scalar)
		}

		out = append(out, appendChunk(nil, uint32(format.GroupHash), f.Name, append(keyChunk, valueChunk...))...)
	}

	return out, nil
}

func encodeUnion(f schema.Field, fv reflect.Value, dictionary *dict.Dictionary, depth int, variant bool) ([]byte, error) {
	if f.Union == nil {
		return nil, errs.ErrMalformedData
	}

	groupTag := format.GroupUnion
	if variant {
		groupTag = format.GroupVariant
	}

	concrete := fv
	if concrete.Kind() == reflect.Interface && !concrete.IsNil() {
		concrete = concrete.Elem()
	}

	if variant && concrete.IsValid() && concrete.Type() == opaqueType {
		o := concrete.Interface().(Opaque) //nolint:forcetypeassert
		nameChunk := appendChunk(nil, uint32(format.TagString), unionTagFieldName, []byte(o.Tag))

		return appendChunk(nil, uint32(groupTag), f.Name, append(nameChunk, o.Bytes...)), nil
	}

	tagName := f.Union.TypeOf(fv)

	sub, ok := f.Union.Variants[tagName]
	if !ok {
		return nil, errs.ErrMalformedData
	}

	if !concrete.IsValid() {
		return nil, errs.ErrMalformedData
	}

	body, err := encodeFields(sub, concrete, dictionary, depth)
	if err != nil {
		return nil, err
	}

	nameChunk := appendChunk(nil, uint32(format.TagString), unionTagFieldName, []byte(tagName))

	return appendChunk(nil, uint32(groupTag), f.Name, append(nameChunk, body...)), nil
}

func encodeScalarField(f schema.Field, fv reflect.Value, dictionary *dict.Dictionary) ([]byte, error) {
	for fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return appendChunk(nil, uint32(format.TagNull), f.Name, nil), nil
		}

		fv = fv.Elem()
	}

	if f.Type == format.TagString || f.Type == format.TagInlinedString {
		return encodeStringField(f, fv, dictionary)
	}

	payload, err := encodeScalar(f.Type, fv)
	if err != nil {
		return nil, err
	}

	return appendChunk(nil, uint32(f.Type), f.Name, payload), nil
}

func encodeStringField(f schema.Field, fv reflect.Value, dictionary *dict.Dictionary) ([]byte, error) {
	s := fv.String()

	if dictionary != nil && dictionary.Contains(s) {
		idx := dictionary.Intern(s)

		return appendChunk(nil, uint32(format.TagInlinedString), f.Name, codec.AppendUint32(nil, idx)), nil
	}

	return appendChunk(nil, uint32(format.TagString), f.Name, []byte(s)), nil
}

func encodeScalar(tag format.Tag, fv reflect.Value) ([]byte, error) {
	switch tag {
	case format.TagChar, format.TagShort, format.TagInt, format.TagLongLong:
		return encodeSignedInt(tag, fv.Int()), nil
	case format.TagUChar, format.TagUShort, format.TagUInt, format.TagULongLong:
		return encodeUnsignedInt(tag, fv.Uint()), nil
	case format.TagFloat, format.TagDouble:
		return codec.AppendFloatHex(nil, fv.Float()), nil
	case format.TagF32P32:
		buf := make([]byte, 8)
		codec.PutFixed32P32(buf, fv.Float())

		return buf, nil
	case format.TagF16P16:
		buf := make([]byte, 4)
		codec.PutFixed16P16(buf, fv.Float())

		return buf, nil
	case format.TagF8P24:
		buf := make([]byte, 4)
		codec.PutFixed8P24(buf, fv.Float())

		return buf, nil
	case format.TagString, format.TagInlinedString:
		return []byte(fv.String()), nil
	case format.TagNull:
		return nil, nil
	default:
		return nil, errs.ErrMalformedData
	}
}

func encodeSignedInt(tag format.Tag, v int64) []byte {
	switch tag {
	case format.TagChar:
		return []byte{byte(int8(v))}
	case format.TagShort:
		buf := make([]byte, 2)
		codec.PutUint16(buf, uint16(int16(v)))

		return buf
	case format.TagInt:
		buf := make([]byte, 4)
		codec.PutUint32(buf, uint32(int32(v)))

		return buf
	default: // format.TagLongLong
		buf := make([]byte, 8)
		codec.PutUint64(buf, uint64(v))

		return buf
	}
}

func encodeUnsignedInt(tag format.Tag, v uint64) []byte {
	switch tag {
	case format.TagUChar:
		return []byte{byte(v)}
	case format.TagUShort:
		buf := make([]byte, 2)
		codec.PutUint16(buf, uint16(v))

		return buf
	case format.TagUInt:
		buf := make([]byte, 4)
		codec.PutUint32(buf, uint32(v))

		return buf
	default: // format.TagULongLong
		buf := make([]byte, 8)
		codec.PutUint64(buf, v)

		return buf
	}
}
