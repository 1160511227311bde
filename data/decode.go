package data

import (
	"reflect"

	"github.com/goeet/eet/codec"
	"github.com/goeet/eet/dict"
	"github.com/goeet/eet/errs"
	"github.com/goeet/eet/format"
	"github.com/goeet/eet/schema"
)

// Decode parses one outer group chunk produced by Encode against d,
// returning a pointer to a freshly allocated d.GoType value.
// Fields present in data but absent from d are skipped; fields d
// declares but data lacks stay at their zero value — this is how the
// format tolerates schema evolution in both directions.
func Decode(d *schema.Descriptor, data []byte, dictionary *dict.Dictionary) (interface{}, error) {
	c, _, err := readChunk(data)
	if err != nil {
		return nil, err
	}

	if format.GroupTag(c.Tag) != format.GroupUnknown || c.Name != d.Name {
		return nil, errs.ErrMalformedData
	}

	rec := d.Alloc.Alloc(d.GoType)

	if err := decodeFields(d, rec, c.Payload, dictionary, 0); err != nil {
		d.Alloc.Free(rec)

		return nil, err
	}

	return rec.Addr().Interface(), nil
}

func decodeFields(d *schema.Descriptor, rec reflect.Value, body []byte, dictionary *dict.Dictionary, depth int) error {
	if depth > format.RecursionLimit {
		return errs.ErrMalformedData
	}

	for len(body) > 0 {
		c, n, err := readChunk(body)
		if err != nil {
			return err
		}

		body = body[n:]

		f, ok := d.FieldByName(c.Name)
		if !ok {
			continue
		}

		if err := decodeField(f, rec.FieldByName(f.GoName), c, dictionary, depth+1); err != nil {
			return err
		}
	}

	return nil
}

func decodeField(f schema.Field, fv reflect.Value, c chunk, dictionary *dict.Dictionary, depth int) error {
	switch f.Group {
	case format.GroupArray, format.GroupVarArray, format.GroupList:
		elem, err := decodeElement(f, fv.Type().Elem(), c, dictionary, depth)
		if err != nil {
			return err
		}

		fv.Set(reflect.Append(fv, elem))

		return nil
	case format.GroupHash:
		return decodeHashEntry(f, fv, c, dictionary, depth)
	case format.GroupUnion:
		return decodeUnion(f, fv, c, dictionary, depth, false)
	case format.GroupVariant:
		return decodeUnion(f, fv, c, dictionary, depth, true)
	default:
		if f.Sub != nil {
			return decodeFields(f.Sub, fv, c.Payload, dictionary, depth)
		}

		return decodeScalarInto(fv, format.Tag(c.Tag), c.Payload, dictionary)
	}
}

func decodeElement(f schema.Field, elemType reflect.Type, c chunk, dictionary *dict.Dictionary, depth int) (reflect.Value, error) {
	if f.Sub != nil {
		elem := f.Sub.Alloc.Alloc(f.Sub.GoType)
		if err := decodeFields(f.Sub, elem, c.Payload, dictionary, depth); err != nil {
			return reflect.Value{}, err
		}

		return elem, nil
	}

	val, err := decodeScalar(f.Type, c.Payload, dictionary)
	if err != nil {
		return reflect.Value{}, err
	}

	elem := reflect.New(elemType).Elem()
	if err := assignScalar(elem, val); err != nil {
		return reflect.Value{}, err
	}

	return elem, nil
}

func decodeHashEntry(f schema.Field, fv reflect.Value, c chunk, dictionary *dict.Dictionary, depth int) error {
	if fv.Kind() != reflect.Map {
		return errs.ErrMalformedData
	}

	if fv.IsNil() {
		fv.Set(reflect.MakeMap(fv.Type()))
	}

	keyChunk, n, err := readChunk(c.Payload)
	if err != nil {
		return err
	}

	if format.Tag(keyChunk.Tag) != format.TagString || keyChunk.Name != hashKeyFieldName {
		return errs.ErrMalformedData
	}

	key := string(keyChunk.Payload)

	valueChunk, _, err := readChunk(c.Payload[n:])
	if err != nil {
		return err
	}

	valType := fv.Type().Elem()

	if f.Sub != nil {
		elem := f.Sub.Alloc.Alloc(f.Sub.GoType)
		if err := decodeFields(f.Sub, elem, valueChunk.Payload, dictionary, depth); err != nil {
			return err
		}

		fv.SetMapIndex(reflect.ValueOf(key), elem)

		return nil
	}

	val, err := decodeScalar(f.Type, valueChunk.Payload, dictionary)
	if err != nil {
		return err
	}

	elem := reflect.New(valType).Elem()
	if err := assignScalar(elem, val); err != nil {
		return err
	}

	fv.SetMapIndex(reflect.ValueOf(key), elem)

	return nil
}

func decodeUnion(f schema.Field, fv reflect.Value, c chunk, dictionary *dict.Dictionary, depth int, variantMode bool) error {
	if f.Union == nil {
		return errs.ErrMalformedData
	}

	tagChunk, n, err := readChunk(c.Payload)
	if err != nil {
		return err
	}

	if format.Tag(tagChunk.Tag) != format.TagString || tagChunk.Name != unionTagFieldName {
		return errs.ErrMalformedData
	}

	tagName := string(tagChunk.Payload)
	rest := c.Payload[n:]

	sub, ok := f.Union.Variants[tagName]
	if !ok {
		if !variantMode {
			return errs.ErrMalformedData
		}

		if f.Union.Opaque != nil {
			f.Union.Opaque(fv, tagName, append([]byte(nil), rest...))
		}

		return nil
	}

	elem := sub.Alloc.Alloc(sub.GoType)
	if err := decodeFields(sub, elem, rest, dictionary, depth); err != nil {
		return err
	}

	if f.Union.Set != nil {
		f.Union.Set(fv, tagName, elem)
	}

	return nil
}

func decodeScalarInto(fv reflect.Value, tag format.Tag, payload []byte, dictionary *dict.Dictionary) error {
	val, err := decodeScalar(tag, payload, dictionary)
	if err != nil {
		return err
	}

	return assignScalar(fv, val)
}

func decodeScalar(tag format.Tag, payload []byte, dictionary *dict.Dictionary) (interface{}, error) {
	switch tag {
	case format.TagNull:
		return nil, nil
	case format.TagChar, format.TagShort, format.TagInt, format.TagLongLong:
		return decodeSignedInt(tag, payload)
	case format.TagUChar, format.TagUShort, format.TagUInt, format.TagULongLong:
		return decodeUnsignedInt(tag, payload)
	case format.TagFloat, format.TagDouble:
		f, _, err := codec.ReadFloatHex(payload)

		return f, err
	case format.TagF32P32:
		if len(payload) < 8 {
			return nil, errs.ErrMalformedData
		}

		return codec.Fixed32P32(payload), nil
	case format.TagF16P16:
		if len(payload) < 4 {
			return nil, errs.ErrMalformedData
		}

		return codec.Fixed16P16(payload), nil
	case format.TagF8P24:
		if len(payload) < 4 {
			return nil, errs.ErrMalformedData
		}

		return codec.Fixed8P24(payload), nil
	case format.TagString:
		return string(payload), nil
	case format.TagInlinedString:
		if len(payload) < 4 || dictionary == nil {
			return nil, errs.ErrMalformedData
		}

		return dictionary.StringAt(codec.Uint32(payload)), nil
	default:
		return nil, errs.ErrMalformedData
	}
}

func decodeSignedInt(tag format.Tag, payload []byte) (int64, error) {
	switch tag {
	case format.TagChar:
		if len(payload) < 1 {
			return 0, errs.ErrMalformedData
		}

		return int64(int8(payload[0])), nil
	case format.TagShort:
		if len(payload) < 2 {
			return 0, errs.ErrMalformedData
		}

		return int64(int16(codec.Uint16(payload))), nil
	case format.TagInt:
		if len(payload) < 4 {
			return 0, errs.ErrMalformedData
		}

		return int64(int32(codec.Uint32(payload))), nil
	case format.TagLongLong:
		if len(payload) < 8 {
			return 0, errs.ErrMalformedData
		}

		return int64(codec.Uint64(payload)), nil
	default:
		return 0, errs.ErrMalformedData
	}
}

func decodeUnsignedInt(tag format.Tag, payload []byte) (uint64, error) {
	switch tag {
	case format.TagUChar:
		if len(payload) < 1 {
			return 0, errs.ErrMalformedData
		}

		return uint64(payload[0]), nil
	case format.TagUShort:
		if len(payload) < 2 {
			return 0, errs.ErrMalformedData
		}

		return uint64(codec.Uint16(payload)), nil
	case format.TagUInt:
		if len(payload) < 4 {
			return 0, errs.ErrMalformedData
		}

		return uint64(codec.Uint32(payload)), nil
	case format.TagULongLong:
		if len(payload) < 8 {
			return 0, errs.ErrMalformedData
		}

		return codec.Uint64(payload), nil
	default:
		return 0, errs.ErrMalformedData
	}
}

func assignScalar(fv reflect.Value, val interface{}) error {
	if val == nil {
		return nil
	}

	if fv.Kind() == reflect.Ptr {
		elem := reflect.New(fv.Type().Elem())
		if err := assignScalar(elem.Elem(), val); err != nil {
			return err
		}

		fv.Set(elem)

		return nil
	}

	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := val.(int64)
		if !ok {
			return errs.ErrMalformedData
		}

		fv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, ok := val.(uint64)
		if !ok {
			return errs.ErrMalformedData
		}

		fv.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, ok := val.(float64)
		if !ok {
			return errs.ErrMalformedData
		}

		fv.SetFloat(f)
	case reflect.String:
		s, ok := val.(string)
		if !ok {
			return errs.ErrMalformedData
		}

		fv.SetString(s)
	default:
		return errs.ErrMalformedData
	}

	return nil
}
