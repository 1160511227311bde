package dump

import (
	"strconv"

	"github.com/goeet/eet/codec"
	"github.com/goeet/eet/dict"
	"github.com/goeet/eet/errs"
	"github.com/goeet/eet/format"
)

// formatValue renders a scalar chunk's payload as the text that
// follows its kind and name on a dump line. A Null chunk renders no
// value at all.
func formatValue(tag format.Tag, payload []byte, dictionary *dict.Dictionary) (string, error) {
	switch tag {
	case format.TagNull:
		return "", nil
	case format.TagChar:
		if len(payload) < 1 {
			return "", errs.ErrMalformedData
		}

		return strconv.FormatInt(int64(int8(payload[0])), 10), nil
	case format.TagShort:
		if len(payload) < 2 {
			return "", errs.ErrMalformedData
		}

		return strconv.FormatInt(int64(int16(codec.Uint16(payload))), 10), nil
	case format.TagInt:
		if len(payload) < 4 {
			return "", errs.ErrMalformedData
		}

		return strconv.FormatInt(int64(int32(codec.Uint32(payload))), 10), nil
	case format.TagLongLong:
		if len(payload) < 8 {
			return "", errs.ErrMalformedData
		}

		return strconv.FormatInt(int64(codec.Uint64(payload)), 10), nil
	case format.TagUChar:
		if len(payload) < 1 {
			return "", errs.ErrMalformedData
		}

		return strconv.FormatUint(uint64(payload[0]), 10), nil
	case format.TagUShort:
		if len(payload) < 2 {
			return "", errs.ErrMalformedData
		}

		return strconv.FormatUint(uint64(codec.Uint16(payload)), 10), nil
	case format.TagUInt:
		if len(payload) < 4 {
			return "", errs.ErrMalformedData
		}

		return strconv.FormatUint(uint64(codec.Uint32(payload)), 10), nil
	case format.TagULongLong:
		if len(payload) < 8 {
			return "", errs.ErrMalformedData
		}

		return strconv.FormatUint(codec.Uint64(payload), 10), nil
	case format.TagFloat, format.TagDouble:
		f, _, err := codec.ReadFloatHex(payload)
		if err != nil {
			return "", err
		}

		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case format.TagF32P32:
		if len(payload) < 8 {
			return "", errs.ErrMalformedData
		}

		return strconv.FormatFloat(codec.Fixed32P32(payload), 'g', -1, 64), nil
	case format.TagF16P16:
		if len(payload) < 4 {
			return "", errs.ErrMalformedData
		}

		return strconv.FormatFloat(codec.Fixed16P16(payload), 'g', -1, 64), nil
	case format.TagF8P24:
		if len(payload) < 4 {
			return "", errs.ErrMalformedData
		}

		return strconv.FormatFloat(codec.Fixed8P24(payload), 'g', -1, 64), nil
	case format.TagString:
		return strconv.Quote(string(payload)), nil
	case format.TagInlinedString:
		if len(payload) < 4 || dictionary == nil {
			return "", errs.ErrMalformedData
		}

		return strconv.Quote(dictionary.StringAt(codec.Uint32(payload))), nil
	default:
		return "", errs.ErrMalformedData
	}
}

// parseValue is formatValue's inverse: it turns a dump line's value
// text back into a chunk payload for the given tag. Passing the text
// through dictionary.Intern for an Inlined_string value is how
// Undump re-interns rather than trusting a stale numeric index.
func parseValue(tag format.Tag, text string, dictionary *dict.Dictionary) ([]byte, error) {
	switch tag {
	case format.TagNull:
		return nil, nil
	case format.TagChar:
		v, err := strconv.ParseInt(text, 10, 8)
		if err != nil {
			return nil, err
		}

		return []byte{byte(int8(v))}, nil
	case format.TagShort:
		v, err := strconv.ParseInt(text, 10, 16)
		if err != nil {
			return nil, err
		}

		buf := make([]byte, 2)
		codec.PutUint16(buf, uint16(int16(v)))

		return buf, nil
	case format.TagInt:
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, err
		}

		buf := make([]byte, 4)
		codec.PutUint32(buf, uint32(int32(v)))

		return buf, nil
	case format.TagLongLong:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, err
		}

		buf := make([]byte, 8)
		codec.PutUint64(buf, uint64(v))

		return buf, nil
	case format.TagUChar:
		v, err := strconv.ParseUint(text, 10, 8)
		if err != nil {
			return nil, err
		}

		return []byte{byte(v)}, nil
	case format.TagUShort:
		v, err := strconv.ParseUint(text, 10, 16)
		if err != nil {
			return nil, err
		}

		buf := make([]byte, 2)
		codec.PutUint16(buf, uint16(v))

		return buf, nil
	case format.TagUInt:
		v, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return nil, err
		}

		buf := make([]byte, 4)
		codec.PutUint32(buf, uint32(v))

		return buf, nil
	case format.TagULongLong:
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, err
		}

		buf := make([]byte, 8)
		codec.PutUint64(buf, v)

		return buf, nil
	case format.TagFloat, format.TagDouble:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, err
		}

		return codec.AppendFloatHex(nil, f), nil
	case format.TagF32P32:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, err
		}

		buf := make([]byte, 8)
		codec.PutFixed32P32(buf, f)

		return buf, nil
	case format.TagF16P16:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, err
		}

		buf := make([]byte, 4)
		codec.PutFixed16P16(buf, f)

		return buf, nil
	case format.TagF8P24:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, err
		}

		buf := make([]byte, 4)
		codec.PutFixed8P24(buf, f)

		return buf, nil
	case format.TagString:
		s, err := strconv.Unquote(text)
		if err != nil {
			return nil, err
		}

		return []byte(s), nil
	case format.TagInlinedString:
		s, err := strconv.Unquote(text)
		if err != nil {
			return nil, err
		}

		if dictionary == nil {
			return nil, errs.ErrMalformedData
		}

		return codec.AppendUint32(nil, dictionary.Intern(s)), nil
	default:
		return nil, errs.ErrMalformedData
	}
}
