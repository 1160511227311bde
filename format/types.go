// Package format defines the wire-level constants shared by every other
// package: primitive and group tags for the data codec, the container
// magic numbers, the compression/cipher type enums, and the directory
// entry flag bits. The directory records only those flag bits, not
// which compression algorithm was used.
package format

// Tag identifies the primitive or group encoding of a data chunk.
type Tag uint32

// Primitive tags, matching the wire values fixed by the file format.
const (
	TagUnknow        Tag = 0
	TagChar          Tag = 1
	TagShort         Tag = 2
	TagInt           Tag = 3
	TagLongLong      Tag = 4
	TagFloat         Tag = 5
	TagDouble        Tag = 6
	TagUChar         Tag = 7
	TagUShort        Tag = 8
	TagUInt          Tag = 9
	TagULongLong     Tag = 10
	TagString        Tag = 11
	TagInlinedString Tag = 12
	TagNull          Tag = 13
	TagF32P32        Tag = 14
	TagF16P16        Tag = 15
	TagF8P24         Tag = 16
	// TagLast is 18, two past the highest tag this format knows how to
	// decode (TagF8P24 = 16); 17 and 18 are reserved and rejected by the
	// decoder rather than silently accepted (see SPEC_FULL.md §9).
	TagLast Tag = 18
)

// String renders t the way dump's text form names a chunk's kind.
func (t Tag) String() string {
	switch t {
	case TagChar:
		return "char"
	case TagShort:
		return "short"
	case TagInt:
		return "int"
	case TagLongLong:
		return "long_long"
	case TagFloat:
		return "float"
	case TagDouble:
		return "double"
	case TagUChar:
		return "uchar"
	case TagUShort:
		return "ushort"
	case TagUInt:
		return "uint"
	case TagULongLong:
		return "ulong_long"
	case TagString:
		return "string"
	case TagInlinedString:
		return "inlined_string"
	case TagNull:
		return "null"
	case TagF32P32:
		return "f32p32"
	case TagF16P16:
		return "f16p16"
	case TagF8P24:
		return "f8p24"
	default:
		return "unknown"
	}
}

// ParseTag is the inverse of Tag.String, used by dump.Undump to turn a
// text chunk's kind word back into a wire tag.
func ParseTag(s string) (Tag, bool) {
	switch s {
	case "char":
		return TagChar, true
	case "short":
		return TagShort, true
	case "int":
		return TagInt, true
	case "long_long":
		return TagLongLong, true
	case "float":
		return TagFloat, true
	case "double":
		return TagDouble, true
	case "uchar":
		return TagUChar, true
	case "ushort":
		return TagUShort, true
	case "uint":
		return TagUInt, true
	case "ulong_long":
		return TagULongLong, true
	case "string":
		return TagString, true
	case "inlined_string":
		return TagInlinedString, true
	case "null":
		return TagNull, true
	case "f32p32":
		return TagF32P32, true
	case "f16p16":
		return TagF16P16, true
	case "f8p24":
		return TagF8P24, true
	default:
		return TagUnknow, false
	}
}

// GroupTag identifies the container shape of a field: a flat scalar, or
// one of the recursive group encodings.
type GroupTag uint32

const (
	GroupUnknown  GroupTag = 100
	GroupArray    GroupTag = 101
	GroupVarArray GroupTag = 102
	GroupList     GroupTag = 103
	GroupHash     GroupTag = 104
	GroupUnion    GroupTag = 105
	GroupVariant  GroupTag = 106
	GroupLast     GroupTag = 107
)

// String renders g the way dump's text form names a group chunk's kind.
func (g GroupTag) String() string {
	switch g {
	case GroupUnknown:
		return "group"
	case GroupArray:
		return "array"
	case GroupVarArray:
		return "var_array"
	case GroupList:
		return "list"
	case GroupHash:
		return "hash"
	case GroupUnion:
		return "union"
	case GroupVariant:
		return "variant"
	default:
		return "unknown"
	}
}

// ParseGroupTag is the inverse of GroupTag.String, used by dump.Undump
// to turn a text chunk's kind word back into a wire group tag.
func ParseGroupTag(s string) (GroupTag, bool) {
	switch s {
	case "group":
		return GroupUnknown, true
	case "array":
		return GroupArray, true
	case "var_array":
		return GroupVarArray, true
	case "list":
		return GroupList, true
	case "hash":
		return GroupHash, true
	case "union":
		return GroupUnion, true
	case "variant":
		return GroupVariant, true
	default:
		return 0, false
	}
}

// RecursionLimit bounds nested group depth during decode; beyond it a
// decode fails closed with errs.ErrMalformedData rather than risk
// unbounded recursion on adversarial input.
const RecursionLimit = 128

// Container-level magic numbers.
const (
	MagicContainer uint32 = 0x1ee7ff00
	MagicSignature uint32 = 0x1ee70f42
)

// Image header discriminators (first 4 bytes of an image payload encode
// one of these into the high byte of the tag word).
const (
	ImageTagLossless uint32 = 0x01000000
	ImageTagLossy    uint32 = 0x02000000
)

// CompressionType identifies a payload compression algorithm. A
// container.Container uses one for all its compressed entries.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1
	CompressionZstd CompressionType = 0x2
	CompressionS2   CompressionType = 0x3
	CompressionLZ4  CompressionType = 0x4
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// CipherType identifies the per-entry symmetric cipher, or its absence.
type CipherType uint8

const (
	CipherNone CipherType = 0x0
	CipherAES  CipherType = 0x1
)

func (c CipherType) String() string {
	switch c {
	case CipherNone:
		return "None"
	case CipherAES:
		return "AES"
	default:
		return "Unknown"
	}
}

// Directory entry flag bits (section.DirectoryEntry.Flags).
const (
	FlagCompress uint32 = 1 << 0
	FlagCipher   uint32 = 1 << 1
	FlagAlias    uint32 = 1 << 2
	// FlagKnownMask covers every bit this version understands; readers
	// must ignore bits outside it and writers must zero them.
	FlagKnownMask uint32 = FlagCompress | FlagCipher | FlagAlias
)
