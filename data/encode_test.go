package data

import (
	"reflect"
	"testing"

	"github.com/goeet/eet/dict"
	"github.com/goeet/eet/format"
	"github.com/goeet/eet/schema"
	"github.com/stretchr/testify/require"
)

type point struct {
	X int32
	Y int32
}

type shape struct {
	Name   string
	Origin point
	Points []point
	Tags   map[string]int32
}

func pointDescriptor() *schema.Descriptor {
	return schema.New("point", point{}).
		AddBasic("x", "X", format.TagInt).
		AddBasic("y", "Y", format.TagInt)
}

func shapeDescriptor() *schema.Descriptor {
	return schema.New("shape", shape{}).
		AddBasic("name", "Name", format.TagString).
		AddRecord("origin", "Origin", pointDescriptor()).
		AddList("points", "Points", format.TagUnknow, pointDescriptor()).
		AddHash("tags", "Tags", format.TagInt, nil)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	d := shapeDescriptor()

	in := shape{
		Name:   "triangle",
		Origin: point{X: 1, Y: 2},
		Points: []point{{X: 3, Y: 4}, {X: 5, Y: 6}},
		Tags:   map[string]int32{"color": 7},
	}

	encoded, err := Encode(d, in, nil)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	out, err := Decode(d, encoded, nil)
	require.NoError(t, err)

	got, ok := out.(*shape)
	require.True(t, ok)
	require.Equal(t, in, *got)
}

func TestEncodeUsesDictionaryInlining(t *testing.T) {
	type label struct {
		Label string
	}

	d := schema.New("rec", label{}).AddBasic("label", "Label", format.TagString)

	dictionary := dict.New()
	dictionary.Intern("known")

	encoded, err := Encode(d, label{Label: "known"}, dictionary)
	require.NoError(t, err)

	outer, _, err := readChunk(encoded)
	require.NoError(t, err)

	fieldChunk, _, err := readChunk(outer.Payload)
	require.NoError(t, err)
	require.Equal(t, uint32(format.TagInlinedString), fieldChunk.Tag)

	out, err := Decode(d, encoded, dictionary)
	require.NoError(t, err)
	require.Equal(t, "known", out.(*label).Label)
}

func TestEncodeLeavesUninternedStringLiteral(t *testing.T) {
	type label struct {
		Label string
	}

	d := schema.New("rec", label{}).AddBasic("label", "Label", format.TagString)

	dictionary := dict.New()

	encoded, err := Encode(d, label{Label: "fresh"}, dictionary)
	require.NoError(t, err)

	outer, _, err := readChunk(encoded)
	require.NoError(t, err)

	fieldChunk, _, err := readChunk(outer.Payload)
	require.NoError(t, err)
	require.Equal(t, uint32(format.TagString), fieldChunk.Tag)
	require.Equal(t, "fresh", string(fieldChunk.Payload))
}

func TestDecodeSkipsUnknownFieldsAndZeroesMissing(t *testing.T) {
	type wide struct {
		A int32
		B int32
	}

	type narrow struct {
		A int32
	}

	wideDesc := schema.New("rec", wide{}).
		AddBasic("a", "A", format.TagInt).
		AddBasic("b", "B", format.TagInt)

	narrowDesc := schema.New("rec", narrow{}).
		AddBasic("a", "A", format.TagInt)

	encoded, err := Encode(wideDesc, wide{A: 1, B: 2}, nil)
	require.NoError(t, err)

	out, err := Decode(narrowDesc, encoded, nil)
	require.NoError(t, err)
	require.Equal(t, int32(1), out.(*narrow).A)

	encodedNarrow, err := Encode(narrowDesc, narrow{A: 9}, nil)
	require.NoError(t, err)

	wideOut, err := Decode(wideDesc, encodedNarrow, nil)
	require.NoError(t, err)
	require.Equal(t, wide{A: 9, B: 0}, *wideOut.(*wide))
}

func TestFixedArrayRejectsWrongLength(t *testing.T) {
	type pair struct {
		Values []int32
	}

	d := schema.New("rec", pair{}).
		AddArray("values", "Values", format.TagInt, 2, nil)

	_, err := Encode(d, pair{Values: []int32{1, 2}}, nil)
	require.NoError(t, err)

	_, err = Encode(d, pair{Values: []int32{1, 2, 3}}, nil)
	require.Error(t, err)
}

type circle struct{ Radius int32 }
type square struct{ Side int32 }

type polygon struct {
	Shape interface{}
}

func unionOps() *schema.UnionOps {
	circleDesc := schema.New("circle", circle{}).AddBasic("radius", "Radius", format.TagInt)
	squareDesc := schema.New("square", square{}).AddBasic("side", "Side", format.TagInt)

	return &schema.UnionOps{
		TypeOf: func(v reflect.Value) string {
			switch v.Interface().(type) {
			case circle:
				return "circle"
			case square:
				return "square"
			default:
				return ""
			}
		},
		Variants: map[string]*schema.Descriptor{
			"circle": circleDesc,
			"square": squareDesc,
		},
		Set: func(v reflect.Value, _ string, decoded reflect.Value) {
			v.Set(decoded)
		},
	}
}

func TestUnionRoundTrip(t *testing.T) {
	d := schema.New("polygon", polygon{}).AddUnion("shape", "Shape", unionOps())

	in := polygon{Shape: circle{Radius: 4}}

	encoded, err := Encode(d, in, nil)
	require.NoError(t, err)

	out, err := Decode(d, encoded, nil)
	require.NoError(t, err)

	got := out.(*polygon)
	require.Equal(t, circle{Radius: 4}, got.Shape)
}

func TestVariantOpaqueFallbackRoundTrip(t *testing.T) {
	ops := unionOps()
	ops.Opaque = func(v reflect.Value, tagName string, raw []byte) {
		v.Set(reflect.ValueOf(Opaque{Tag: tagName, Bytes: raw}))
	}

	d := schema.New("polygon", polygon{}).AddVariant("shape", "Shape", ops)

	// Decode a tag the schema's Variants map doesn't know about: it
	// should round-trip through Opaque rather than failing.
	unknownSub := schema.New("hexagon", struct{ Sides int32 }{}).AddBasic("sides", "Sides", format.TagInt)
	inner, err := Encode(unknownSub, struct{ Sides int32 }{Sides: 6}, nil)
	require.NoError(t, err)

	outerChunk, _, err := readChunk(inner)
	require.NoError(t, err)

	nameChunk := appendChunk(nil, uint32(format.TagString), unionTagFieldName, []byte("hexagon"))
	variantPayload := append(nameChunk, outerChunk.Payload...)
	encoded := appendChunk(nil, uint32(format.GroupVariant), "shape", variantPayload)
	wrapped := appendChunk(nil, uint32(format.GroupUnknown), "polygon", encoded)

	out, err := Decode(d, wrapped, nil)
	require.NoError(t, err)

	got := out.(*polygon)
	opaque, ok := got.Shape.(Opaque)
	require.True(t, ok)
	require.Equal(t, "hexagon", opaque.Tag)

	// Re-encoding the opaque value must reproduce the original bytes.
	reencoded, err := Encode(d, *got, nil)
	require.NoError(t, err)
	require.Equal(t, wrapped, reencoded)
}

func TestDecodeRejectsBadMagicGroupTag(t *testing.T) {
	d := shapeDescriptor()

	bogus := appendChunk(nil, uint32(format.TagInt), "shape", nil)

	_, err := Decode(d, bogus, nil)
	require.Error(t, err)
}

type node struct {
	Children []node
}

func TestEncodeRejectsExcessiveRecursionDepth(t *testing.T) {
	d := schema.New("node", node{})
	d.AddList("child", "Children", format.TagUnknow, d)

	var build func(depth int) node
	build = func(depth int) node {
		if depth == 0 {
			return node{}
		}

		return node{Children: []node{build(depth - 1)}}
	}

	shallow := build(4)
	_, err := Encode(d, shallow, nil)
	require.NoError(t, err)

	deep := build(format.RecursionLimit + 5)
	_, err = Encode(d, deep, nil)
	require.Error(t, err)
}
