package dump

import (
	"strings"
	"testing"

	"github.com/goeet/eet/data"
	"github.com/goeet/eet/dict"
	"github.com/goeet/eet/format"
	"github.com/goeet/eet/schema"
	"github.com/stretchr/testify/require"
)

type widget struct {
	Name  string
	Count int32
	Tags  []string
}

func widgetDescriptor() *schema.Descriptor {
	return schema.New("widget", widget{}).
		AddBasic("name", "Name", format.TagString).
		AddBasic("count", "Count", format.TagInt).
		AddList("tags", "Tags", format.TagString, nil)
}

func TestDumpUndumpRoundTrip(t *testing.T) {
	d := widgetDescriptor()

	in := widget{Name: "gadget", Count: 7, Tags: []string{"a", "b"}}

	encoded, err := data.Encode(d, in, nil)
	require.NoError(t, err)

	text, err := Dump(encoded, nil)
	require.NoError(t, err)
	require.NotEmpty(t, text)
	require.Contains(t, text, `string "name" "gadget"`)
	require.Contains(t, text, `string "tags" "a"`)
	require.Contains(t, text, `string "tags" "b"`)

	roundTripped, err := Undump(text, nil)
	require.NoError(t, err)
	require.Equal(t, encoded, roundTripped)
}

type point struct {
	X int32
	Y int32
}

type shape struct {
	Points []point
	Scores map[string]int32
}

func shapeDescriptor() *schema.Descriptor {
	pointDesc := schema.New("point", point{}).
		AddBasic("x", "X", format.TagInt).
		AddBasic("y", "Y", format.TagInt)

	return schema.New("shape", shape{}).
		AddList("points", "Points", format.TagUnknow, pointDesc).
		AddHash("scores", "Scores", format.TagInt, nil)
}

func TestDumpUndumpGroupAndHashRoundTrip(t *testing.T) {
	d := shapeDescriptor()

	in := shape{
		Points: []point{{X: 1, Y: 2}, {X: 3, Y: 4}},
		Scores: map[string]int32{"alice": 10},
	}

	encoded, err := data.Encode(d, in, nil)
	require.NoError(t, err)

	text, err := Dump(encoded, nil)
	require.NoError(t, err)
	require.Contains(t, text, `group "points" {`)
	require.Contains(t, text, `hash "scores" {`)
	require.Contains(t, text, `"@key" "alice"`)

	roundTripped, err := Undump(text, nil)
	require.NoError(t, err)
	require.Equal(t, encoded, roundTripped)
}

func TestDumpUndumpWithDictionaryInlining(t *testing.T) {
	type label struct {
		Label string
	}

	d := schema.New("rec", label{}).AddBasic("label", "Label", format.TagString)

	dictionary := dict.New()
	dictionary.Intern("known")

	encoded, err := data.Encode(d, label{Label: "known"}, dictionary)
	require.NoError(t, err)

	text, err := Dump(encoded, dictionary)
	require.NoError(t, err)
	require.Contains(t, text, `inlined_string "label" "known"`)

	roundTripped, err := Undump(text, dictionary)
	require.NoError(t, err)
	require.Equal(t, encoded, roundTripped)
}

func TestDumpUndumpNullField(t *testing.T) {
	type optional struct {
		Value *int32
	}

	d := schema.New("rec", optional{}).AddBasic("value", "Value", format.TagInt)

	encoded, err := data.Encode(d, optional{Value: nil}, nil)
	require.NoError(t, err)

	text, err := Dump(encoded, nil)
	require.NoError(t, err)
	require.Contains(t, text, `null "value"`)

	roundTripped, err := Undump(text, nil)
	require.NoError(t, err)
	require.Equal(t, encoded, roundTripped)
}

func TestUndumpRejectsMalformedText(t *testing.T) {
	_, err := Undump("not a valid dump", nil)
	require.Error(t, err)
}

func TestUndumpRejectsUnbalancedGroup(t *testing.T) {
	_, err := Undump(`group "rec" {`+"\n"+`null "a"`, nil)
	require.Error(t, err)
}

func TestUndumpRejectsExcessiveNesting(t *testing.T) {
	depth := format.RecursionLimit + 5

	var b strings.Builder
	for i := 0; i < depth; i++ {
		b.WriteString(`group "g" {` + "\n")
	}

	b.WriteString(`null "leaf"` + "\n")

	for i := 0; i < depth; i++ {
		b.WriteString("}\n")
	}

	_, err := Undump(b.String(), nil)
	require.Error(t, err)
}
