package schema

import (
	"testing"

	"github.com/goeet/eet/format"
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
}

func TestDescriptorBuildsFieldList(t *testing.T) {
	pointDesc := New("point", point{}).
		AddBasic("x", "X", format.TagInt).
		AddBasic("y", "Y", format.TagInt)

	d := New("shape", shape{}).
		AddBasic("name", "Name", format.TagString).
		AddArray("origin", "Origin", format.TagUnknow, 1, pointDesc).
		AddList("points", "Points", format.TagUnknow, pointDesc)

	require.Len(t, d.Fields, 3)

	f, ok := d.FieldByName("points")
	require.True(t, ok)
	require.Equal(t, GroupList, f.Group)
	require.Same(t, pointDesc, f.Sub)

	_, ok = d.FieldByName("missing")
	require.False(t, ok)
}

func TestDefaultAllocatorRoundTrip(t *testing.T) {
	a := defaultAllocator{}
	v := a.Alloc(New("point", point{}).GoType)
	require.True(t, v.CanSet())
	require.Equal(t, int64(0), v.FieldByName("X").Int())
}
