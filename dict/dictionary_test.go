package dict

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternDeduplicates(t *testing.T) {
	d := New()

	i1 := d.Intern("alpha")
	i2 := d.Intern("beta")
	i3 := d.Intern("alpha")

	require.Equal(t, i1, i3)
	require.NotEqual(t, i1, i2)
	require.Equal(t, 2, d.Len())
}

func TestInternStablePointer(t *testing.T) {
	d := New()

	idx := d.Intern("stable")
	for i := 0; i < 50; i++ {
		d.Intern("filler")
		require.Equal(t, idx, d.Intern("stable"))
	}
}

func TestContains(t *testing.T) {
	d := New()
	d.Intern("present")

	require.True(t, d.Contains("present"))
	require.False(t, d.Contains("absent"))
}

func TestStringAt(t *testing.T) {
	d := New()
	idx := d.Intern("hello")

	require.Equal(t, "hello", d.StringAt(idx))
	require.Equal(t, "", d.StringAt(999))
}

func TestBytesAndParseDictionaryRoundTrip(t *testing.T) {
	d := New()
	d.Intern("one")
	d.Intern("two")
	d.Intern("three")

	data := d.Bytes()

	parsed, err := ParseDictionary(data[:d.Len()*recordSize+len(d.blob)], uint32(d.Len()))
	require.NoError(t, err)
	require.Equal(t, d.Len(), parsed.Len())

	for i := uint32(0); i < uint32(d.Len()); i++ {
		require.Equal(t, d.StringAt(i), parsed.StringAt(i))
	}

	require.True(t, parsed.Contains("two"))
	require.False(t, parsed.Contains("missing"))
}

func TestParseDictionaryRejectsTruncatedInput(t *testing.T) {
	_, err := ParseDictionary([]byte{1, 2, 3}, 1)
	require.Error(t, err)
}

func TestParseDictionaryRejectsOutOfBoundsRecord(t *testing.T) {
	d := New()
	d.Intern("x")
	data := d.Bytes()

	// Corrupt the size field of the single record to overrun the blob.
	data[8] = 0xFF

	_, err := ParseDictionary(data, 1)
	require.Error(t, err)
}

func TestInternManyTriggersRehash(t *testing.T) {
	d := New()
	seen := make(map[string]uint32)

	for i := 0; i < 200; i++ {
		s := string(rune('a' + i%26))
		s += string(rune('A' + (i/26)%26))
		idx := d.Intern(s)
		if prev, ok := seen[s]; ok {
			require.Equal(t, prev, idx)
		} else {
			seen[s] = idx
		}
	}

	for s, idx := range seen {
		require.Equal(t, s, d.StringAt(idx))
	}
}
