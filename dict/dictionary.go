// Package dict implements the container's string dictionary: a
// deduplicated, hashed string table shared by every entry's structured
// records, persisted as a flat array of records followed by a
// NUL-separated blob.
package dict

import (
	"github.com/goeet/eet/codec"
	"github.com/goeet/eet/errs"
	"github.com/goeet/eet/internal/hash"
)

// recordSize is the on-disk size of a single dictionary record:
// hash, offset, size, prev, next — five big-endian u32 fields.
const recordSize = 5 * 4

// record is the serializable form of one dictionary entry.
type record struct {
	hash   uint32
	offset uint32
	size   uint32
	prev   uint32
	next   uint32
}

// Dictionary is a growing, hash-bucketed string table. Intern is the
// only mutator; everything else is a read path safe for concurrent use
// once the dictionary is no longer being interned into.
type Dictionary struct {
	records []record
	blob    []byte

	// buckets maps a record's bucket index (hash truncated to the
	// current bucket count) to the index of the first record in its
	// chain; prev/next fields link the rest of the chain.
	buckets []int32

	// index speeds up Contains/Intern by mapping the full 64-bit hash
	// to candidate record indices, avoiding a bucket walk for the
	// common single-entry-per-bucket case.
	index map[uint64][]uint32
}

const minBucketCount = 16

// New returns an empty dictionary ready for interning.
func New() *Dictionary {
	return &Dictionary{
		buckets: newBuckets(minBucketCount),
		index:   make(map[uint64][]uint32),
	}
}

func newBuckets(n int) []int32 {
	b := make([]int32, n)
	for i := range b {
		b[i] = -1
	}

	return b
}

// Intern returns the stable index of s, appending a new record and
// blob suffix if s has not been seen before. The returned index never
// changes for the lifetime of the dictionary.
func (d *Dictionary) Intern(s string) uint32 {
	h := hash.ID(s)

	for _, idx := range d.index[h] {
		if d.stringAtRecord(d.records[idx]) == s {
			return idx
		}
	}

	if len(d.records)+1 > len(d.buckets)*2 {
		d.rehash(len(d.buckets) * 2)
	}

	idx := uint32(len(d.records))
	bucket := int(h) & (len(d.buckets) - 1)

	rec := record{
		hash:   uint32(h),
		offset: uint32(len(d.blob)),
		size:   uint32(len(s)),
		prev:   uint32(0xFFFFFFFF),
		next:   uint32(d.buckets[bucket]),
	}
	if rec.next != 0xFFFFFFFF {
		d.records[rec.next].prev = idx
	}

	d.buckets[bucket] = int32(idx)
	d.records = append(d.records, rec)
	d.blob = append(d.blob, s...)
	d.blob = append(d.blob, 0)
	d.index[h] = append(d.index[h], idx)

	return idx
}

// rehash grows the bucket count and relinks every record's chain.
func (d *Dictionary) rehash(newCount int) {
	d.buckets = newBuckets(newCount)

	for i := range d.records {
		b := int(d.records[i].hash) & (newCount - 1)
		d.records[i].prev = 0xFFFFFFFF
		d.records[i].next = uint32(d.buckets[b])
		if d.records[i].next != 0xFFFFFFFF {
			d.records[d.records[i].next].prev = uint32(i)
		}
		d.buckets[b] = int32(i)
	}
}

// Contains reports whether s has already been interned.
func (d *Dictionary) Contains(s string) bool {
	h := hash.ID(s)
	for _, idx := range d.index[h] {
		if d.stringAtRecord(d.records[idx]) == s {
			return true
		}
	}

	return false
}

// StringAt returns the interned string at index. The returned string
// is a copy of the bytes in the dictionary's blob; it does not borrow
// the blob, so it stays valid after a memory-mapped backing slice is
// unmapped.
func (d *Dictionary) StringAt(index uint32) string {
	if int(index) >= len(d.records) {
		return ""
	}

	return d.stringAtRecord(d.records[index])
}

func (d *Dictionary) stringAtRecord(r record) string {
	return string(d.blob[r.offset : r.offset+r.size])
}

// Len returns the number of distinct interned strings.
func (d *Dictionary) Len() int {
	return len(d.records)
}

// Bytes serializes the dictionary as `count` records followed by the
// NUL-separated blob, per the container wire format.
func (d *Dictionary) Bytes() []byte {
	buf := make([]byte, 0, len(d.records)*recordSize+len(d.blob))

	for _, r := range d.records {
		buf = codec.AppendUint32(buf, r.hash)
		buf = codec.AppendUint32(buf, r.offset)
		buf = codec.AppendUint32(buf, r.size)
		buf = codec.AppendUint32(buf, r.prev)
		buf = codec.AppendUint32(buf, r.next)
	}

	return append(buf, d.blob...)
}

// ParseDictionary parses count dictionary records followed by their
// NUL-separated blob from data. The returned Dictionary keeps its blob
// as a view into data, so data must stay valid while the Dictionary is
// in use; StringAt copies each string out of it.
func ParseDictionary(data []byte, count uint32) (*Dictionary, error) {
	need := int(count) * recordSize
	if len(data) < need {
		return nil, errs.ErrMalformedData
	}

	records := make([]record, count)
	for i := range records {
		off := i * recordSize
		records[i] = record{
			hash:   codec.Uint32(data[off : off+4]),
			offset: codec.Uint32(data[off+4 : off+8]),
			size:   codec.Uint32(data[off+8 : off+12]),
			prev:   codec.Uint32(data[off+12 : off+16]),
			next:   codec.Uint32(data[off+16 : off+20]),
		}
	}

	blob := data[need:]

	d := &Dictionary{
		records: records,
		blob:    blob,
		index:   make(map[uint64][]uint32, count),
	}

	bucketCount := minBucketCount
	for bucketCount < len(records)*2 {
		bucketCount *= 2
	}
	d.buckets = newBuckets(bucketCount)

	for i, r := range records {
		end := int(r.offset) + int(r.size)
		if r.offset > uint32(len(blob)) || end > len(blob) {
			return nil, errs.ErrEntryOutOfBounds
		}

		s := string(blob[r.offset:end])
		h := hash.ID(s)
		d.index[h] = append(d.index[h], uint32(i))

		b := int(r.hash) & (bucketCount - 1)
		d.buckets[b] = int32(i)
	}

	return d, nil
}
