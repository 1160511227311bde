// Package container assembles and disassembles the on-disk container
// format: header, directory, string dictionary, entry payloads and an
// optional signature trailer, built on top of section's fixed-layout
// structs.
package container

import (
	"crypto/sha1" //nolint:gosec // matches Eet.h's eet_identity_sha1, not used for any security property

	"github.com/goeet/eet/cipher"
	"github.com/goeet/eet/compress"
	"github.com/goeet/eet/dict"
	"github.com/goeet/eet/errs"
	"github.com/goeet/eet/format"
	"github.com/goeet/eet/identity"
	"github.com/goeet/eet/internal/hash"
	"github.com/goeet/eet/internal/options"
	"github.com/goeet/eet/section"
)

// Entry is one staged or loaded container member: its plaintext,
// decompressed payload plus the write-time options that determine how
// Flush re-encodes it.
type Entry struct {
	Name       string
	Data       []byte
	Compress   bool
	Cipher     bool
	Passphrase string
}

// Container holds the staged entries and string dictionary of one
// open handle. It has no knowledge of files; file.Handle owns reading
// container bytes from disk/mmap and writing them back atomically.
type Container struct {
	Dict            *dict.Dictionary
	entries         map[string]*Entry
	order           []string
	compressionType format.CompressionType

	signer     *identity.Identity
	trailer    *section.SignatureTrailer
	signedBody []byte
	sha1       [20]byte
}

// Option configures a Container at construction time.
type Option = options.Option[*Container]

// WithCompression selects the compression backend Flush uses for
// every entry written with Compress=true. The container format's
// directory flags record only whether an entry is compressed, not
// which algorithm — matching Eet.h's single built-in backend — so the
// algorithm is a per-Container write-time choice, not on-disk state;
// see DESIGN.md's Open Question resolution. Default: format.CompressionZstd.
func WithCompression(t format.CompressionType) Option {
	return options.NoError(func(c *Container) {
		c.compressionType = t
	})
}

// New returns an empty, writable Container.
func New(opts ...Option) (*Container, error) {
	c := &Container{
		Dict:            dict.New(),
		entries:         make(map[string]*Entry),
		compressionType: format.CompressionZstd,
	}

	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// Put stages (or replaces) an entry. The payload is held as plaintext
// in memory until Flush encodes it.
func (c *Container) Put(e Entry) {
	if _, exists := c.entries[e.Name]; !exists {
		c.order = append(c.order, e.Name)
	}

	c.entries[e.Name] = &e
}

// Get returns the plaintext payload of a staged or loaded entry.
func (c *Container) Get(name string) ([]byte, error) {
	e, ok := c.entries[name]
	if !ok {
		return nil, errs.ErrUnknownEntry
	}

	return e.Data, nil
}

// Delete removes a staged entry.
func (c *Container) Delete(name string) error {
	if _, ok := c.entries[name]; !ok {
		return errs.ErrUnknownEntry
	}

	delete(c.entries, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}

	return nil
}

// Names returns staged entry names in directory order.
func (c *Container) Names() []string {
	return append([]string(nil), c.order...)
}

// NumEntries returns the number of staged entries.
func (c *Container) NumEntries() int {
	return len(c.order)
}

// SetIdentity attaches a signing identity. The next Flush appends a
// SignatureTrailer over every byte written so far, matching Eet.h's
// eet_identity_set.
func (c *Container) SetIdentity(id *identity.Identity) {
	c.signer = id
}

// X509 returns the DER certificate embedded in a loaded container's
// signature trailer, and whether one is present.
func (c *Container) X509() ([]byte, bool) {
	if c.trailer == nil {
		return nil, false
	}

	return c.trailer.CertDER, true
}

// Signature returns the raw signature bytes from a loaded container's
// trailer, and whether one is present.
func (c *Container) Signature() ([]byte, bool) {
	if c.trailer == nil {
		return nil, false
	}

	return c.trailer.Signature, true
}

// Sha1 returns the SHA-1 digest of the container body that was (or
// would be) signed — the digest Eet_file signs over if a trailer is
// present, or simply the digest of the whole loaded image otherwise.
func (c *Container) Sha1() []byte {
	return append([]byte(nil), c.sha1[:]...)
}

// Signed reports whether Load found a trailer on the container image.
func (c *Container) Signed() bool {
	return c.trailer != nil
}

// VerifySignature checks a loaded container's trailer against the
// body it was loaded from. It fails with errs.ErrNotSigned if Load
// found no trailer.
func (c *Container) VerifySignature() error {
	if c.trailer == nil {
		return errs.ErrNotSigned
	}

	return identity.Verify(c.signedBody, *c.trailer)
}

// Load parses a full container image: header, directory, dictionary
// records and blob, then the payload region. Unciphered entries are
// decompressed eagerly (when flagged) so Get returns their original
// bytes; ciphered entries are kept as stored until Decrypt is called.
func Load(data []byte, opts ...Option) (*Container, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}

	if section.TrailerPresent(data) {
		trailer, err := section.ParseSignatureTrailer(data)
		if err != nil {
			return nil, err
		}

		c.trailer = &trailer
		data = data[:len(data)-len(trailer.Bytes())]
	}

	c.signedBody = append([]byte(nil), data...)
	c.sha1 = sha1.Sum(data) //nolint:gosec // matches Eet.h's eet_identity_sha1, not used for any security property

	var hdr section.Header
	if err := hdr.Parse(data); err != nil {
		return nil, err
	}

	offset := section.HeaderSize

	entries := make([]section.DirectoryEntry, hdr.EntryCount)
	for i := range entries {
		n, err := entries[i].Parse(data[offset:])
		if err != nil {
			return nil, err
		}

		offset += n
	}

	dictRecordsStart := offset
	dictRecordsSize := int(hdr.DictCount) * section.DictRecordSize
	if len(data) < dictRecordsStart+dictRecordsSize {
		return nil, errs.ErrMalformedData
	}

	dictBlobStart := dictRecordsStart + dictRecordsSize
	dictionaryRegion := data[dictRecordsStart:]

	payloadRegionStart := dictBlobStart
	for _, e := range entries {
		if e.Alias() {
			continue
		}

		end := int(e.Offset) + int(e.StoredSize)
		if int(e.Offset) < payloadRegionStart || end > len(data) {
			return nil, errs.ErrEntryOutOfBounds
		}
	}

	// The dictionary blob extends up to the lowest entry offset (or to
	// the end of data if there are no entries), since payloads are
	// packed immediately after it.
	dictBlobEnd := len(data)
	for _, e := range entries {
		if !e.Alias() && int(e.Offset) < dictBlobEnd {
			dictBlobEnd = int(e.Offset)
		}
	}

	if hdr.DictCount > 0 {
		parsedDict, err := dict.ParseDictionary(dictionaryRegion[:dictBlobEnd-dictRecordsStart], hdr.DictCount)
		if err != nil {
			return nil, err
		}

		c.Dict = parsedDict
	}

	decodedByOffset := make(map[uint32][]byte, len(entries))

	for _, e := range entries {
		plaintext, ok := decodedByOffset[e.Offset]
		if !ok {
			var err error
			plaintext, err = c.decodePayload(data, e)
			if err != nil {
				return nil, err
			}

			decodedByOffset[e.Offset] = plaintext
		}

		c.Put(Entry{
			Name:     e.Name,
			Data:     plaintext,
			Compress: e.Compressed(),
			Cipher:   e.Ciphered(),
		})
	}

	return c, nil
}

// decodePayload returns an entry's payload bytes as Get should present
// them: fully decompressed when unciphered, or still-ciphered raw
// bytes (compression undone later, in Decrypt) when the cipher flag is
// set — Load has no passphrase to decrypt with at parse time.
func (c *Container) decodePayload(data []byte, e section.DirectoryEntry) ([]byte, error) {
	raw := append([]byte(nil), data[e.Offset:e.Offset+e.StoredSize]...)

	if e.Ciphered() {
		return raw, nil
	}

	return c.decompressIfFlagged(raw, e)
}

func (c *Container) decompressIfFlagged(raw []byte, e section.DirectoryEntry) ([]byte, error) {
	if !e.Compressed() {
		return raw, nil
	}

	codec, err := compress.GetCodec(c.compressionType)
	if err != nil {
		return nil, err
	}

	out, err := codec.Decompress(raw)
	if err != nil {
		return nil, err
	}

	if uint32(len(out)) != e.DecompressedSz {
		return nil, errs.ErrDecompressMismatch
	}

	return out, nil
}

// Decrypt replaces a loaded ciphered entry's placeholder with its
// decrypted (and, if the entry is also compressed, decompressed)
// plaintext, given the passphrase. Callers that know an entry is
// ciphered must call this after Load before Get returns meaningful
// data for it.
func (c *Container) Decrypt(name, passphrase string) error {
	e, ok := c.entries[name]
	if !ok {
		return errs.ErrUnknownEntry
	}

	if !e.Cipher {
		return nil
	}

	plaintext, err := cipher.Decrypt(e.Data, passphrase)
	if err != nil {
		return err
	}

	if e.Compress {
		codec, err := compress.GetCodec(c.compressionType)
		if err != nil {
			return err
		}

		plaintext, err = codec.Decompress(plaintext)
		if err != nil {
			return err
		}
	}

	e.Data = plaintext
	e.Cipher = false

	return nil
}

// Flush encodes every staged entry (compressing/ciphering per its
// flags), deduplicates identical payloads into alias directory
// entries, and serializes the full container image.
func (c *Container) Flush() ([]byte, error) {
	codec, err := compress.GetCodec(c.compressionType)
	if err != nil {
		return nil, err
	}

	type staged struct {
		name           string
		storedBytes    []byte
		decompressedSz uint32
		flags          uint32
		aliasOf        string
	}

	seen := make(map[uint64]string, len(c.order))
	records := make([]staged, 0, len(c.order))

	for _, name := range c.order {
		e := c.entries[name]
		payload := e.Data

		payloadHash := hash.ID(string(payload))
		if original, ok := seen[payloadHash]; ok {
			records = append(records, staged{name: name, flags: format.FlagAlias, aliasOf: original})
			continue
		}

		decompressedSz := uint32(len(payload))
		var flags uint32

		stored := payload
		if e.Compress {
			compressed, err := codec.Compress(payload)
			if err != nil {
				return nil, err
			}

			stored = compressed
			flags |= format.FlagCompress
		}

		if e.Cipher {
			enciphered, err := cipher.Encrypt(stored, e.Passphrase)
			if err != nil {
				return nil, err
			}

			stored = enciphered
			flags |= format.FlagCipher
		}

		seen[payloadHash] = name
		records = append(records, staged{
			name:           name,
			storedBytes:    stored,
			decompressedSz: decompressedSz,
			flags:          flags,
		})
	}

	byName := make(map[string]int, len(records))
	for i, r := range records {
		byName[r.name] = i
	}

	dictBytes := c.Dict.Bytes()
	hdr := section.Header{EntryCount: uint32(len(records)), DictCount: uint32(c.Dict.Len())}

	// Directory entries are fixed-size (20 bytes) plus their exact name,
	// so the payload region's base offset is computable before any
	// entry is serialized.
	dirSize := 0
	for _, r := range records {
		dirSize += 5*4 + len(r.name)
	}

	dirEntries := make([]section.DirectoryEntry, len(records))
	payloadBase := section.HeaderSize + dirSize + int(hdr.DictCount)*section.DictRecordSize + len(dictBytes)
	offset := payloadBase

	for i, r := range records {
		if r.flags&format.FlagAlias != 0 {
			origIdx := byName[r.aliasOf]
			dirEntries[i] = section.DirectoryEntry{
				Offset:         dirEntries[origIdx].Offset,
				StoredSize:     dirEntries[origIdx].StoredSize,
				DecompressedSz: dirEntries[origIdx].DecompressedSz,
				Flags:          dirEntries[origIdx].Flags | format.FlagAlias,
				Name:           r.name,
			}

			continue
		}

		dirEntries[i] = section.DirectoryEntry{
			Offset:         uint32(offset),
			StoredSize:     uint32(len(r.storedBytes)),
			DecompressedSz: r.decompressedSz,
			Flags:          r.flags,
			Name:           r.name,
		}
		offset += len(r.storedBytes)
	}

	out := make([]byte, 0, offset)
	out = append(out, hdr.Bytes()...)
	for _, e := range dirEntries {
		out = append(out, e.Bytes()...)
	}

	out = append(out, dictBytes...)

	for _, r := range records {
		if r.flags&format.FlagAlias != 0 {
			continue
		}

		out = append(out, r.storedBytes...)
	}

	if c.signer != nil {
		trailer, err := c.signer.Sign(out)
		if err != nil {
			return nil, err
		}

		out = append(out, trailer.Bytes()...)
	}

	return out, nil
}

