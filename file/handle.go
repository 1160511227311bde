// Package file manages open container handles: mmap-backed reads,
// staged writes, the process-wide read-handle cache and the atomic
// temp-then-rename flush.
package file

import (
	"errors"
	"os"
	"sync"
	"syscall"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/ryanuber/go-glob"

	"github.com/goeet/eet/container"
	"github.com/goeet/eet/dict"
	"github.com/goeet/eet/errs"
	"github.com/goeet/eet/identity"
	"github.com/goeet/eet/section"
)

// Handle is one open container. It owns the mapped region for a read
// handle, or the staged entry map (via Container) for a write handle;
// never both. dirByName and raw serve ReadDirect borrows without going
// through Container's owned copies.
type Handle struct {
	mu   sync.RWMutex
	mode Mode
	path string

	c *container.Container

	raw       []byte
	region    mmap.MMap
	f         *os.File
	dirByName map[string]section.DirectoryEntry

	cached bool
	key    cacheKey
	closed bool
}

// Open opens path in the given mode. A read-mode open consults the
// process-wide handle cache first: a second Open of the same path with
// matching size and mtime returns the cached handle with its refcount
// bumped, rather than re-mapping and re-parsing the file.
func Open(path string, mode Mode) (*Handle, error) {
	if mode == ModeRead {
		return openRead(path)
	}

	return openWrite(path, mode)
}

func openRead(path string) (*Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()

		return nil, err
	}

	key := cacheKeyFor(path, fi)
	if cached := lookupCache(key); cached != nil {
		f.Close()

		return cached, nil
	}

	if fi.Size() == 0 {
		f.Close()

		h, err := newHandle(ModeRead, path, nil, nil, nil)
		if err != nil {
			return nil, err
		}

		h.key = key
		h.cached = true
		storeCache(key, h)

		return h, nil
	}

	region, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()

		return nil, errs.ErrMmapFailed
	}

	h, err := newHandle(ModeRead, path, []byte(region), f, region)
	if err != nil {
		region.Unmap()
		f.Close()

		return nil, err
	}

	h.key = key
	h.cached = true
	storeCache(key, h)

	return h, nil
}

func openWrite(path string, mode Mode) (*Handle, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return newHandle(mode, path, data, nil, nil)
}

// MemopenRead builds a read-only handle directly from an in-memory
// container image. It has no backing file, is never cached, and
// ReadDirect always fails against it.
func MemopenRead(data []byte) (*Handle, error) {
	return newHandle(ModeRead, "", data, nil, nil)
}

func newHandle(mode Mode, path string, raw []byte, f *os.File, region mmap.MMap) (*Handle, error) {
	var (
		c   *container.Container
		err error
	)

	dirByName := map[string]section.DirectoryEntry{}

	if len(raw) == 0 {
		c, err = container.New()
		if err != nil {
			return nil, err
		}
	} else {
		c, err = container.Load(raw)
		if err != nil {
			return nil, err
		}

		dirByName, err = parseDirectory(raw)
		if err != nil {
			return nil, err
		}
	}

	return &Handle{
		mode:      mode,
		path:      path,
		c:         c,
		raw:       raw,
		region:    region,
		f:         f,
		dirByName: dirByName,
	}, nil
}

func parseDirectory(data []byte) (map[string]section.DirectoryEntry, error) {
	var hdr section.Header
	if err := hdr.Parse(data); err != nil {
		return nil, err
	}

	offset := section.HeaderSize
	out := make(map[string]section.DirectoryEntry, hdr.EntryCount)

	for i := uint32(0); i < hdr.EntryCount; i++ {
		var e section.DirectoryEntry

		n, err := e.Parse(data[offset:])
		if err != nil {
			return nil, err
		}

		offset += n
		out[e.Name] = e
	}

	return out, nil
}

// Read returns the bytes of name as the underlying Container holds
// them: compressed entries were already decompressed when the container
// was loaded, and Read itself does no deciphering. Ciphered entries
// from Load must be unlocked with Container's Decrypt (via
// Handle.Container) before Read returns meaningful bytes.
func (h *Handle) Read(name string) ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.c.Get(name)
}

// ReadDirect returns a slice borrowed directly from the handle's mmap
// region, valid only for the handle's lifetime. It fails for memopen
// handles, write handles, and any entry stored compressed or ciphered.
func (h *Handle) ReadDirect(name string) ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.region == nil {
		return nil, errs.ErrNotDirect
	}

	e, ok := h.dirByName[name]
	if !ok {
		return nil, errs.ErrUnknownEntry
	}

	if e.Compressed() || e.Ciphered() {
		return nil, errs.ErrNotDirect
	}

	return h.raw[e.Offset : e.Offset+e.StoredSize], nil
}

// Write stages (or replaces) an entry. It does not touch disk; call
// Sync or Close to persist.
func (h *Handle) Write(name string, data []byte, compress bool) (int, error) {
	if !h.mode.Writable() {
		return 0, errs.ErrNotWritable
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.c.Put(container.Entry{Name: name, Data: data, Compress: compress})

	return len(data), nil
}

// Delete removes a staged entry.
func (h *Handle) Delete(name string) error {
	if !h.mode.Writable() {
		return errs.ErrNotWritable
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.c.Delete(name)
}

// List returns entry names in directory order, filtered by a glob
// pattern (empty pattern matches everything).
func (h *Handle) List(pattern string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := h.c.Names()
	if pattern == "" {
		return names
	}

	out := make([]string, 0, len(names))

	for _, n := range names {
		if glob.Glob(pattern, n) {
			out = append(out, n)
		}
	}

	return out
}

// NumEntries returns the number of entries currently staged/loaded.
func (h *Handle) NumEntries() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.c.NumEntries()
}

// Dictionary returns the handle's string dictionary. The returned
// pointer is only valid for the handle's lifetime.
func (h *Handle) Dictionary() *dict.Dictionary {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.c.Dict
}

// ModeOf reports the mode the handle was opened with.
func (h *Handle) ModeOf() Mode {
	return h.mode
}

// Container exposes the underlying container for callers that need
// Decrypt or other operations beyond Handle's file-shaped surface.
func (h *Handle) Container() *container.Container {
	return h.c
}

// SetIdentity attaches a signing identity. The next Sync/Close appends
// a signature trailer covering everything written so far.
func (h *Handle) SetIdentity(id *identity.Identity) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.c.SetIdentity(id)
}

// X509 returns the DER certificate from a loaded handle's signature
// trailer, and whether one is present.
func (h *Handle) X509() ([]byte, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.c.X509()
}

// Signature returns the raw signature bytes from a loaded handle's
// trailer, and whether one is present.
func (h *Handle) Signature() ([]byte, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.c.Signature()
}

// Sha1 returns the SHA-1 digest of the signed (or, if unsigned, whole)
// container body.
func (h *Handle) Sha1() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.c.Sha1()
}

// VerifySignature checks a loaded handle's trailer against its body.
func (h *Handle) VerifySignature() error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.c.VerifySignature()
}

// Sync flushes staged entries to path via temp-file-then-rename,
// leaving the handle open afterward.
func (h *Handle) Sync() error {
	if !h.mode.Writable() {
		return errs.ErrNotWritable
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.flushLocked()
}

func (h *Handle) flushLocked() error {
	if h.path == "" {
		return errs.NewWriteError(errs.WriteErrorFileClosed, errs.ErrNotWritable)
	}

	data, err := h.c.Flush()
	if err != nil {
		return errs.NewWriteError(errs.WriteErrorIOError, err)
	}

	tmp := h.path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errs.NewWriteError(writeErrorCodeFor(err), err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)

		return errs.NewWriteError(writeErrorCodeFor(err), err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)

		return errs.NewWriteError(errs.WriteErrorIOError, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)

		return errs.NewWriteError(errs.WriteErrorIOError, err)
	}

	if err := os.Rename(tmp, h.path); err != nil {
		os.Remove(tmp)

		return errs.NewWriteError(errs.WriteErrorIOError, err)
	}

	return nil
}

func writeErrorCodeFor(err error) errs.WriteErrorCode {
	if errors.Is(err, syscall.ENOSPC) {
		return errs.WriteErrorOutOfSpace
	}

	return errs.WriteErrorIOError
}

// Close closes the handle, exactly once. A writable handle flushes
// first. A cached read handle only has its refcount decremented; the
// mmap region and file stay open for the next cache hit until
// ClearCache drops it.
func (h *Handle) Close() error {
	if h.cached {
		releaseCache(h.key)

		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	h.closed = true

	var err error
	if h.mode.Writable() && h.path != "" {
		err = h.flushLocked()
	}

	if h.region != nil {
		if uerr := h.region.Unmap(); uerr != nil && err == nil {
			err = uerr
		}
	}

	if h.f != nil {
		if cerr := h.f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	return err
}
