package file

import (
	"os"
	"sync"
	"time"
)

// cacheKey identifies a file on disk by the tuple used to detect
// external modification: path, size and mtime. Go has no portable way
// to read the inode without syscall.Stat_t, so size+mtime alone stands
// in for it here.
type cacheKey struct {
	path    string
	size    int64
	modTime time.Time
}

func cacheKeyFor(path string, fi os.FileInfo) cacheKey {
	return cacheKey{path: path, size: fi.Size(), modTime: fi.ModTime()}
}

type cacheEntry struct {
	handle   *Handle
	refcount int32
}

var cache = struct {
	mu      sync.Mutex
	entries map[cacheKey]*cacheEntry
}{entries: make(map[cacheKey]*cacheEntry)}

// lookupCache returns the cached handle for key with its refcount
// bumped, or nil on a miss.
func lookupCache(key cacheKey) *Handle {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	e, ok := cache.entries[key]
	if !ok {
		return nil
	}

	e.refcount++

	return e.handle
}

func storeCache(key cacheKey, h *Handle) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	cache.entries[key] = &cacheEntry{handle: h, refcount: 1}
}

func releaseCache(key cacheKey) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if e, ok := cache.entries[key]; ok {
		e.refcount--
	}
}

// ClearCache drops every cached read handle with no remaining
// references. Entries still held by a live Handle are left in place;
// call Close enough times to bring their refcount to zero first.
func ClearCache() {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	for k, e := range cache.entries {
		if e.refcount <= 0 {
			delete(cache.entries, k)
		}
	}
}
