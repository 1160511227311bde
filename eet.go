// Package eet provides a space-efficient, embeddable container file
// format: named entries with optional compression and passphrase-based
// encryption, a schema-driven structured-record codec, a lossless/lossy
// image sub-codec, and X.509-based signing, all addressable through a
// single mmap-backed file handle.
//
// # Basic usage
//
//	h, err := eet.Open("archive.eet", file.ModeWrite)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close()
//
//	h.Write("greeting.txt", []byte("hello"), false)
//	if err := h.Sync(); err != nil {
//	    log.Fatal(err)
//	}
//
// This package is a thin facade over file, container, identity and
// data; use those packages directly for anything beyond opening a
// handle and attaching an identity.
package eet

import (
	"github.com/goeet/eet/file"
	"github.com/goeet/eet/identity"
)

// Open opens path in the given mode, mmap-backed for reads. See
// file.Open for caching and atomic-write semantics.
func Open(path string, mode file.Mode) (*file.Handle, error) {
	return file.Open(path, mode)
}

// MemopenRead builds a read-only handle directly from an in-memory
// container image, with no backing file.
func MemopenRead(data []byte) (*file.Handle, error) {
	return file.MemopenRead(data)
}

// ClearCache drops every cached read handle with a zero refcount.
func ClearCache() {
	file.ClearCache()
}

// OpenIdentity loads a signing identity from a PEM certificate and PEM
// private key, for use with Handle.SetIdentity. pwdCB is invoked only
// if the private key is passphrase-protected.
func OpenIdentity(certPath, keyPath string, pwdCB func() string) (*identity.Identity, error) {
	return identity.Open(certPath, keyPath, pwdCB)
}
