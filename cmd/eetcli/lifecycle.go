package main

import "sync"

var (
	initMu    sync.Mutex
	initCount int
)

// Init bumps the process-wide init refcount and returns the new count,
// mirroring Eet.h's eet_init. Callers that embed eetcli's command set
// in a larger process should pair every Init with a Shutdown rather
// than relying on process exit.
func Init() int {
	initMu.Lock()
	defer initMu.Unlock()

	initCount++

	return initCount
}

// Shutdown drops the init refcount and returns the new count,
// mirroring eet_shutdown. It never goes below zero.
func Shutdown() int {
	initMu.Lock()
	defer initMu.Unlock()

	if initCount > 0 {
		initCount--
	}

	return initCount
}
