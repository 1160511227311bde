package file

// Mode selects how a Handle may be used.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
	ModeReadWrite
)

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	case ModeReadWrite:
		return "read-write"
	default:
		return "unknown"
	}
}

// Writable reports whether m permits Write/Delete/Sync.
func (m Mode) Writable() bool {
	return m == ModeWrite || m == ModeReadWrite
}
