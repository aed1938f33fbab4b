package domain

import "time"

// ChangeType represents the type of file change.
type ChangeType int

const (
	// ChangeCreated indicates a new file.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified file.
	ChangeUpdated

	// ChangeDeleted indicates a removed or renamed file or directory.
	ChangeDeleted
)

// String returns a short name for the change.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// FileChange is a change event from the file watcher.
type FileChange struct {
	Type ChangeType
	Path string
}

// IndexEvent reports a change applied to the index.
type IndexEvent struct {
	// Path is the file or directory that changed.
	Path string

	// Type is the change as applied: a file that vanished between the
	// event and the read is reported as deleted.
	Type ChangeType

	// Err is set when the change could not be applied.
	Err error
}

// BuildReport summarises a full index build.
type BuildReport struct {
	// Indexed is the number of documents in the new index.
	Indexed int

	// Skipped lists files that could not be read or parsed.
	Skipped []*FileReadError

	// Duration is the wall time of the build.
	Duration time.Duration
}

// IndexStats describes the current index.
type IndexStats struct {
	Documents int
	Terms     int
	BuiltAt   time.Time
}
