package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotDirectory indicates the scan root is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrFileTooLarge indicates a file above the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrAlreadyExists indicates a file that would be overwritten.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotRegular indicates a directory, FIFO, device or socket where
	// a regular file was expected.
	ErrNotRegular = errors.New("not a regular file")
)

// ScanError reports that the scan root cannot be read.
// It is fatal: startup is aborted.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("cannot scan %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// FileReadError reports a single file that could not be read or parsed.
// It is recovered: the file is skipped and the error logged.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// QueryError reports malformed query syntax. The UI shows it as
// "no results" together with Hint.
type QueryError struct {
	Query  string
	Pos    int
	Reason string
	Hint   string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query at column %d: %s", e.Pos+1, e.Reason)
}

// Is makes every QueryError match ErrInvalidInput.
func (e *QueryError) Is(target error) bool {
	return target == ErrInvalidInput
}

// IsScanError reports whether err is or wraps a ScanError.
func IsScanError(err error) bool {
	var se *ScanError
	return errors.As(err, &se)
}

// AsQueryError returns the QueryError wrapped in err, if any.
func AsQueryError(err error) (*QueryError, bool) {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
