package source

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultMaxReadBytes bounds ReadAll.
const DefaultMaxReadBytes = 64 * 1024 * 1024

// ErrOpen is matched by every *OpenError.
var ErrOpen = errors.New("unable to open file")

// ErrTooLarge is returned by ReadAll when a file exceeds the read limit.
var ErrTooLarge = errors.New("file exceeds read limit")

// OpenError reports a log file that could not be opened for reading.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("opening log file %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrOpen) identify open failures regardless of cause.
func (e *OpenError) Is(target error) bool { return target == ErrOpen }

// Open opens a regular file for reading.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, &OpenError{Path: path, Err: err}
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, &OpenError{Path: path, Err: errors.New("is a directory")}
	}

	return f, nil
}

// ReadAll reads a whole file into memory. Files larger than limit bytes are
// rejected with ErrTooLarge; a limit <= 0 means DefaultMaxReadBytes.
func ReadAll(path string, limit int64) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxReadBytes
	}

	f, err := Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("reading %s: %w (%d bytes)", path, ErrTooLarge, limit)
	}

	return string(data), nil
}
