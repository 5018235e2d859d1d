package petrack2jpsvis

import (
	"errors"
	"io/fs"
)

const maxLineBytes = 1 << 20

var errIsDirectory = errors.New("is a directory")

// IOError reports a failed file operation. errors.Is(err, fs.ErrNotExist)
// works through Unwrap.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

func newIOError(op, path string, err error) *IOError {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		err = pe.Err
	}
	return &IOError{Op: op, Path: path, Err: err}
}
