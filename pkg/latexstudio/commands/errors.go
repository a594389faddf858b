package commands

import (
	"errors"
	"fmt"
)

const (
	// ReadErrorPrefix starts the message of every ReadError.
	ReadErrorPrefix = "Failed to read file: "
	// WriteErrorPrefix starts the message of every WriteError.
	WriteErrorPrefix = "Failed to write file: "
	// DialogPluginMessage is the fixed message of the dialog stubs.
	DialogPluginMessage = "Use dialog plugin from frontend"
)

var (
	// ErrInvalidUTF8 is the cause of a ReadError for files that are not text.
	ErrInvalidUTF8 = errors.New("stream did not contain valid UTF-8")
	// ErrUnsupportedOperation is matched by errors.Is for every
	// UnsupportedOperationError.
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// ReadError reports a failed read_file.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s%v", ReadErrorPrefix, e.Cause)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

// WriteError reports a failed write_file. The target may have been
// truncated or partially written.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s%v", WriteErrorPrefix, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// UnsupportedOperationError is returned by commands whose work happens in
// the front end.
type UnsupportedOperationError struct {
	Command string
}

func (e *UnsupportedOperationError) Error() string {
	return DialogPluginMessage
}

func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupportedOperation
}
