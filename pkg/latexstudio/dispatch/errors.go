package dispatch

import (
	"errors"
	"fmt"
)

// ErrCommandNotFound is matched by errors.Is for every NotFoundError.
var ErrCommandNotFound = errors.New("command not found")

// NotFoundError is returned when no handler is registered under a name.
type NotFoundError struct {
	Command string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command %s not found", e.Command)
}

func (e *NotFoundError) Unwrap() error {
	return ErrCommandNotFound
}

// MissingKeyError is returned when a required argument key is absent or null.
type MissingKeyError struct {
	Command string
	Key     string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("command %s missing required key %s", e.Command, e.Key)
}

// ArgsError wraps a failure to decode the argument object of a command.
type ArgsError struct {
	Command string
	Cause   error
}

func (e *ArgsError) Error() string {
	return fmt.Sprintf("invalid args for command %s: %v", e.Command, e.Cause)
}

func (e *ArgsError) Unwrap() error {
	return e.Cause
}
