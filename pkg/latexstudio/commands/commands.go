// Package commands implements the file commands the editor front end
// invokes by name: read_file, write_file, and the two dialog stubs.
//
// Each command is stateless and performs at most one call into the
// filesystem. There is no buffering, locking, retry or atomic-write logic;
// a failed write may leave the target truncated.
package commands

import (
	"context"
	"unicode/utf8"

	"github.com/arthur-debert/latexstudio/pkg/latexstudio/dispatch"
	"github.com/arthur-debert/latexstudio/pkg/latexstudio/filesystem"
)

// Command names as seen by the front end.
const (
	CmdReadFile       = "read_file"
	CmdWriteFile      = "write_file"
	CmdOpenFileDialog = "open_file_dialog"
	CmdSaveFileDialog = "save_file_dialog"
)

// FileMode is used when write_file creates a file.
const FileMode = 0644

// ReadFileArgs are the arguments of read_file.
type ReadFileArgs struct {
	Path string `json:"path"`
}

// WriteFileArgs are the arguments of write_file.
type WriteFileArgs struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Handlers holds the filesystem the file commands delegate to.
type Handlers struct {
	fs filesystem.FileSystem
}

// New creates the command handlers over fsys.
func New(fsys filesystem.FileSystem) *Handlers {
	return &Handlers{fs: fsys}
}

// ReadFile returns the whole content of path as text.
func (h *Handlers) ReadFile(path string) (string, error) {
	data, err := h.fs.ReadFile(path)
	if err != nil {
		return "", &ReadError{Path: path, Cause: err}
	}
	if !utf8.Valid(data) {
		return "", &ReadError{Path: path, Cause: ErrInvalidUTF8}
	}
	return string(data), nil
}

// WriteFile creates or truncates path and writes content to it.
func (h *Handlers) WriteFile(path, content string) error {
	if err := h.fs.WriteFile(path, []byte(content), FileMode); err != nil {
		return &WriteError{Path: path, Cause: err}
	}
	return nil
}

// OpenFileDialog always fails; the front end opens dialogs itself.
// It stays registered so older front ends get a clear message instead of
// an unknown-command error.
func OpenFileDialog() (*string, error) {
	return nil, &UnsupportedOperationError{Command: CmdOpenFileDialog}
}

// SaveFileDialog always fails; see OpenFileDialog.
func SaveFileDialog() (*string, error) {
	return nil, &UnsupportedOperationError{Command: CmdSaveFileDialog}
}

// Register installs the four commands into reg.
func Register(reg *dispatch.Registry, fsys filesystem.FileSystem) {
	h := New(fsys)

	dispatch.Handle(reg, CmdReadFile, func(_ context.Context, args ReadFileArgs) (string, error) {
		return h.ReadFile(args.Path)
	})
	dispatch.HandleVoid(reg, CmdWriteFile, func(_ context.Context, args WriteFileArgs) error {
		return h.WriteFile(args.Path, args.Content)
	})
	dispatch.Handle(reg, CmdOpenFileDialog, func(context.Context, struct{}) (*string, error) {
		return OpenFileDialog()
	})
	dispatch.Handle(reg, CmdSaveFileDialog, func(context.Context, struct{}) (*string, error) {
		return SaveFileDialog()
	})
}
