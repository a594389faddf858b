package filesystem

import (
	"io/fs"
	"os"
)

// OSFileSystem implements FileSystem on top of the host OS.
// Names are passed to the OS untouched: no root, no cleaning, no validation.
type OSFileSystem struct{}

// NewOSFileSystem creates a new OS-backed filesystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// ReadFile implements ReadFS
func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFile implements WriteFS
func (OSFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}
