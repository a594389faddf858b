package filesystem

import (
	"io/fs"
)

// ReadFS reads whole files by name.
type ReadFS interface {
	ReadFile(name string) ([]byte, error)
}

// WriteFS creates or truncates whole files by name.
type WriteFS interface {
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// FileSystem combines read and write operations.
type FileSystem interface {
	ReadFS
	WriteFS
}
