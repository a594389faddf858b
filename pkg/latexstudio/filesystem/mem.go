package filesystem

import (
	"io/fs"
	"path"
	"sync"
)

type memFile struct {
	data []byte
	mode fs.FileMode
}

// MemFileSystem is an in-memory FileSystem for tests.
// Writes fail with fs.ErrNotExist unless the parent directory was created
// with MkdirAll, so it fails the same way the OS does for a missing parent.
type MemFileSystem struct {
	mu    sync.RWMutex
	files map[string]*memFile
	dirs  map[string]bool
}

// NewMemFileSystem creates an empty in-memory filesystem containing only ".".
func NewMemFileSystem() *MemFileSystem {
	return &MemFileSystem{
		files: make(map[string]*memFile),
		dirs:  map[string]bool{".": true, "/": true},
	}
}

// ReadFile implements ReadFS
func (m *MemFileSystem) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = path.Clean(name)
	if m.dirs[name] {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	f, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	data := make([]byte, len(f.data))
	copy(data, f.data)
	return data, nil
}

// WriteFile implements WriteFS
func (m *MemFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = path.Clean(name)
	if m.dirs[name] {
		return &fs.PathError{Op: "open", Path: name, Err: fs.ErrExist}
	}
	if !m.dirs[path.Dir(name)] {
		return &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.files[name] = &memFile{data: buf, mode: perm}
	return nil
}

// MkdirAll records dir and all of its parents as existing directories.
func (m *MemFileSystem) MkdirAll(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var chain []string
	for d := path.Clean(dir); ; d = path.Dir(d) {
		if _, isFile := m.files[d]; isFile {
			return &fs.PathError{Op: "mkdir", Path: d, Err: fs.ErrExist}
		}
		chain = append(chain, d)
		if d == "." || d == "/" {
			break
		}
	}
	for _, d := range chain {
		m.dirs[d] = true
	}
	return nil
}

// Mode returns the permission bits a file was written with.
func (m *MemFileSystem) Mode(name string) (fs.FileMode, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path.Clean(name)]
	if !ok {
		return 0, false
	}
	return f.mode, true
}
