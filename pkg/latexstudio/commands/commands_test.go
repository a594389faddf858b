package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/latexstudio/pkg/latexstudio/commands"
	"github.com/arthur-debert/latexstudio/pkg/latexstudio/dispatch"
	"github.com/arthur-debert/latexstudio/pkg/latexstudio/filesystem"
)

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	h := commands.New(filesystem.NewOSFileSystem())

	t.Run("returns content exactly", func(t *testing.T) {
		content := "  # Title\r\n\n$$\\frac{1}{2}$$\t\n\n"
		path := filepath.Join(dir, "doc.md")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		got, err := h.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.md")
		require.NoError(t, os.WriteFile(path, nil, 0644))

		got, err := h.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := h.ReadFile(filepath.Join(dir, "missing.md"))
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "Failed to read file: "), err.Error())
		assert.True(t, errors.Is(err, fs.ErrNotExist))

		var readErr *commands.ReadError
		require.True(t, errors.As(err, &readErr))
		assert.Equal(t, filepath.Join(dir, "missing.md"), readErr.Path)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := h.ReadFile(dir)
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), commands.ReadErrorPrefix))
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		path := filepath.Join(dir, "binary.bin")
		require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x80}, 0644))

		_, err := h.ReadFile(path)
		require.Error(t, err)
		assert.Equal(t, "Failed to read file: stream did not contain valid UTF-8", err.Error())
		assert.True(t, errors.Is(err, commands.ErrInvalidUTF8))
	})
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	h := commands.New(filesystem.NewOSFileSystem())

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(dir, "out.md")
		for _, content := range []string{"", "hello", "multi\nline\r\n", "ünïcödé ∑ $x^2$"} {
			require.NoError(t, h.WriteFile(path, content))

			got, err := h.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, content, got)
		}
	})

	t.Run("truncates previous content", func(t *testing.T) {
		path := filepath.Join(dir, "trunc.md")
		require.NoError(t, h.WriteFile(path, "a long first draft"))
		require.NoError(t, h.WriteFile(path, "short"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "short", string(data))
	})

	t.Run("missing parent directory", func(t *testing.T) {
		path := filepath.Join(dir, "no", "such", "dir", "out.md")
		err := h.WriteFile(path, "content")
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "Failed to write file: "), err.Error())
		assert.True(t, errors.Is(err, fs.ErrNotExist))

		var writeErr *commands.WriteError
		require.True(t, errors.As(err, &writeErr))
		assert.Equal(t, path, writeErr.Path)

		_, statErr := os.Stat(filepath.Join(dir, "no"))
		assert.True(t, errors.Is(statErr, fs.ErrNotExist), "no directories are created")
	})
}

func TestWriteFile_Mode(t *testing.T) {
	mfs := filesystem.NewMemFileSystem()
	h := commands.New(mfs)

	require.NoError(t, h.WriteFile("new.md", "x"))
	mode, ok := mfs.Mode("new.md")
	require.True(t, ok)
	assert.Equal(t, fs.FileMode(commands.FileMode), mode)
}

func TestDialogStubs(t *testing.T) {
	for name, stub := range map[string]func() (*string, error){
		"open": commands.OpenFileDialog,
		"save": commands.SaveFileDialog,
	} {
		t.Run(name, func(t *testing.T) {
			path, err := stub()
			assert.Nil(t, path)
			require.Error(t, err)
			assert.Equal(t, "Use dialog plugin from frontend", err.Error())
			assert.True(t, errors.Is(err, commands.ErrUnsupportedOperation))
		})
	}
}

func TestRegister(t *testing.T) {
	mfs := filesystem.NewMemFileSystem()
	require.NoError(t, mfs.MkdirAll("docs"))

	reg := dispatch.NewRegistry(zerolog.Nop())
	commands.Register(reg, mfs)
	ctx := context.Background()

	assert.Equal(t, []string{
		"open_file_dialog",
		"read_file",
		"save_file_dialog",
		"write_file",
	}, reg.Names())

	t.Run("write then read", func(t *testing.T) {
		result, err := reg.Invoke(ctx, "write_file", json.RawMessage(`{"path":"docs/a.md","content":"# A\n"}`))
		require.NoError(t, err)
		assert.Equal(t, "null", string(result))

		result, err = reg.Invoke(ctx, "read_file", json.RawMessage(`{"path":"docs/a.md"}`))
		require.NoError(t, err)
		var content string
		require.NoError(t, json.Unmarshal(result, &content))
		assert.Equal(t, "# A\n", content)
	})

	t.Run("errors keep their message", func(t *testing.T) {
		_, err := reg.Invoke(ctx, "read_file", json.RawMessage(`{"path":"docs/missing.md"}`))
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "Failed to read file: "))

		_, err = reg.Invoke(ctx, "write_file", json.RawMessage(`{"path":"nodir/a.md","content":""}`))
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "Failed to write file: "))
	})

	t.Run("write_file requires content", func(t *testing.T) {
		_, err := reg.Invoke(ctx, "write_file", json.RawMessage(`{"path":"docs/a.md"}`))
		require.Error(t, err)
		assert.Equal(t, "command write_file missing required key content", err.Error())
	})

	t.Run("dialog stubs", func(t *testing.T) {
		for _, name := range []string{"open_file_dialog", "save_file_dialog"} {
			for _, raw := range []string{``, `null`, `{}`, `[]`, `"x"`, `42`, `{"a":1}`} {
				result, err := reg.Invoke(ctx, name, json.RawMessage(raw))
				require.Error(t, err, "%s with args %q", name, raw)
				assert.Nil(t, result)
				assert.Equal(t, "Use dialog plugin from frontend", err.Error(), "%s with args %q", name, raw)
				assert.True(t, errors.Is(err, commands.ErrUnsupportedOperation))
			}
		}
	})
}
