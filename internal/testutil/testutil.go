// Package testutil provides fixtures shared by the archive tests.
package testutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// MemFile is an in-memory io.WriteSeeker.
type MemFile struct {
	data []byte
	pos  int64
}

// Write writes p at the current position, growing the buffer as needed.
func (m *MemFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.data)) {
		m.data = append(m.data, make([]byte, end-int64(len(m.data)))...)
	}
	copy(m.data[m.pos:], p)
	m.pos = end
	return len(p), nil
}

// Seek implements io.Seeker.
func (m *MemFile) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = m.pos + offset
	case io.SeekEnd:
		abs = int64(len(m.data)) + offset
	default:
		return 0, errors.New("testutil: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("testutil: negative position")
	}
	m.pos = abs
	return abs, nil
}

// Bytes returns everything written so far.
func (m *MemFile) Bytes() []byte {
	return m.data
}

// LZOLiteral returns an LZO1X stream that stores data as a single literal
// run. len(data) must be between 4 and 238.
func LZOLiteral(tb testing.TB, data []byte) []byte {
	tb.Helper()
	if len(data) < 4 || len(data) > 238 {
		tb.Fatalf("LZOLiteral: %d bytes out of range", len(data))
	}
	out := make([]byte, 0, len(data)+4)
	out = append(out, byte(17+len(data)))
	out = append(out, data...)
	return append(out, 0x11, 0x00, 0x00)
}

// WriteTree creates the files in tree under dir. Keys ending in "/" create
// empty directories.
func WriteTree(tb testing.TB, dir string, tree map[string]string) {
	tb.Helper()
	for name, content := range tree {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			if err := os.MkdirAll(path, 0o755); err != nil {
				tb.Fatalf("mkdir %s: %v", name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			tb.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			tb.Fatalf("write %s: %v", name, err)
		}
	}
}

// ReadTree returns every regular file under dir keyed by slash path, and
// every directory keyed by slash path with a trailing "/".
func ReadTree(tb testing.TB, dir string) map[string]string {
	tb.Helper()
	tree := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == "." {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			tree[rel+"/"] = ""
			return nil
		}
		data, err := os.ReadFile(path) //nolint:gosec // test fixture paths
		if err != nil {
			return err
		}
		tree[rel] = string(data)
		return nil
	})
	if err != nil {
		tb.Fatalf("read tree %s: %v", dir, err)
	}
	return tree
}
