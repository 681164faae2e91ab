//go:build !linux

package mmap

import "os"

// Open reads path into memory.
func Open(path string, opts ...Option) (*File, error) {
	f := &File{path: path}
	for _, opt := range opts {
		opt(f)
	}
	data, err := os.ReadFile(path) //nolint:gosec // caller-supplied archive path
	if err != nil {
		return nil, err
	}
	f.data = data
	f.closer = func() error { return nil }
	return f, nil
}
