// Package mmap maps archive files read-only into memory.
package mmap

import "log/slog"

// File is a read-only view of a whole file.
type File struct {
	path   string
	data   []byte
	logger *slog.Logger
	closer func() error
}

// Option configures Open.
type Option func(*File)

// WithLogger sets the logger for advisory release failures.
func WithLogger(logger *slog.Logger) Option {
	return func(f *File) {
		f.logger = logger
	}
}

// Path returns the path the file was opened with.
func (f *File) Path() string {
	return f.path
}

// Data returns the file contents. The slice must not be modified and is
// invalid after Close.
func (f *File) Data() []byte {
	return f.data
}

// Len returns the file size.
func (f *File) Len() int {
	return len(f.data)
}

// Close releases the mapping and the file. Safe to call more than once.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer()
	f.closer = nil
	f.data = nil
	return err
}

func (f *File) log() *slog.Logger {
	if f.logger != nil {
		return f.logger
	}
	return slog.New(slog.DiscardHandler)
}
