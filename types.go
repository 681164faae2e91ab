package xdb

import (
	"github.com/meigma/xdb/internal/dbtype"
	"github.com/meigma/xdb/internal/extract"
)

// Entry describes one file or folder record of an archive.
type Entry = dbtype.Entry

// Layout identifies the record format of an entry table.
type Layout = dbtype.Layout

// Entry table layouts.
const (
	Layout1114 = dbtype.Layout1114
	Layout2215 = dbtype.Layout2215
	Layout2945 = dbtype.Layout2945
	Layout2947 = dbtype.Layout2947
)

// Sink receives entries during an unpack. See [NewFileSink].
type Sink = extract.Sink

// FileSink writes entries beneath a directory.
type FileSink = extract.FileSink

// FileSinkOption configures a FileSink.
type FileSinkOption = extract.FileSinkOption

// UnpackStats counts the outcome of an unpack.
type UnpackStats = extract.Stats

// NewFileSink opens dir as a sink root. dir must exist.
func NewFileSink(dir string, opts ...FileSinkOption) (*FileSink, error) {
	return extract.NewFileSink(dir, opts...)
}

// Re-exported FileSink options.
var (
	// WithDirectWrites writes straight to the final path instead of a temp file.
	WithDirectWrites = extract.WithDirectWrites

	// WithFileMode sets the permission bits of written files.
	WithFileMode = extract.WithFileMode

	// WithDirMode sets the permission bits of created directories.
	WithDirMode = extract.WithDirMode
)
