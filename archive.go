package xdb

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"strings"

	"github.com/meigma/xdb/internal/chunk"
	"github.com/meigma/xdb/internal/compression"
	"github.com/meigma/xdb/internal/mmap"
	"github.com/meigma/xdb/internal/table"
)

// Archive provides read access to an archive held in memory.
//
// The entry table is decoded once by New; payloads are expanded on demand.
// An Archive is safe for concurrent reads.
type Archive struct {
	data        []byte
	version     Version
	entries     []Entry
	index       map[string]int
	userData    []byte
	hasUserData bool
	pool        *compression.Pool
	cfg         archiveConfig
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	if a.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.cfg.logger
}

// New parses the archive in data. version must have exactly one bit set;
// see ResolveUnpackVersion. data must not be modified while the Archive is
// in use.
func New(data []byte, version Version, opts ...Option) (*Archive, error) {
	return newArchive(data, version, newArchiveConfig(opts))
}

func newArchive(data []byte, version Version, cfg archiveConfig) (*Archive, error) {
	if !version.Single() {
		return nil, fmt.Errorf("%w: %s", ErrUnspecifiedVersion, version)
	}
	a := &Archive{
		data:    data,
		version: version,
		cfg:     cfg,
		pool:    compression.NewPool(cfg.maxFileSize),
	}

	r := chunk.NewReader(data)
	openOpts := []chunk.OpenOption{
		chunk.WithExpander(compression.Table{MaxSize: cfg.maxTableSize}),
	}
	cipher, err := version.cipher()
	if err != nil {
		return nil, err
	}
	if cipher != nil {
		openOpts = append(openOpts, chunk.WithCipher(cipher))
	}

	cur, err := r.Open(chunk.IDHeader, openOpts...)
	if err != nil {
		if errors.Is(err, chunk.ErrNotFound) {
			return nil, ErrMissingHeader
		}
		return nil, fmt.Errorf("open header: %w", err)
	}
	a.entries, err = table.Decode(version.Layout(), cur.Bytes())
	if err != nil {
		return nil, err
	}

	a.index = make(map[string]int, len(a.entries))
	for i := range a.entries {
		key := NormalizePath(a.entries[i].Path)
		if _, dup := a.index[key]; dup {
			a.log().Warn("duplicate entry", "path", a.entries[i].Path)
			continue
		}
		a.index[key] = i
	}

	if info, err := r.Find(chunk.IDUserData); err == nil {
		a.userData = info.Data
		a.hasUserData = true
	}

	a.log().Debug("archive opened",
		"version", version.String(),
		"layout", version.Layout().String(),
		"entries", len(a.entries),
		"size", len(data))
	return a, nil
}

// Version returns the format the archive was opened with.
func (a *Archive) Version() Version {
	return a.version
}

// Layout returns the entry table layout.
func (a *Archive) Layout() Layout {
	return a.version.Layout()
}

// Len returns the number of entries, folders included.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Size returns the archive size in bytes.
func (a *Archive) Size() int {
	return len(a.data)
}

// Entries returns an iterator over every entry in table order.
func (a *Archive) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range a.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// EntriesWithPrefix returns an iterator over entries whose path starts
// with prefix.
func (a *Archive) EntriesWithPrefix(prefix string) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range a.entries {
			if strings.HasPrefix(e.Path, prefix) && !yield(e) {
				return
			}
		}
	}
}

// Entry returns the entry for path. Backslashes and surrounding slashes
// in path are ignored.
func (a *Archive) Entry(path string) (Entry, bool) {
	i, ok := a.index[NormalizePath(path)]
	if !ok {
		return Entry{}, false
	}
	return a.entries[i], true
}

// UserData returns the USERDATA chunk payload. ok is false when the archive
// has none. The slice aliases the archive buffer.
func (a *Archive) UserData() (data []byte, ok bool) {
	return a.userData, a.hasUserData
}

// ReadFile returns the expanded contents of the named file, verified
// against its CRC when the layout records one.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	key := NormalizePath(name)
	if !fs.ValidPath(key) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	i, ok := a.index[key]
	if !ok {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}
	e := &a.entries[i]
	if e.Folder {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}

	buf, err := a.expand(e, a.cfg.verifyCRC)
	if err != nil {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: err}
	}
	defer buf.Release()
	return bytes.Clone(buf.Bytes()), nil
}

// expand returns the payload of a file entry; the caller must Release it.
func (a *Archive) expand(e *Entry, verify bool) (*compression.Buffer, error) {
	buf, err := a.pool.Expand(a.version.Layout(), e, a.data)
	if err != nil {
		return nil, err
	}
	if verify {
		if err := compression.VerifyCRC(e, buf.Bytes()); err != nil {
			buf.Release()
			return nil, err
		}
	}
	return buf, nil
}

// ArchiveFile wraps an Archive with its memory-mapped file.
// Close must be called to release the mapping.
//
//nolint:revive // ArchiveFile is intentionally named for clarity when imported
type ArchiveFile struct {
	*Archive
	file *mmap.File
}

// OpenArchive maps the archive at path and parses it. A zero version
// resolves the format from the file extension.
func OpenArchive(path string, version Version, opts ...Option) (*ArchiveFile, error) {
	v, err := ResolveUnpackVersion(version, path)
	if err != nil {
		return nil, err
	}
	cfg := newArchiveConfig(opts)

	f, err := mmap.Open(path, mmap.WithLogger(cfg.logger))
	if err != nil {
		return nil, err
	}
	a, err := newArchive(f.Data(), v, cfg)
	if err != nil {
		_ = f.Close() //nolint:errcheck // the parse error is more useful
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &ArchiveFile{Archive: a, file: f}, nil
}

// Path returns the path the archive was opened from.
func (af *ArchiveFile) Path() string {
	return af.file.Path()
}

// Close releases the mapping. The Archive must not be used afterwards.
func (af *ArchiveFile) Close() error {
	if af.file == nil {
		return nil
	}
	err := af.file.Close()
	af.file = nil
	return err
}
