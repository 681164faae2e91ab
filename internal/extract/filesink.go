package extract

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

const (
	defaultFileMode = 0o644
	defaultDirMode  = 0o755
	tempPrefix      = ".xdb-"
)

// FileSink writes entries beneath a directory opened with os.Root, so no
// entry can escape it.
//
// By default, files are written to a temporary file in the same directory
// and renamed to the final path. This ensures that partially written files
// are never visible at the final path.
type FileSink struct {
	dir         string
	root        *os.Root
	fileMode    fs.FileMode
	dirMode     fs.FileMode
	directWrite bool
}

// FileSinkOption configures a FileSink.
type FileSinkOption func(*FileSink)

// WithDirectWrites disables temp files and writes directly to the final path.
func WithDirectWrites(enabled bool) FileSinkOption {
	return func(s *FileSink) {
		s.directWrite = enabled
	}
}

// WithFileMode sets the permission bits of written files.
func WithFileMode(mode fs.FileMode) FileSinkOption {
	return func(s *FileSink) {
		s.fileMode = mode.Perm()
	}
}

// WithDirMode sets the permission bits of created directories.
func WithDirMode(mode fs.FileMode) FileSinkOption {
	return func(s *FileSink) {
		s.dirMode = mode.Perm()
	}
}

// NewFileSink opens dir as the sink root. dir must already exist.
func NewFileSink(dir string, opts ...FileSinkOption) (*FileSink, error) {
	s := &FileSink{
		dir:      dir,
		fileMode: defaultFileMode,
		dirMode:  defaultDirMode,
	}
	for _, opt := range opts {
		opt(s)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open destination root %s: %w", dir, err)
	}
	s.root = root
	return s, nil
}

// Dir returns the directory the sink writes into.
func (s *FileSink) Dir() string {
	return s.dir
}

// Close releases the sink root.
func (s *FileSink) Close() error {
	return s.root.Close()
}

func rel(op, p string) (string, error) {
	if !fs.ValidPath(p) {
		return "", &fs.PathError{Op: op, Path: p, Err: fs.ErrInvalid}
	}
	return filepath.FromSlash(p), nil
}

// WriteFile implements Sink.
func (s *FileSink) WriteFile(p string, data []byte) error {
	destRel, err := rel("write", p)
	if err != nil {
		return err
	}
	if s.directWrite {
		return s.writeDirect(destRel, data)
	}

	tempFile, tempRel, err := createTempFile(s.root, filepath.Dir(destRel), tempPrefix, s.fileMode)
	if err != nil {
		return &fs.PathError{Op: "write", Path: p, Err: err}
	}
	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()       //nolint:errcheck // best-effort cleanup
		_ = s.root.Remove(tempRel) //nolint:errcheck // best-effort cleanup
		return &fs.PathError{Op: "write", Path: p, Err: err}
	}
	if err := tempFile.Close(); err != nil {
		_ = s.root.Remove(tempRel) //nolint:errcheck // best-effort cleanup
		return &fs.PathError{Op: "close", Path: p, Err: err}
	}
	if err := s.root.Rename(tempRel, destRel); err != nil {
		_ = s.root.Remove(tempRel) //nolint:errcheck // best-effort cleanup
		return &fs.PathError{Op: "rename", Path: p, Err: err}
	}
	return nil
}

func (s *FileSink) writeDirect(destRel string, data []byte) error {
	f, err := s.root.OpenFile(destRel, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, s.fileMode)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()              //nolint:errcheck // best-effort cleanup
		_ = s.root.Remove(destRel) //nolint:errcheck // best-effort cleanup
		return err
	}
	return f.Close()
}

// FolderExists implements Sink.
func (s *FileSink) FolderExists(p string) bool {
	if p == "" || p == "." {
		return true
	}
	r, err := rel("stat", p)
	if err != nil {
		return false
	}
	info, err := s.root.Stat(r)
	return err == nil && info.IsDir()
}

// CreatePath implements Sink.
func (s *FileSink) CreatePath(p string) error {
	p = path.Clean(p)
	if p == "." || p == "" {
		return nil
	}
	r, err := rel("mkdir", p)
	if err != nil {
		return err
	}
	return s.root.MkdirAll(r, s.dirMode)
}

func createTempFile(root *os.Root, dir, prefix string, mode fs.FileMode) (*os.File, string, error) {
	const attempts = 10
	for range attempts {
		name, err := randomSuffix()
		if err != nil {
			return nil, "", err
		}
		relPath := filepath.Join(dir, prefix+name)
		f, err := root.OpenFile(relPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
		if err == nil {
			return f, relPath, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", errors.New("create temp file: exhausted retries")
}

func randomSuffix() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
