//go:build linux

package mmap

import (
	"errors"
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// System calls, replaced in tests.
var (
	sysOpen    = unix.Open
	sysFstat   = unix.Fstat
	sysMmap    = unix.Mmap
	sysMadvise = unix.Madvise
	sysMunmap  = unix.Munmap
	sysFadvise = unix.Fadvise
	sysClose   = unix.Close
)

// Open maps path into memory.
//
// Acquisition is open, fstat, then mmap; a failure at any step releases what
// was already acquired. Empty files are opened without a mapping.
func Open(path string, opts ...Option) (*File, error) {
	f := &File{path: path}
	for _, opt := range opts {
		opt(f)
	}

	fd, err := sysOpen(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}

	var st unix.Stat_t
	if err := sysFstat(fd, &st); err != nil {
		_ = sysClose(fd) //nolint:errcheck // best-effort cleanup
		return nil, &os.PathError{Op: "fstat", Path: path, Err: err}
	}
	if st.Mode&unix.S_IFMT != unix.S_IFREG {
		_ = sysClose(fd) //nolint:errcheck // best-effort cleanup
		return nil, &os.PathError{Op: "mmap", Path: path, Err: errors.New("not a regular file")}
	}
	if st.Size > math.MaxInt {
		_ = sysClose(fd) //nolint:errcheck // best-effort cleanup
		return nil, &os.PathError{Op: "mmap", Path: path, Err: fmt.Errorf("size %d too large", st.Size)}
	}

	if st.Size > 0 {
		data, err := sysMmap(fd, 0, int(st.Size), unix.PROT_READ, unix.MAP_SHARED)
		if err != nil {
			_ = sysClose(fd) //nolint:errcheck // best-effort cleanup
			return nil, &os.PathError{Op: "mmap", Path: path, Err: err}
		}
		f.data = data
	}
	f.closer = func() error { return f.release(fd) }
	return f, nil
}

// release runs every step regardless of earlier failures: madvise, munmap,
// fadvise, close. Advice failures are only logged.
func (f *File) release(fd int) error {
	var errs []error
	if len(f.data) > 0 {
		if err := sysMadvise(f.data, unix.MADV_DONTNEED); err != nil {
			f.log().Warn("madvise failed", "path", f.path, "error", err)
		}
		if err := sysMunmap(f.data); err != nil {
			errs = append(errs, &os.PathError{Op: "munmap", Path: f.path, Err: err})
		}
	}
	if err := sysFadvise(fd, 0, 0, unix.FADV_DONTNEED); err != nil {
		f.log().Warn("fadvise failed", "path", f.path, "error", err)
	}
	if err := sysClose(fd); err != nil {
		errs = append(errs, &os.PathError{Op: "close", Path: f.path, Err: err})
	}
	return errors.Join(errs...)
}
