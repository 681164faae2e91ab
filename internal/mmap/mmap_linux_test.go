//go:build linux

package mmap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

var errInjected = errors.New("injected")

// stubSyscalls restores the real system calls when the test ends. Tests
// using it must not run in parallel.
func stubSyscalls(t *testing.T) {
	t.Helper()
	open, fstat, mmap := sysOpen, sysFstat, sysMmap
	madvise, munmap, fadvise, closeFD := sysMadvise, sysMunmap, sysFadvise, sysClose
	t.Cleanup(func() {
		sysOpen, sysFstat, sysMmap = open, fstat, mmap
		sysMadvise, sysMunmap, sysFadvise, sysClose = madvise, munmap, fadvise, closeFD
	})
}

func writeFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.db")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestReleaseOrderSurvivesAdviceFailures(t *testing.T) {
	stubSyscalls(t)
	var calls []string
	sysMadvise = func(b []byte, advice int) error {
		calls = append(calls, "madvise")
		return errInjected
	}
	sysMunmap = func(b []byte) error {
		calls = append(calls, "munmap")
		return unix.Munmap(b)
	}
	sysFadvise = func(fd int, off, n int64, advice int) error {
		calls = append(calls, "fadvise")
		return errInjected
	}
	sysClose = func(fd int) error {
		calls = append(calls, "close")
		return unix.Close(fd)
	}

	f, err := Open(writeFile(t, "archive bytes"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, []string{"madvise", "munmap", "fadvise", "close"}, calls)
	assert.Nil(t, f.Data())
}

func TestReleaseJoinsUnmapAndCloseErrors(t *testing.T) {
	stubSyscalls(t)
	var closed bool
	sysMunmap = func(b []byte) error {
		require.NoError(t, unix.Munmap(b))
		return errInjected
	}
	sysClose = func(fd int) error {
		closed = true
		require.NoError(t, unix.Close(fd))
		return unix.EBADF
	}

	f, err := Open(writeFile(t, "archive bytes"))
	require.NoError(t, err)
	err = f.Close()
	require.ErrorIs(t, err, errInjected)
	require.ErrorIs(t, err, unix.EBADF)
	assert.True(t, closed)
}

func TestOpenFailureClosesDescriptor(t *testing.T) {
	for _, tc := range []struct {
		name  string
		stub  func()
		errOp string
	}{
		{
			name:  "fstat",
			stub:  func() { sysFstat = func(int, *unix.Stat_t) error { return errInjected } },
			errOp: "fstat",
		},
		{
			name: "mmap",
			stub: func() {
				sysMmap = func(int, int64, int, int, int) ([]byte, error) { return nil, errInjected }
			},
			errOp: "mmap",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			stubSyscalls(t)
			opened := -1
			var closed []int
			sysOpen = func(path string, mode int, perm uint32) (int, error) {
				fd, err := unix.Open(path, mode, perm)
				opened = fd
				return fd, err
			}
			sysClose = func(fd int) error {
				closed = append(closed, fd)
				return unix.Close(fd)
			}
			tc.stub()

			_, err := Open(writeFile(t, "archive bytes"))
			require.ErrorIs(t, err, errInjected)
			var pathErr *os.PathError
			require.ErrorAs(t, err, &pathErr)
			assert.Equal(t, tc.errOp, pathErr.Op)

			require.GreaterOrEqual(t, opened, 0)
			assert.Equal(t, []int{opened}, closed)
		})
	}
}

func TestOpenEmptyFileSkipsUnmap(t *testing.T) {
	stubSyscalls(t)
	var calls []string
	sysMmap = func(int, int64, int, int, int) ([]byte, error) {
		calls = append(calls, "mmap")
		return nil, errInjected
	}
	sysMunmap = func([]byte) error {
		calls = append(calls, "munmap")
		return nil
	}

	f, err := Open(writeFile(t, ""))
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Empty(t, calls)
}
