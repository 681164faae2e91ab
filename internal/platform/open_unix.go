//go:build unix

package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// OpenFileNoFollow opens name under root for reading without following a
// final symlink. Returns ErrSymlink if name is a symbolic link.
func OpenFileNoFollow(root *os.Root, name string) (*os.File, error) {
	f, err := root.OpenFile(name, os.O_RDONLY|unix.O_NOFOLLOW, 0)
	if err != nil {
		if errors.Is(err, unix.ELOOP) {
			return nil, ErrSymlink
		}
		return nil, err
	}
	return f, nil
}
