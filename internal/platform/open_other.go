//go:build !unix

package platform

import (
	"io/fs"
	"os"
)

// OpenFileNoFollow opens name under root for reading. Symlinks are detected
// with Lstat before opening since the platform has no O_NOFOLLOW.
func OpenFileNoFollow(root *os.Root, name string) (*os.File, error) {
	info, err := root.Lstat(name)
	if err != nil {
		return nil, err
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return nil, ErrSymlink
	}
	return root.Open(name)
}
