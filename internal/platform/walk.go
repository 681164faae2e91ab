package platform

import (
	"fmt"
	"io/fs"
	"os"
)

// IsRegular reports whether a walked entry is a regular file, filtering out
// symlinks, devices and sockets. Entries whose type the walk could not
// determine are resolved with Lstat.
func IsRegular(root *os.Root, fsPath string, d fs.DirEntry) (bool, error) {
	dtype := d.Type()
	if dtype&fs.ModeSymlink != 0 {
		return false, nil
	}
	if dtype == 0 {
		info, err := root.Lstat(fsPath)
		if err != nil {
			return false, err
		}
		return info.Mode().IsRegular(), nil
	}
	return dtype.IsRegular(), nil
}

// CheckUnchanged verifies that f still has the size it had when copying
// started and that copied bytes were read.
func CheckUnchanged(f *os.File, path string, size, copied int64) error {
	if copied != size {
		return fmt.Errorf("file changed during archive creation: %s: copied %d of %d bytes", path, copied, size)
	}
	after, err := f.Stat()
	if err != nil {
		return err
	}
	if after.Size() != size {
		return fmt.Errorf("file changed during archive creation: %s", path)
	}
	return nil
}
