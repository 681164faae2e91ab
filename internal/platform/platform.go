// Package platform holds the OS-specific parts of walking a source tree.
package platform

import "errors"

// ErrSymlink is returned when attempting to open a symbolic link.
var ErrSymlink = errors.New("platform: symbolic links not supported")
