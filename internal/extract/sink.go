// Package extract materializes archive entries on a file system.
package extract

// Sink receives expanded entries during an unpack.
//
// Paths are slash-separated and relative to the sink's root. WriteFile does
// not create missing parent directories; callers check FolderExists and call
// CreatePath when a write fails.
type Sink interface {
	// WriteFile stores data at path, replacing any existing file.
	WriteFile(path string, data []byte) error

	// FolderExists reports whether path names an existing directory.
	FolderExists(path string) bool

	// CreatePath creates the directory path and any missing parents.
	CreatePath(path string) error
}
