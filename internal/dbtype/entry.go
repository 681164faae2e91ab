package dbtype

// Entry is one record of an archive's entry table: either a file or a folder.
type Entry struct {
	// Path is the entry path relative to the archive root, with every
	// backslash converted to a forward slash (e.g. "textures/act/act_a.dds").
	Path string

	// Offset is the absolute byte position of the payload inside the archive.
	// Zero marks a folder in the 2215, 2945 and 2947 layouts.
	Offset uint32

	// SizeReal is the decompressed payload size. The 1114 layout only records
	// it for uncompressed entries; compressed legacy entries leave it zero.
	SizeReal uint32

	// SizeCompressed is the stored payload size. Equal to SizeReal when the
	// payload is stored as-is.
	SizeCompressed uint32

	// CRC is the CRC-32 of the real payload. Only meaningful when HasCRC is set.
	CRC uint32

	// HasCRC reports whether the layout carries a checksum (2945 and 2947).
	HasCRC bool

	// Uncompressed is the 1114 per-entry flag selecting a straight copy over
	// the legacy decompressor. Unused by newer layouts.
	Uncompressed bool

	// Folder reports whether the entry is a directory with no payload.
	Folder bool
}
