package dbtype

// Layout identifies the record format of an archive's entry table.
type Layout uint8

const (
	// Layout1114 is the oldest format: name, uncompressed flag, offset, size.
	Layout1114 Layout = iota + 1

	// Layout2215 adds separate real and compressed sizes and folder records.
	Layout2215

	// Layout2945 adds a CRC field to 2215.
	Layout2945

	// Layout2947 uses length-prefixed names. Shared by the RU, WW and XDB variants.
	Layout2947
)

// String returns the build number the layout is named after.
func (l Layout) String() string {
	switch l {
	case Layout1114:
		return "1114"
	case Layout2215:
		return "2215"
	case Layout2945:
		return "2945"
	case Layout2947:
		return "2947"
	default:
		return "unknown"
	}
}

// HasFolders reports whether a zero offset marks a folder record.
func (l Layout) HasFolders() bool {
	return l == Layout2215 || l == Layout2945 || l == Layout2947
}
