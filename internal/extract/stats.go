package extract

// Stats counts the outcome of an unpack.
type Stats struct {
	// Files is the number of files written.
	Files int

	// Folders is the number of folder entries materialized.
	Folders int

	// Filtered is the number of files skipped by the mask.
	Filtered int

	// Failed is the number of entries that could not be expanded or written.
	Failed int

	// Bytes is the total size of the files written.
	Bytes uint64
}
