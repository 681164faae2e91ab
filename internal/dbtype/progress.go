package dbtype

// ProgressEvent represents a progress update during unpack or pack operations.
type ProgressEvent struct {
	// Stage identifies the current phase of the operation.
	Stage ProgressStage

	// Path is the entry currently being processed, if applicable.
	Path string

	// BytesDone is the number of payload bytes completed so far.
	BytesDone uint64

	// BytesTotal is the total payload bytes for the operation.
	// Zero indicates the total is unknown.
	BytesTotal uint64

	// EntriesDone is the number of entries completed.
	EntriesDone int

	// EntriesTotal is the total number of entries.
	// Zero indicates the total is unknown (e.g., while walking a directory).
	EntriesTotal int
}

// ProgressStage identifies the current phase of an operation.
type ProgressStage uint8

// Progress stages for unpack and pack operations.
const (
	// StageReadingHeader indicates the entry table is being opened and decoded.
	StageReadingHeader ProgressStage = iota

	// StageExtracting indicates entries are being written to disk.
	StageExtracting

	// StageEnumerating indicates the source directory is being walked.
	StageEnumerating

	// StageWritingData indicates file payloads are being copied into the archive.
	StageWritingData

	// StageWritingHeader indicates the entry table is being encoded and written.
	StageWritingHeader
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageReadingHeader:
		return "reading header"
	case StageExtracting:
		return "extracting"
	case StageEnumerating:
		return "enumerating"
	case StageWritingData:
		return "writing data"
	case StageWritingHeader:
		return "writing header"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates during operations.
// Calls are made synchronously from the operation's goroutine.
type ProgressFunc func(ProgressEvent)
