package xdb

import "github.com/meigma/xdb/internal/dbtype"

// Re-export progress types.
type (
	// ProgressEvent represents a progress update during unpack or pack.
	ProgressEvent = dbtype.ProgressEvent

	// ProgressStage identifies the current phase of an operation.
	ProgressStage = dbtype.ProgressStage

	// ProgressFunc receives progress updates during operations.
	// Calls are made synchronously from the operation's goroutine.
	ProgressFunc = dbtype.ProgressFunc
)

// Re-export progress stage constants.
const (
	// StageReadingHeader indicates the entry table is being opened and decoded.
	StageReadingHeader = dbtype.StageReadingHeader

	// StageExtracting indicates entries are being written to disk.
	StageExtracting = dbtype.StageExtracting

	// StageEnumerating indicates the source directory is being walked.
	StageEnumerating = dbtype.StageEnumerating

	// StageWritingData indicates file payloads are being copied into the archive.
	StageWritingData = dbtype.StageWritingData

	// StageWritingHeader indicates the entry table is being written.
	StageWritingHeader = dbtype.StageWritingHeader
)
