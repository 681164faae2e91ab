package xdb

import "log/slog"

// UnpackOption configures Unpack and Archive.Extract.
type UnpackOption func(*unpackConfig)

type unpackConfig struct {
	version      Version
	outputDir    string
	mask         string
	verifyCRC    bool
	userDataPath string
	sink         Sink
	directWrites bool
	maxFileSize  uint64
	maxTableSize int
	logger       *slog.Logger
	progress     ProgressFunc
}

func newUnpackConfig(opts []UnpackOption) unpackConfig {
	cfg := unpackConfig{
		verifyCRC:   true,
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// UnpackWithVersion selects the archive format. Without it the format is
// inferred from the archive's extension.
func UnpackWithVersion(v Version) UnpackOption {
	return func(c *unpackConfig) {
		c.version = v
	}
}

// UnpackWithOutputDir sets the extraction directory (default: the
// directory containing the archive). It is created if missing.
func UnpackWithOutputDir(dir string) UnpackOption {
	return func(c *unpackConfig) {
		c.outputDir = dir
	}
}

// UnpackWithMask extracts only files whose path contains mask.
// Folder entries are always created.
func UnpackWithMask(mask string) UnpackOption {
	return func(c *unpackConfig) {
		c.mask = mask
	}
}

// UnpackWithVerify controls CRC-32 verification of extracted files
// (default: true). Layouts without checksums are never verified.
func UnpackWithVerify(enabled bool) UnpackOption {
	return func(c *unpackConfig) {
		c.verifyCRC = enabled
	}
}

// UnpackWithUserDataFile writes the archive's USERDATA chunk to path.
// A missing chunk is logged, not treated as an error.
func UnpackWithUserDataFile(path string) UnpackOption {
	return func(c *unpackConfig) {
		c.userDataPath = path
	}
}

// UnpackWithSink writes entries to sink instead of a FileSink rooted at the
// output directory. The output directory is still created.
func UnpackWithSink(sink Sink) UnpackOption {
	return func(c *unpackConfig) {
		c.sink = sink
	}
}

// UnpackWithDirectWrites makes the default FileSink write straight to the
// final path instead of a temp file.
func UnpackWithDirectWrites(enabled bool) UnpackOption {
	return func(c *unpackConfig) {
		c.directWrites = enabled
	}
}

// UnpackWithMaxFileSize limits the stored and expanded size of each entry.
// Set limit to 0 to disable the limit.
func UnpackWithMaxFileSize(limit uint64) UnpackOption {
	return func(c *unpackConfig) {
		c.maxFileSize = limit
	}
}

// UnpackWithMaxTableSize limits the decoded size of the entry table.
func UnpackWithMaxTableSize(limit int) UnpackOption {
	return func(c *unpackConfig) {
		c.maxTableSize = limit
	}
}

// UnpackWithLogger sets a logger for unpack operations.
// If not set, logging is disabled.
func UnpackWithLogger(logger *slog.Logger) UnpackOption {
	return func(c *unpackConfig) {
		c.logger = logger
	}
}

// UnpackWithProgress sets a callback to receive progress updates.
func UnpackWithProgress(fn ProgressFunc) UnpackOption {
	return func(c *unpackConfig) {
		c.progress = fn
	}
}
