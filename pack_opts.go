package xdb

import "log/slog"

// PackOption configures Pack.
type PackOption func(*packConfig)

type packConfig struct {
	version      Version
	userDataPath string
	logger       *slog.Logger
	progress     ProgressFunc
}

// PackWithVersion selects the output format: Version2947RU, Version2947WW
// or VersionXDB. An .xdbN target extension selects VersionXDB on its own.
func PackWithVersion(v Version) PackOption {
	return func(c *packConfig) {
		c.version = v
	}
}

// PackWithUserDataFile stores the contents of path verbatim as the USERDATA
// chunk. Only XDB archives carry user data; an unreadable file is logged and
// skipped.
func PackWithUserDataFile(path string) PackOption {
	return func(c *packConfig) {
		c.userDataPath = path
	}
}

// PackWithLogger sets a logger for pack operations.
// If not set, logging is disabled.
func PackWithLogger(logger *slog.Logger) PackOption {
	return func(c *packConfig) {
		c.logger = logger
	}
}

// PackWithProgress sets a callback to receive progress updates.
func PackWithProgress(fn ProgressFunc) PackOption {
	return func(c *packConfig) {
		c.progress = fn
	}
}
