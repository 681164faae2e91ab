package xdb

import "log/slog"

// DefaultMaxFileSize is the per-entry size limit used when no WithMaxFileSize
// option is set.
const DefaultMaxFileSize = 2 << 30

// Option configures an Archive.
type Option func(*archiveConfig)

type archiveConfig struct {
	logger       *slog.Logger
	maxFileSize  uint64
	maxTableSize int
	verifyCRC    bool
}

func newArchiveConfig(opts []Option) archiveConfig {
	cfg := archiveConfig{
		maxFileSize: DefaultMaxFileSize,
		verifyCRC:   true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets the logger for archive operations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *archiveConfig) {
		c.logger = logger
	}
}

// WithMaxFileSize limits the stored and expanded size of each entry.
// Set limit to 0 to disable the limit.
func WithMaxFileSize(limit uint64) Option {
	return func(c *archiveConfig) {
		c.maxFileSize = limit
	}
}

// WithMaxTableSize limits the decoded size of the entry table.
// Zero or less selects the default of 256 MiB.
func WithMaxTableSize(limit int) Option {
	return func(c *archiveConfig) {
		c.maxTableSize = limit
	}
}

// WithVerifyCRC controls whether ReadFile checks payloads against their
// recorded CRC-32 (default: true). Layouts without checksums are never
// verified.
func WithVerifyCRC(enabled bool) Option {
	return func(c *archiveConfig) {
		c.verifyCRC = enabled
	}
}
