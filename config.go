// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"context"
	"io"
	"log/slog"
)

// ConfigOption is a function pointer to implement the option pattern.
type ConfigOption func(*Config)

// Config provides a configuration struct and options to adjust the
// configuration, in the option pattern style.
//
// The default configuration is designed to be safe against decompression
// and TAR-entry-count bombs by default.
type Config struct {
	// logger stream for decode operations
	logger logger

	// telemetryHook is a function to consume telemetry data after a
	// decode operation has finished.
	telemetryHook TelemetryHook

	// maxInputSize is the maximum size of the compressed input accepted
	// before decoding starts. Set to -1 to disable the check.
	maxInputSize int64

	// maxDecompressedSize is the maximum size of the decompressed output.
	// Set to -1 to disable the check.
	maxDecompressedSize int64

	// maxEntries is the maximum number of TAR entries that will be
	// returned from a single walk. Set to -1 to disable the check.
	maxEntries int64
}

const (
	defaultMaxInputSize        = 1 << (10 * 3) // 1 GB
	defaultMaxDecompressedSize = 1 << (10 * 3) // 1 GB
	defaultMaxEntries          = 100000        // 100k entries
)

var (
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	defaultTelemetryHook = func(ctx context.Context, d *TelemetryData) {
		// noop
	}
)

// NewConfig builds a [Config], applying opts in order over secure defaults.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := &Config{
		logger:              defaultLogger,
		telemetryHook:       defaultTelemetryHook,
		maxInputSize:        defaultMaxInputSize,
		maxDecompressedSize: defaultMaxDecompressedSize,
		maxEntries:          defaultMaxEntries,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Logger returns the configured logger.
func (c *Config) Logger() logger {
	return c.logger
}

// TelemetryHook returns the configured telemetry hook, or a no-op if none
// was set.
func (c *Config) TelemetryHook() TelemetryHook {
	if c.telemetryHook == nil {
		return func(ctx context.Context, d *TelemetryData) {}
	}
	return c.telemetryHook
}

// MaxInputSize returns the maximum accepted compressed input size.
func (c *Config) MaxInputSize() int64 {
	return c.maxInputSize
}

// MaxDecompressedSize returns the maximum accepted decompressed size.
func (c *Config) MaxDecompressedSize() int64 {
	return c.maxDecompressedSize
}

// MaxEntries returns the maximum accepted TAR entry count.
func (c *Config) MaxEntries() int64 {
	return c.maxEntries
}

// CheckDecompressedSize returns [ErrMaxDecompressedSizeExceeded] if size
// exceeds the configured maximum.
func (c *Config) CheckDecompressedSize(size int64) error {
	if c.maxDecompressedSize == -1 {
		return nil
	}
	if size > c.maxDecompressedSize {
		return ErrMaxDecompressedSizeExceeded
	}
	return nil
}

// CheckEntryCount returns [ErrMaxEntriesExceeded] if count exceeds the
// configured maximum.
func (c *Config) CheckEntryCount(count int64) error {
	if c.maxEntries == -1 {
		return nil
	}
	if count > c.maxEntries {
		return ErrMaxEntriesExceeded
	}
	return nil
}

// WithLogger sets a custom logger.
func WithLogger(l logger) ConfigOption {
	return func(c *Config) {
		c.logger = l
	}
}

// WithTelemetryHook sets a hook called with [TelemetryData] after a decode
// operation finishes.
func WithTelemetryHook(hook TelemetryHook) ConfigOption {
	return func(c *Config) {
		c.telemetryHook = hook
	}
}

// WithMaxInputSize sets the maximum accepted compressed input size. (-1 to
// disable the check)
func WithMaxInputSize(n int64) ConfigOption {
	return func(c *Config) {
		c.maxInputSize = n
	}
}

// WithMaxDecompressedSize sets the maximum accepted decompressed output
// size. (-1 to disable the check)
func WithMaxDecompressedSize(n int64) ConfigOption {
	return func(c *Config) {
		c.maxDecompressedSize = n
	}
}

// WithMaxEntries sets the maximum accepted TAR entry count. (-1 to disable
// the check)
func WithMaxEntries(n int64) ConfigOption {
	return func(c *Config) {
		c.maxEntries = n
	}
}
