// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, int64(defaultMaxInputSize), cfg.MaxInputSize())
	assert.Equal(t, int64(defaultMaxDecompressedSize), cfg.MaxDecompressedSize())
	assert.Equal(t, int64(defaultMaxEntries), cfg.MaxEntries())
	assert.NotNil(t, cfg.Logger())
	assert.NotNil(t, cfg.TelemetryHook())
}

func TestConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithMaxInputSize(10),
		WithMaxDecompressedSize(20),
		WithMaxEntries(3),
	)
	assert.Equal(t, int64(10), cfg.MaxInputSize())
	assert.Equal(t, int64(20), cfg.MaxDecompressedSize())
	assert.Equal(t, int64(3), cfg.MaxEntries())
}

func TestConfig_CheckDecompressedSize(t *testing.T) {
	cfg := NewConfig(WithMaxDecompressedSize(10))
	assert.NoError(t, cfg.CheckDecompressedSize(10))
	assert.ErrorIs(t, cfg.CheckDecompressedSize(11), ErrMaxDecompressedSizeExceeded)

	unlimited := NewConfig(WithMaxDecompressedSize(-1))
	assert.NoError(t, unlimited.CheckDecompressedSize(1<<40))
}

func TestConfig_CheckEntryCount(t *testing.T) {
	cfg := NewConfig(WithMaxEntries(2))
	assert.NoError(t, cfg.CheckEntryCount(2))
	assert.ErrorIs(t, cfg.CheckEntryCount(3), ErrMaxEntriesExceeded)
}

func TestConfig_TelemetryHookInvoked(t *testing.T) {
	var captured *TelemetryData
	cfg := NewConfig(WithTelemetryHook(func(ctx context.Context, td *TelemetryData) {
		captured = td
	}))
	cfg.TelemetryHook()(context.Background(), &TelemetryData{DecodedType: "gz"})
	assert.NotNil(t, captured)
	assert.Equal(t, "gz", captured.DecodedType)
}
