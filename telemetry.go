// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"context"
	"encoding/json"
	"time"
)

// TelemetryData holds the telemetry collected during a single decode
// operation (a DEFLATE decompression, or a TAR walk, or both combined for a
// tar.<codec> archive).
type TelemetryData struct {
	// DecodedType is the format of the input, e.g. "tar", "tar.gz", "gz".
	DecodedType string `json:"decoded_type"`

	// InputSize is the size of the compressed input.
	InputSize int64 `json:"input_size"`

	// DecompressedSize is the size of the decompressed output.
	DecompressedSize int64 `json:"decompressed_size"`

	// EntriesWalked is the number of TAR entries yielded, if applicable.
	EntriesWalked int64 `json:"entries_walked"`

	// DecodeDuration is the wall time spent decoding.
	DecodeDuration time.Duration `json:"decode_duration"`

	// DecodeErrors is the number of errors encountered.
	DecodeErrors int64 `json:"decode_errors"`

	// LastDecodeError is the last error encountered, if any.
	LastDecodeError error `json:"last_decode_error"`
}

// String returns a JSON representation of the telemetry data.
func (d TelemetryData) String() string {
	b, _ := json.Marshal(d)
	return string(b)
}

// MarshalJSON implements [encoding/json.Marshaler].
func (d TelemetryData) MarshalJSON() ([]byte, error) {
	var lastError string
	if d.LastDecodeError != nil {
		lastError = d.LastDecodeError.Error()
	}

	type alias TelemetryData
	return json.Marshal(&struct {
		LastDecodeError string `json:"last_decode_error"`
		*alias
	}{
		LastDecodeError: lastError,
		alias:           (*alias)(&d),
	})
}

// TelemetryHook is called with [TelemetryData] after a decode operation
// finishes, e.g. to submit it to a telemetry service.
type TelemetryHook func(context.Context, *TelemetryData)

// now is the current time, indirected so tests can observe duration capture
// without depending on wall-clock speed.
var now = time.Now

// captureDecodeDuration sets td.DecodeDuration to the elapsed time since
// start. Intended to be used with defer: defer captureDecodeDuration(td, now()).
func captureDecodeDuration(td *TelemetryData, start time.Time) {
	td.DecodeDuration = now().Sub(start)
}
