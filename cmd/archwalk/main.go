// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	extract "github.com/lindqvist-oss/archwalk"
)

// CLI are the cli parameters for the archwalk binary.
type CLI struct {
	Archive             string           `arg:"" name:"archive" help:"Path to archive. (\"-\" for STDIN)"`
	MaxInputSize        int64            `optional:"" default:"1073741824" help:"Maximum compressed input size accepted (in bytes). (disable check: -1)"`
	MaxDecompressedSize int64            `optional:"" default:"1073741824" help:"Maximum decompressed output size accepted (in bytes). (disable check: -1)"`
	MaxEntries          int64            `optional:"" default:"100000" help:"Maximum number of TAR entries returned from a walk. (disable check: -1)"`
	Verbose             bool             `short:"v" optional:"" help:"Verbose logging."`
	Version             kong.VersionFlag `short:"V" optional:"" help:"Print release version information."`
}

// main is the entrypoint into archwalk as a cli tool.
func main() {
	ctx := context.Background()
	var cli CLI
	kong.Parse(&cli,
		kong.Description("Decode a gzip/zlib/bzip2/lz4/xz/zstd/snappy/RAR/TAR archive in memory and print its contents"),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("%s (dev)", filepath.Base(os.Args[0])),
		},
	)

	logLevel := slog.LevelWarn
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	telemetryToLog := func(ctx context.Context, td *extract.TelemetryData) {
		logger.Debug("decode finished", "telemetry", td)
	}

	cfg := extract.NewConfig(
		extract.WithLogger(logger),
		extract.WithMaxInputSize(cli.MaxInputSize),
		extract.WithMaxDecompressedSize(cli.MaxDecompressedSize),
		extract.WithMaxEntries(cli.MaxEntries),
		extract.WithTelemetryHook(telemetryToLog),
	)

	var r io.Reader
	if cli.Archive == "-" {
		r = bufio.NewReader(os.Stdin)
	} else {
		f, err := os.Open(cli.Archive)
		if err != nil {
			logger.Error("opening archive failed", "err", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		logger.Error("reading archive failed", "err", err)
		os.Exit(1)
	}

	result, err := extract.Decode(ctx, data, cfg)
	if err != nil {
		logger.Error("decode failed", "err", err)
		os.Exit(1)
	}

	switch {
	case result.Entries != nil:
		fmt.Printf("%s: %d entries\n", result.DecodedType, len(result.Entries))
		for _, e := range result.Entries {
			fmt.Printf("%6d  %s\n", e.Info.Size, e.Info.Name)
		}
	case result.Rar != nil:
		fmt.Printf("%s: %d entries\n", result.DecodedType, len(result.Rar))
		for _, e := range result.Rar {
			fmt.Printf("%6d  %s\n", e.Size, e.Name)
		}
	default:
		fmt.Printf("%s: %d bytes\n", result.DecodedType, len(result.Raw))
	}
}
