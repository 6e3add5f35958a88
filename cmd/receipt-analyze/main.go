package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/gastosbot/receipts-engine/constants"
	"github.com/gastosbot/receipts-engine/internal/analyzer"
	"github.com/gastosbot/receipts-engine/internal/common"
)

func main() {
	fs := ff.NewFlagSet("receipt-analyze")
	var (
		image   = fs.StringLong("image", "", "Path to the receipt image (jpg/png)")
		mode    = fs.StringLong("mode", "", "Extraction strategy: 'classical' or 'vision' (default: ANALYZER_MODE)")
		raw     = fs.BoolLong("raw", "Include raw OCR/model text in the output")
		timeout = fs.DurationLong("timeout", 3*time.Minute, "Whole-analysis deadline")
		verbose = fs.BoolLong("verbose", "Debug logging")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPTS"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *image == "" {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: --image is required")
		os.Exit(2)
	}
	if !constants.IsImageExt(filepath.Ext(*image)) {
		fmt.Fprintf(os.Stderr, "error: unsupported image format %q\n", filepath.Ext(*image))
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if *mode != "" {
		cfg.Analyzer.Mode = *mode
	}
	if *raw {
		cfg.Analyzer.RetainRawText = true
	}

	a, closeAnalyzer, err := analyzer.FromConfig(cfg, logger)
	if err != nil {
		logger.Error("build analyzer", "error", err)
		os.Exit(1)
	}
	defer closeAnalyzer()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	result, err := a.Analyze(ctx, *image)
	if err != nil {
		logger.Error("analysis failed",
			"image", *image, "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
