package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"pdfingest/internal/config"
	"pdfingest/internal/export"
	"pdfingest/internal/ingest"
	"pdfingest/internal/logger"
	"pdfingest/internal/report"
)

func main() {
	dataDir := pflag.String("data", "data", "Base directory searched recursively for PDFs")
	chunkSize := pflag.Int("chunk-size", 800, "Maximum chunk length in characters")
	chunkOverlap := pflag.Int("chunk-overlap", 200, "Characters shared by adjacent chunks")
	method := pflag.String("method", "recursive", "Chunking method: recursive or character")
	workers := pflag.Int("workers", 1, "Documents processed in parallel")
	outputFile := pflag.String("output", "", "Write chunks to this JSON Lines file (optional)")
	reportFile := pflag.String("report", "", "Write a Markdown or HTML ingestion report (optional)")
	keepSeparator := pflag.Bool("keep-separator", false, "Keep separators at the start of the following chunk")
	logLevel := pflag.String("log-level", "info", "Log level: debug, info, warn, error")
	pflag.Parse()

	// Flags given explicitly win over the environment and .env.
	for _, f := range []struct{ flag, env, value string }{
		{"data", "BASE_PATH", *dataDir},
		{"chunk-size", "CHUNK_SIZE", strconv.Itoa(*chunkSize)},
		{"chunk-overlap", "CHUNK_OVERLAP", strconv.Itoa(*chunkOverlap)},
		{"method", "CHUNK_METHOD", *method},
		{"workers", "WORKERS", strconv.Itoa(*workers)},
		{"output", "OUTPUT_FILE", *outputFile},
		{"report", "REPORT_FILE", *reportFile},
		{"keep-separator", "KEEP_SEPARATOR", strconv.FormatBool(*keepSeparator)},
		{"log-level", "LOG_LEVEL", *logLevel},
	} {
		if pflag.CommandLine.Changed(f.flag) {
			os.Setenv(f.env, f.value)
		}
	}

	_ = godotenv.Load()

	cfg := config.Config{}
	bootLog := logger.NewLogger(nil)
	if err := config.Init(&cfg); err != nil {
		bootLog.Fatalf("failed to load config: %v", err)
	}

	log := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		Output:     os.Stderr,
		JSON:       cfg.LogJSON,
		TimeFormat: "15:04:05",
	})

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	ctx = logger.ContextWithLogger(ctx, log)

	fs := afero.NewOsFs()
	res, err := ingest.Run(ctx, fs, &cfg)
	if err != nil {
		stop()
		log.Fatalf("ingestion failed: %v", err)
	}

	if err := report.WriteSummary(os.Stdout, res, cfg.PreviewChars); err != nil {
		log.Errorf("failed to print summary: %v", err)
	}

	if cfg.OutputFile != "" {
		if err := export.SaveJSONL(fs, cfg.OutputFile, res.Chunks); err != nil {
			log.Errorf("⚠️  Failed to export chunks: %v", err)
		} else {
			log.Infof("💾 Chunks saved to: %s", cfg.OutputFile)
		}
	}

	if cfg.ReportFile != "" {
		if err := report.Save(fs, cfg.ReportFile, res, time.Now()); err != nil {
			log.Errorf("⚠️  Failed to save report: %v", err)
		} else {
			log.Infof("💾 Report saved to: %s", cfg.ReportFile)
		}
	}
}
