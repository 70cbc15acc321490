package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/challenge-league/internal/app"
	"github.com/riskibarqy/challenge-league/internal/config"
	"github.com/riskibarqy/challenge-league/internal/interfaces/importcsv"
	"github.com/riskibarqy/challenge-league/internal/platform/id"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"github.com/riskibarqy/challenge-league/internal/usecase"
)

type options struct {
	csvPath     string
	windowsPath string
	workers     int
	dryRun      bool
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.csvPath, "csv", "defis.csv", "challenge sheet to import")
	flag.StringVar(&opts.windowsPath, "windows", "configs/challenge_windows.yaml", "window label definitions")
	flag.IntVar(&opts.workers, "workers", 4, "concurrent upserts")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "validate rows without writing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel, logging.WithFields("component", "importer"))
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := run(ctx, cfg, opts, logger)
	if err != nil {
		logger.Error("challenge import failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}

	out, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
	if err == nil {
		fmt.Println(string(out))
	}
	_ = logger.Sync()
	if result.FailedCount > 0 {
		os.Exit(2)
	}
}

func run(ctx context.Context, cfg config.Config, opts options, logger *logging.Logger) (usecase.ImportResult, error) {
	windowFile, err := os.Open(opts.windowsPath)
	if err != nil {
		return usecase.ImportResult{}, crerr.Wrap(err, "open window file")
	}
	defer windowFile.Close()

	windows, err := importcsv.LoadWindows(windowFile)
	if err != nil {
		return usecase.ImportResult{}, err
	}

	sheet, err := os.Open(opts.csvPath)
	if err != nil {
		return usecase.ImportResult{}, crerr.Wrap(err, "open challenge sheet")
	}
	defer sheet.Close()

	items, err := importcsv.NewParser(id.NewUUIDGenerator(), windows).Parse(sheet)
	if err != nil {
		return usecase.ImportResult{}, err
	}
	logger.Info("challenge sheet parsed", "rows", len(items), "path", opts.csvPath)

	// The importer writes the catalog; it never seeds demo data.
	cfg.StoreSeed = false
	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		return usecase.ImportResult{}, err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Warn("close record store", "error", err)
		}
	}()

	return usecase.NewChallengeImportService(stores.Challenges, logger).Import(ctx, usecase.ImportInput{
		Items:      items,
		MaxWorkers: opts.workers,
		DryRun:     opts.dryRun,
	})
}
