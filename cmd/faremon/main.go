package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farematrix/faremon/internal/common"
	"github.com/farematrix/faremon/internal/dataset"
	"github.com/farematrix/faremon/internal/export"
	"github.com/farematrix/faremon/internal/pdftext"
	"github.com/farematrix/faremon/internal/pipeline"
	"github.com/farematrix/faremon/internal/rules"
	"github.com/farematrix/faremon/internal/state"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		once     = flag.Bool("once", false, "run a single cycle and exit")
		dir      = flag.String("dir", "", "inbox directory with source PDFs (overrides FAREMON_INBOX_DIR)")
		out      = flag.String("out", "", "output directory (overrides FAREMON_OUT_DIR defaults)")
		stateDB  = flag.String("state", "", "signature store database path (overrides FAREMON_STATE_DB)")
		interval = flag.Duration("interval", 0, "cycle interval in loop mode (overrides FAREMON_CYCLE_INTERVAL)")
	)
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *dir != "" {
		cfg.Inbox.Dir = *dir
	}
	if *out != "" {
		cfg.Output.Dir = *out
		cfg.Output.MasterFile = *out + "/OFERTAS.csv"
		cfg.Output.ErrorsFile = *out + "/OFERTASMATRIZ_ERROS.csv"
		cfg.Output.IncrementFile = *out + "/OFERTASMATRIZ_OFERTAS.csv"
		cfg.Output.WorkbookFile = *out + "/OFERTASMATRIZ.xlsx"
		cfg.Output.StateDB = *out + "/state.db"
	}
	if *stateDB != "" {
		cfg.Output.StateDB = *stateDB
	}
	if *interval > 0 {
		cfg.Cycle.Interval = *interval
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	states, err := state.NewStore(cfg.Output.StateDB, logger)
	if err != nil {
		logger.Error("failed to open signature store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := states.Close(); err != nil {
			logger.Error("failed to close signature store", "error", err)
		}
	}()

	extractor := pdftext.NewPopplerExtractor(pdftext.Config{
		Pdftotext: cfg.Extract.Pdftotext,
		Timeout:   cfg.Extract.Timeout,
	}, logger)

	cycle := pipeline.NewCycle(
		cfg,
		extractor,
		rules.NewEngine(logger),
		dataset.NewStore(logger),
		states,
		export.NewService(logger),
		logger,
	)

	if *once {
		stats, err := cycle.Run(ctx)
		if err != nil {
			logger.Error("cycle failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Cycle complete. New offers: %d | New errors: %d\n", stats.Offers, stats.Errors)
		return
	}

	logger.Info("starting watch loop", "interval", cfg.Cycle.Interval.String(), "inbox", cfg.Inbox.Dir)
	for {
		start := time.Now()
		stats, err := cycle.Run(ctx)
		if err != nil {
			// Cycle failures are logged, never fatal: the next cycle
			// retries from the persisted state.
			logger.Error("cycle failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		} else {
			logger.Info("cycle complete",
				"scanned", stats.Scanned,
				"selected", stats.Selected,
				"offers", stats.Offers,
				"errors", stats.Errors,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
		}

		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case <-time.After(cfg.Cycle.Interval):
		}
	}
}
