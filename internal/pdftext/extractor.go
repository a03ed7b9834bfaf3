// Package pdftext turns source PDF documents into page-ordered raw text
// by shelling out to poppler's pdftotext.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Result is the page-ordered raw text of one document.
type Result struct {
	Pages    []string
	Duration time.Duration
}

// Text returns the full document text with pages joined by newlines.
func (r Result) Text() string {
	return strings.Join(r.Pages, "\n")
}

// TextExtractor turns a document into page-ordered text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (Result, error)
}

// Runner lets us stub the pdftotext invocation in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// Config holds the poppler invocation settings.
type Config struct {
	Pdftotext string        // binary name or absolute path; if empty -> "pdftotext"
	Timeout   time.Duration // per-document; 0 = no limit
}

// PopplerExtractor extracts the embedded text layer via pdftotext.
type PopplerExtractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewPopplerExtractor(cfg Config, logger *slog.Logger) *PopplerExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &PopplerExtractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// Extract runs pdftotext and splits its output into pages on the
// form-feed separator poppler emits between pages.
func (e *PopplerExtractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return Result{}, fmt.Errorf("pdftotext %s: %w (stderr: %s)", path, err, truncate(string(errb), 512))
	}

	pages := strings.Split(string(out), "\f")
	// poppler terminates the last page with a trailing \f
	if n := len(pages); n > 0 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}

	res := Result{Pages: pages, Duration: time.Since(start)}
	e.logger.Debug("pdftext.extract.ok", "path", path, "pages", len(pages), "duration_ms", res.Duration.Milliseconds())
	return res, nil
}

// execRunner shells out to the real binary. A failed invocation is logged
// here with its stderr; Extract folds the same stderr into the returned
// error.
type execRunner struct {
	logger *slog.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	if err != nil {
		r.logger.Warn("pdftext.exec.failed",
			"cmd", name,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
			"stderr", truncate(errb.String(), 512),
		)
	} else {
		r.logger.Debug("pdftext.exec.ok",
			"cmd", name,
			"duration_ms", time.Since(start).Milliseconds(),
			"stdout_bytes", out.Len(),
		)
	}

	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
