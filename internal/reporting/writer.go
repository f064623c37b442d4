package reporting

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"utility-billing/internal/observability/metrics"
)

// Format selects a report encoding.
type Format string

const (
	FormatText Format = "txt"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// DefaultPath is where the text report lands when no path is configured.
const DefaultPath = "monthly_report.txt"

var ErrUnknownFormat = errors.New("reporting: unknown format")

// ParseFormat parses a format name.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatText, "text":
		return FormatText, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, value)
	}
}

// ParseFormats parses a list of format names, dropping duplicates.
func ParseFormats(values []string) ([]Format, error) {
	out := make([]Format, 0, len(values))
	seen := make(map[Format]bool, len(values))
	for _, v := range values {
		f, err := ParseFormat(v)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render encodes r in the given format.
func Render(r MonthlyReport, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return BuildText(r), nil
	case FormatXLSX:
		return BuildXLSX(r)
	case FormatPDF:
		return BuildPDF(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// PathFor returns path with its extension replaced by the format's, unless it already matches.
func PathFor(path string, format Format) string {
	if path == "" {
		path = DefaultPath
	}
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, "."+string(format)) {
		return path
	}
	return strings.TrimSuffix(path, ext) + "." + string(format)
}

// WriteError reports a report destination that could not be written.
type WriteError struct {
	Path   string
	Format Format
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("reporting: write %s report to %s: %v", e.Format, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer persists rendered reports to the filesystem. Each write is attempted once.
type Writer struct {
	logger *zap.Logger
}

// NewWriter constructs a Writer.
func NewWriter(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{logger: logger}
}

// Write renders r in format and writes it to path.
func (w *Writer) Write(ctx context.Context, r MonthlyReport, path string, format Format) (err error) {
	start := time.Now()
	defer func() {
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
		}
		metrics.ObserveReportExport(string(format), result, time.Since(start))
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Render(r, format)
	if err != nil {
		return fmt.Errorf("reporting: render %s: %w", format, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		w.logger.Warn("report write failed",
			zap.String("path", path),
			zap.String("format", string(format)),
			zap.Error(err),
		)
		return &WriteError{Path: path, Format: format, Err: err}
	}
	w.logger.Info("report written",
		zap.String("report_id", r.ID),
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// WriteAll writes r once per format, deriving each destination from path.
// It returns the paths that were written.
func (w *Writer) WriteAll(ctx context.Context, r MonthlyReport, path string, formats []Format) ([]string, error) {
	if len(formats) == 0 {
		formats = []Format{FormatText}
	}
	paths := make([]string, len(formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, format := range formats {
		i, format := i, format
		target := PathFor(path, format)
		g.Go(func() error {
			if err := w.Write(gctx, r, target, format); err != nil {
				return err
			}
			paths[i] = target
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return compact(paths), err
	}
	return paths, nil
}

func compact(paths []string) []string {
	out := paths[:0]
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
