package slog

import (
	"log/slog"
	"time"

	"github.com/jbekker/capescout"
)

// Ensure LoggingScanner implements capescout.ListingScanner.
var _ capescout.ListingScanner = (*LoggingScanner)(nil)

// LoggingScanner wraps a ListingScanner with per-page logging.
type LoggingScanner struct {
	next   capescout.ListingScanner
	logger *slog.Logger
}

// NewLoggingScanner creates a new LoggingScanner.
func NewLoggingScanner(next capescout.ListingScanner, logger *slog.Logger) *LoggingScanner {
	return &LoggingScanner{next: next, logger: logger}
}

// ScanPage delegates to the wrapped scanner and logs the scan outcome.
func (s *LoggingScanner) ScanPage(html string) (records []*capescout.Property, err error) {
	defer func(begin time.Time) {
		s.logger.Info("scan",
			"bytes", len(html),
			"records", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ScanPage(html)
}
