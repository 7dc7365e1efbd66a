package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/IvanShishkin/unixfiles/pkg/models"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		// Milliseconds
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		// Seconds
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		// Minutes and seconds
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	// Hours, minutes and seconds
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

// SummaryFields renders a scan summary as structured log fields
func SummaryFields(s *models.ScanSummary) []zap.Field {
	fields := []zap.Field{
		zap.String("host", s.Host),
		zap.String("fetched", s.Fetched),
		zap.Int("roots", s.Roots),
		zap.Int("dirs_listed", s.DirsListed),
		zap.Int("dirs_abandoned", s.DirsAbandoned),
		zap.Int("records", s.Records),
		zap.String("total_size", humanize.IBytes(uint64(s.TotalSize))),
		zap.Int("skipped", s.TotalSkipped()),
		zap.String("duration", FormatDuration(s.Duration)),
	}

	reasons := make([]string, 0, len(s.Skipped))
	for reason := range s.Skipped {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fields = append(fields, zap.Int("skipped_"+reason, s.Skipped[models.SkipReason(reason)]))
	}

	return fields
}

// LogSummary writes one line describing a finished run
func LogSummary(logger *zap.Logger, s *models.ScanSummary) {
	logger.Info("Enumeration complete", SummaryFields(s)...)
	if skipped := s.TotalSkipped(); skipped > 0 {
		logger.Debug("Entries left out of the output",
			zap.String("skipped", humanize.Comma(int64(skipped))))
	}
}
