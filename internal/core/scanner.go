package core

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/IvanShishkin/unixfiles/internal/config"
	"github.com/IvanShishkin/unixfiles/internal/emitter"
	"github.com/IvanShishkin/unixfiles/internal/filesystem"
	"github.com/IvanShishkin/unixfiles/internal/metadata"
	"github.com/IvanShishkin/unixfiles/internal/report"
	"github.com/IvanShishkin/unixfiles/pkg/models"
	"go.uber.org/zap"
)

// Scanner runs one enumeration: walk, normalize, emit
type Scanner struct {
	config   *config.Config
	logger   *zap.Logger
	fs       filesystem.Filesystem
	source   metadata.Source
	resolver metadata.IdentityResolver
	hostname func() (string, error)
	now      func() time.Time
}

// NewScanner creates a scanner over the native filesystem with the
// platform's metadata source and user database
func NewScanner(cfg *config.Config, logger *zap.Logger) *Scanner {
	return &Scanner{
		config:   cfg,
		logger:   logger,
		fs:       filesystem.NewNativeFS(),
		source:   metadata.NewSource(),
		resolver: metadata.NewSystemResolver(),
		hostname: os.Hostname,
		now:      time.Now,
	}
}

// SetFilesystem replaces the filesystem the scanner walks
func (s *Scanner) SetFilesystem(fsys filesystem.Filesystem) {
	s.fs = fsys
}

// SetMetadataSource replaces the platform metadata source
func (s *Scanner) SetMetadataSource(src metadata.Source) {
	s.source = src
}

// SetIdentityResolver replaces the user and group name lookup
func (s *Scanner) SetIdentityResolver(r metadata.IdentityResolver) {
	s.resolver = r
}

// Scan enumerates roots and streams one JSON array to w. Per-entry problems
// only shrink the output; an error means the output is incomplete or
// missing: the hostname was unavailable, the sink failed, or a path was not
// valid text in strict mode.
func (s *Scanner) Scan(roots []string, w io.Writer) (*models.ScanSummary, error) {
	summary := &models.ScanSummary{
		StartTime: s.now(),
		Roots:     len(roots),
	}

	host, err := s.resolveHost()
	if err != nil {
		return summary, err
	}
	summary.Host = host
	summary.Fetched = s.resolveFetched(summary.StartTime)

	s.logger.Info("Starting enumeration",
		zap.Strings("roots", roots),
		zap.String("host", summary.Host),
		zap.String("fetched", summary.Fetched))

	normalizer := metadata.NewNormalizer(summary.Host, summary.Fetched, s.source, s.resolver, s.logger)
	normalizer.SetStrictPaths(s.config.StrictPaths)
	normalizer.SetSkipCallback(func(reason models.SkipReason, path string) {
		summary.AddSkip(reason)
	})

	walker := filesystem.NewWalker(s.fs, s.logger)
	walker.SetSkipCallback(func(reason models.SkipReason, path string) {
		summary.AddSkip(reason)
	})

	out := emitter.New(w)
	out.SetFlushEach(s.config.FlushEach)

	if err := out.Begin(); err != nil {
		return summary, err
	}

	walkErr := walker.Walk(roots, func(path string, info os.FileInfo) error {
		record, err := normalizer.Normalize(path, info)
		if err != nil {
			return err
		}
		if record == nil {
			return nil
		}
		if err := out.Write(record); err != nil {
			return err
		}
		summary.AddRecord(record)
		return nil
	})

	stats := walker.Stats()
	summary.DirsListed = stats.DirsListed
	summary.DirsAbandoned = stats.DirsAbandoned

	if walkErr != nil {
		s.finish(summary)
		s.logger.Error("Enumeration aborted", zap.Error(walkErr), zap.Int("records", summary.Records))
		return summary, walkErr
	}

	if err := out.End(); err != nil {
		s.finish(summary)
		s.logger.Error("Failed to close output", zap.Error(err))
		return summary, err
	}

	s.finish(summary)
	report.LogSummary(s.logger, summary)
	return summary, nil
}

func (s *Scanner) finish(summary *models.ScanSummary) {
	summary.EndTime = s.now()
	summary.Duration = summary.EndTime.Sub(summary.StartTime)
}

func (s *Scanner) resolveHost() (string, error) {
	if s.config.Host != "" {
		return s.config.Host, nil
	}
	host, err := s.hostname()
	if err != nil {
		return "", fmt.Errorf("failed to get hostname: %w", err)
	}
	return host, nil
}

func (s *Scanner) resolveFetched(start time.Time) string {
	if s.config.Fetched != "" {
		return s.config.Fetched
	}
	return start.UTC().Format(time.RFC3339)
}
