package models

import "time"

// SkipReason names why an entry was left out of the output
type SkipReason string

const (
	SkipListFailed     SkipReason = "list_failed"      // directory could not be listed
	SkipBadEntry       SkipReason = "bad_entry"        // directory entry record unreadable
	SkipStatFailed     SkipReason = "stat_failed"      // metadata could not be fetched
	SkipNoPlatformStat SkipReason = "no_platform_stat" // no native stat data behind the FileInfo
	SkipUnknownUser    SkipReason = "unknown_user"
	SkipUnknownGroup   SkipReason = "unknown_group"
	SkipInvalidPath    SkipReason = "invalid_path" // path is not valid UTF-8 (lenient mode)
)

// ScanSummary contains per-run counters. It is never part of the JSON output.
type ScanSummary struct {
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	Host    string `json:"host"`
	Fetched string `json:"fetched"`
	Roots   int    `json:"roots"`

	DirsListed    int   `json:"dirs_listed"`
	DirsAbandoned int   `json:"dirs_abandoned"`
	Records       int   `json:"records"`
	TotalSize     int64 `json:"total_size"`

	Skipped map[SkipReason]int `json:"skipped"`
}

// AddSkip counts one skipped entry
func (s *ScanSummary) AddSkip(reason SkipReason) {
	if s.Skipped == nil {
		s.Skipped = make(map[SkipReason]int)
	}
	s.Skipped[reason]++
}

// AddRecord counts one emitted record
func (s *ScanSummary) AddRecord(r *FileRecord) {
	s.Records++
	s.TotalSize += int64(r.Size)
}

// TotalSkipped returns the number of skipped entries across all reasons
func (s *ScanSummary) TotalSkipped() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}
