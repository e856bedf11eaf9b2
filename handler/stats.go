package handler

import (
	"fmt"
	"log/slog"
	"time"
)

// DedupStats holds statistics collected during a deduplication run
type DedupStats struct {
	// Timing
	StartTime time.Time
	EndTime   time.Time

	// Inventory
	TotalFiles       int
	TotalBytes       int64
	BucketCount      int // Distinct file sizes seen
	CandidateBuckets int // Buckets with at least two files

	// Grouping
	Comparisons     int // Byte-by-byte comparisons performed
	DuplicateGroups int // Groups with at least two members

	// Relocation
	FilesMoved     int
	BytesReclaimed int64
	TargetDir      string

	// Cleanup
	EmptyDirsRemoved []string

	// Issues
	Errors []*DedupError
}

// AddError records an error encountered during the run
func (s *DedupStats) AddError(err *DedupError) {
	s.Errors = append(s.Errors, err)
}

// Duration returns the total processing duration
func (s *DedupStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// HasCriticalErrors returns true if any critical errors were recorded
func (s *DedupStats) HasCriticalErrors() bool {
	for _, err := range s.Errors {
		if err.IsCritical() {
			return true
		}
	}
	return false
}

// FormatBytes converts bytes to human-readable format (GB, MB, KB)
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}

// PrintSummary displays the deduplication summary
func (s *DedupStats) PrintSummary(dryRun bool) {
	fmt.Println()
	slog.Info("=== Deduplication Summary ===")

	// Duration
	duration := s.Duration()
	slog.Info("processing completed",
		"duration", fmt.Sprintf("%dm %ds", int(duration.Minutes()), int(duration.Seconds())%60))

	// Inventory
	slog.Info("files scanned",
		"files", s.TotalFiles,
		"size", FormatBytes(s.TotalBytes),
		"size_buckets", s.BucketCount,
		"candidate_buckets", s.CandidateBuckets)

	// Grouping
	slog.Info("content comparison",
		"comparisons", s.Comparisons,
		"duplicate_groups", s.DuplicateGroups)

	// The headline count, always reported even when zero
	slog.Info(fmt.Sprintf("There were %d files duplicated", s.FilesMoved))

	if s.FilesMoved > 0 {
		slog.Info("relocation",
			"files_moved", s.FilesMoved,
			"reclaimed", FormatBytes(s.BytesReclaimed),
			"target", s.TargetDir)
	}

	// Cleanup
	if len(s.EmptyDirsRemoved) > 0 {
		slog.Info("empty directories removed", "count", len(s.EmptyDirsRemoved))
	}

	// Separate critical errors from warnings
	var criticalErrors []*DedupError
	var warnings []*DedupError

	for _, err := range s.Errors {
		if err.IsCritical() {
			criticalErrors = append(criticalErrors, err)
		} else {
			warnings = append(warnings, err)
		}
	}

	// Display critical errors
	if len(criticalErrors) > 0 {
		fmt.Println()
		slog.Error("critical errors encountered", "count", len(criticalErrors))
		for _, err := range criticalErrors {
			slog.Error(err.Error(),
				"type", string(err.Type),
				"operation", err.Op,
				"path", err.Path,
				"suggestion", err.Suggestion())
		}
	}

	// Display warnings (non-critical errors)
	if len(warnings) > 0 {
		fmt.Println()
		slog.Warn("warnings detected", "count", len(warnings))
		for _, err := range warnings {
			slog.Warn(err.Error(),
				"type", string(err.Type),
				"operation", err.Op,
				"path", err.Path,
				"suggestion", err.Suggestion())
		}
	}

	// Final status
	fmt.Println()
	if len(criticalErrors) > 0 {
		slog.Error("⚠ Operation completed with errors", "total_errors", len(criticalErrors))
	} else if dryRun {
		slog.Info("DRY RUN completed - no files were actually moved")
	} else {
		slog.Info("✓ Operation completed successfully")
	}
}
