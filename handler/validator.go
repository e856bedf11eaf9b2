package handler

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// ValidationReport holds the results of a fast validation scan
type ValidationReport struct {
	StartTime time.Time
	EndTime   time.Time

	TotalFiles int
	TotalBytes int64

	// Duplicate potential
	SizeBuckets      int
	CandidateBuckets int // Buckets with >= 2 files, the ones a run would byte-compare
	CandidateFiles   int // Files living in candidate buckets

	// EXIF probing (metadata readability is a cheap integrity signal
	// before byte-comparing a whole library)
	EXIFReadable   int
	EXIFUnreadable int

	Errors   []*DedupError
	Warnings []string
}

// Duration returns the validation duration
func (r *ValidationReport) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}

// HasCriticalErrors returns true if any critical errors were detected
func (r *ValidationReport) HasCriticalErrors() bool {
	for _, err := range r.Errors {
		if err.IsCritical() {
			return true
		}
	}
	return false
}

// CriticalErrorCount returns the number of critical errors
func (r *ValidationReport) CriticalErrorCount() int {
	count := 0
	for _, err := range r.Errors {
		if err.IsCritical() {
			count++
		}
	}
	return count
}

// Print displays the validation report
func (r *ValidationReport) Print() {
	fmt.Println()
	slog.Info("=== Validation Summary ===")

	// Duration
	slog.Info("analysis completed", "duration", r.Duration().Round(time.Second))

	// Files found
	slog.Info("files to process",
		"count", r.TotalFiles,
		"size", FormatBytes(r.TotalBytes))

	// Duplicate potential
	slog.Info("duplicate potential",
		"size_buckets", r.SizeBuckets,
		"candidate_buckets", r.CandidateBuckets,
		"candidate_files", r.CandidateFiles)

	// EXIF probing
	if r.EXIFReadable > 0 || r.EXIFUnreadable > 0 {
		slog.Info("EXIF metadata",
			"readable", r.EXIFReadable,
			"unreadable", r.EXIFUnreadable)
	}

	// Critical errors
	criticalCount := r.CriticalErrorCount()
	if criticalCount > 0 {
		fmt.Println()
		slog.Error("critical issues detected", "count", criticalCount)
		for _, err := range r.Errors {
			if err.IsCritical() {
				slog.Error(err.Error(),
					"type", string(err.Type),
					"suggestion", err.Suggestion())
			}
		}
	}

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Println()
		slog.Warn("warnings detected", "count", len(r.Warnings))
		for _, warning := range r.Warnings {
			slog.Warn(warning)
		}
	}

	// Final recommendation
	fmt.Println()
	if criticalCount > 0 {
		slog.Warn("→ Fix critical issues before proceeding")
	} else {
		slog.Info("✓ No critical issues detected")
	}
	slog.Info("→ Run with --mode dryrun to simulate, or --mode run to execute")
}

// probeEXIF attempts to decode EXIF metadata from a photo file
// Duplicated exports are frequently re-encoded copies, so an undecodable
// header is worth surfacing before a run
func probeEXIF(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = exif.Decode(f)
	return err
}

// Validate performs a fast scan of the tree without any content comparison.
// It reports how many files a real run would consider, how many size
// buckets would need byte comparison, and probes read access and EXIF
// readability of the candidate files.
func Validate(cfg *Config) (*ValidationReport, error) {
	report := &ValidationReport{
		StartTime: time.Now(),
	}

	// Create execution context for extension checking
	ctx, err := newExecutionContext(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize extension context: %w", err)
	}

	buckets, err := BuildInventory(ctx, cfg.BasePath)
	if err != nil {
		return nil, err
	}

	report.TotalFiles = buckets.TotalFiles()
	report.TotalBytes = buckets.TotalBytes()
	report.SizeBuckets = len(buckets)
	report.CandidateBuckets = buckets.CandidateBuckets()

	for _, paths := range buckets {
		if len(paths) < 2 {
			continue
		}
		report.CandidateFiles += len(paths)

		// Only candidate files are ever opened by a run, so only they are probed
		for _, path := range paths {
			f, err := os.Open(path)
			if err != nil {
				report.Errors = append(report.Errors, &DedupError{
					Type: ErrTypePermission,
					Op:   "read_file",
					Path: path,
					Err:  err,
				})
				continue
			}
			f.Close()

			if err := probeEXIF(path); err != nil {
				report.EXIFUnreadable++
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("No readable EXIF metadata in %s", filepath.Base(path)))
			} else {
				report.EXIFReadable++
			}
		}
	}

	report.EndTime = time.Now()
	return report, nil
}
