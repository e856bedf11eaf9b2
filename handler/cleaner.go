package handler

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	// File permissions (Unix octal notation)
	// permDirectory: 0755 = rwxr-xr-x
	// Used for creating directories throughout the handler package
	permDirectory = 0755
)

// Clean is the main entry point: it finds byte-identical files under the
// configured tree and relocates all but the longest-named copy of each
// group to the target directory. It returns the collected statistics; the
// duplicate count is part of the stats, never the process exit code.
func Clean(cfg *Config) (*DedupStats, error) {
	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Handle execution modes
	switch cfg.Mode {
	case ModeValidate:
		// Fast validation without content comparison
		report, err := Validate(cfg)
		if err != nil {
			return nil, err
		}
		report.Print()
		if report.HasCriticalErrors() {
			return nil, fmt.Errorf("validation found %d critical error(s)", report.CriticalErrorCount())
		}
		return &DedupStats{StartTime: report.StartTime, EndTime: report.EndTime}, nil

	case ModeDryRun, ModeRun:
		// Continue with deduplication
		return cleanInternal(cfg)

	default:
		return nil, fmt.Errorf("unknown execution mode: %v", cfg.Mode)
	}
}

// cleanInternal is the internal implementation of Clean
func cleanInternal(cfg *Config) (*DedupStats, error) {
	// Create execution context with custom extensions
	ctx, err := newExecutionContext(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize extension context: %w", err)
	}

	stats := &DedupStats{
		StartTime: time.Now(),
	}
	defer func() {
		stats.EndTime = time.Now()
		stats.PrintSummary(cfg.Mode == ModeDryRun)
	}()

	slog.Info("analyzing files", "directory", cfg.BasePath)
	if cfg.TargetDir != "" {
		slog.Info("duplicated files will be moved", "target", cfg.TargetDir)
	}

	// 1. Build the size-bucketed inventory
	buckets, err := BuildInventory(ctx, cfg.BasePath)
	if err != nil {
		return stats, fmt.Errorf("failed to build inventory: %w", err)
	}

	stats.TotalFiles = buckets.TotalFiles()
	stats.TotalBytes = buckets.TotalBytes()
	stats.BucketCount = len(buckets)
	stats.CandidateBuckets = buckets.CandidateBuckets()

	slog.Info("files collected",
		"count", stats.TotalFiles,
		"size_buckets", stats.BucketCount,
		"candidate_buckets", stats.CandidateBuckets)

	if stats.TotalFiles == 0 {
		slog.Info("no photo files found")
		return stats, nil
	}

	// 2. Partition each bucket into groups of byte-identical files
	bar := createProgressBar(stats.CandidateBuckets, "Comparing files", cfg.LogLevel, cfg.LogFormat)
	groups := GroupDuplicates(buckets, stats, bar)

	hasDuplicates := false
	for _, sizeGroups := range groups {
		for _, group := range sizeGroups {
			if len(group) > 1 {
				hasDuplicates = true
				break
			}
		}
	}

	// 3. Relocate the redundant copies
	targetDir := cfg.TargetDir
	if hasDuplicates && cfg.Mode == ModeRun {
		// Lazy default: the temp target only exists once there is something
		// to move into it
		targetDir, err = cfg.ResolveTargetDir()
		if err != nil {
			return stats, err
		}
	}
	if targetDir == "" {
		// Dry run without an explicit target: report against the path the
		// real run would create, without creating it
		targetDir = filepath.Join(os.TempDir(), tempDirPrefix+"*")
	}
	stats.TargetDir = targetDir

	stats.FilesMoved = Relocate(groups, targetDir, cfg.Mode, stats)

	// 4. Optionally remove directories the relocation emptied
	if cfg.CleanupEmptyDirs && stats.FilesMoved > 0 {
		slog.Info("cleaning up empty directories", "path", cfg.BasePath)
		result, err := CleanupEmptyDirs(cfg.BasePath, cfg.Mode)
		if err != nil {
			slog.Warn("cleanup failed", "error", err)
		} else {
			stats.EmptyDirsRemoved = result.RemovedDirs
		}
	}

	return stats, nil
}
