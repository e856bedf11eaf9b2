package main

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/sebastienfr/picdedup/handler"
	"github.com/urfave/cli/v2"
)

var (
	// version will be set via ldflags during build (-X main.version=X.Y.Z)
	// Default: "dev" for development builds without ldflags
	version = "dev"

	// buildTime will be set via ldflags during build (-X main.buildTime=...)
	// This is the actual build time, not the commit time
	buildTime = ""

	// directory -directory : the root of the tree containing the files to deduplicate
	directory = "."

	// targetDirectory -target-directory : where duplicated files are moved to
	targetDirectory = ""

	// dryRun -dry-run : report the relocation plan without touching the filesystem
	dryRun = false

	// executionMode -mode : execution mode (validate, dryrun, run)
	executionMode = "run"

	// verbose -verbose : shorthand for --log-level debug
	verbose = false

	// silent -silent : shorthand for --log-level error
	silent = false

	// customExts -ext : additional photo extensions on top of the defaults
	customExts string

	// cleanupEmptyDirs -cleanup-empty-dirs : remove directories emptied by the relocation
	cleanupEmptyDirs = false

	header, _ = base64.StdEncoding.DecodeString("ICAgICAgICAuX18gICAgICAgICAgIC5fX18gICAgICAgICAuX19fCl9fX19fX" +
		"yAgfF9ffCBfX19fICAgX198IF8vX19fXyAgIF9ffCBfL18gX19fX19fX18KXF9fX18gXCB8ICB8LyBfX19cIC8gX18gfC8gX18gXCAvIF" +
		"9fIHwgIHwgIFxfX19fIFwKfCAgfF8+ID58ICBcICBcX19fLyAvXy8gXCAgX19fLy8gL18vIHwgIHwgIC8gIHxfPiA+CnwgICBfXy8gfF9" +
		"ffFxfX18gID5fX19fIHxcX19fICA+X19fXyB8X19fXy98ICAgX18vCnxfX3wgICAgICAgICAgICBcLyAgICAgXC8gICAgXC8gICAgIFwv" +
		"ICAgICB8X198")
)

const (
	// Default configuration values
	defaultDirectory = "."
	defaultLogLevel  = "info"
	defaultLogFormat = "text"

	// Application metadata
	appName        = "picdedup"
	appUsage       = "identical photo file deduplicator"
	authorName     = "Sébastien FRIESS"
	copyrightOwner = "sebastienfr"

	// Flag names
	flagDirectory       = "directory"
	flagTargetDirectory = "target-directory"
	flagDryRun          = "dry-run"
	flagMode            = "mode"
	flagVerbose         = "verbose"
	flagSilent          = "silent"
	flagLogLevel        = "log-level"
	flagLogFormat       = "log-format"
	flagExt             = "ext"
	flagCleanup         = "cleanup-empty-dirs"
)

// parseExtensions parses comma-separated extension string into slice
// Returns error if any extension is invalid
func parseExtensions(extString string) ([]string, error) {
	if extString == "" {
		return nil, nil
	}

	parts := strings.Split(extString, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		// Validate extension
		if err := handler.ValidateExtension(part); err != nil {
			return nil, err
		}

		result = append(result, part)
	}

	return result, nil
}

// resolveLogLevel combines the --verbose/--silent shorthands with --log-level
// The shorthands are mutually exclusive and take precedence over --log-level
func resolveLogLevel(logLevel string, verbose, silent bool) (string, error) {
	if verbose && silent {
		return "", fmt.Errorf("--%s and --%s are mutually exclusive", flagVerbose, flagSilent)
	}
	if verbose {
		return "debug", nil
	}
	if silent {
		return "error", nil
	}
	return logLevel, nil
}

// setupLogger initializes the slog logger with the specified level and format
func setupLogger(logLevel, logFormat string) {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo // Default to info if invalid
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(logFormat) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts) // Default to text if invalid
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
}

// getBuildInfo returns version information from build metadata
// Version is injected via ldflags, VCS info comes from runtime/debug (Go 1.18+)
func getBuildInfo() (string, string, string, string) {
	localBuildTime := buildTime // From ldflags
	if localBuildTime == "" {
		localBuildTime = time.Now().Format(time.RFC3339)
	}
	commitTime := ""
	gitHash := "unknown"

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version, localBuildTime, commitTime, gitHash
	}

	// Extract VCS information (commit hash, commit time, dirty flag)
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if len(setting.Value) > 7 {
				gitHash = setting.Value[:7] // Short hash
			} else {
				gitHash = setting.Value
			}
		case "vcs.time":
			commitTime = setting.Value
		case "vcs.modified":
			if setting.Value == "true" {
				gitHash += "-dirty"
			}
		}
	}

	return version, localBuildTime, commitTime, gitHash
}

func main() {
	// customize version flag
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
	}

	// Get build information
	version, localBuildTime, commitTime, gitHash := getBuildInfo()

	// Parse build time (prefer local build time)
	buildTimeObj, err := time.Parse(time.RFC3339, localBuildTime)
	if err != nil {
		// Try parsing as simple format from Makefile
		buildTimeObj, err = time.Parse("2006-01-02 15:04:05 MST", localBuildTime)
		if err != nil {
			buildTimeObj = time.Now()
		}
	}

	// Format version string with build info
	versionStr := version + ", built on " + buildTimeObj.Format("2006-01-02 15:04:05 -0700 MST") +
		", git hash " + gitHash
	if commitTime != "" {
		commitTimeObj, err := time.Parse(time.RFC3339, commitTime)
		if err == nil {
			versionStr += " (commit: " + commitTimeObj.Format("2006-01-02 15:04:05") + ")"
		}
	}

	app := &cli.App{
		Name:    appName,
		Usage:   appUsage,
		Version: versionStr,
		Authors: []*cli.Author{
			{Name: authorName},
		},
		Copyright: copyrightOwner + " " + strconv.Itoa(time.Now().Year()),
	}

	// command line flags
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        flagDirectory,
			Aliases:     []string{"d"},
			Value:       defaultDirectory,
			Destination: &directory,
			Usage:       "Root of the directory tree to deduplicate",
		},
		&cli.StringFlag{
			Name:        flagTargetDirectory,
			Aliases:     []string{"t"},
			Destination: &targetDirectory,
			Usage:       "Destination for duplicated files (default: a fresh temporary directory, created only when needed)",
		},
		&cli.BoolFlag{
			Name:        flagDryRun,
			Destination: &dryRun,
			Usage:       "Report the relocation plan without moving any file (same as --mode dryrun)",
		},
		&cli.StringFlag{
			Name:        flagMode,
			Aliases:     []string{"m"},
			Value:       "run",
			Destination: &executionMode,
			Usage:       "Execution mode: validate (fast check), dryrun (simulate), run (execute)",
		},
		&cli.BoolFlag{
			Name:        flagVerbose,
			Aliases:     []string{"v"},
			Destination: &verbose,
			Usage:       "Debug logging (shorthand for --log-level debug)",
		},
		&cli.BoolFlag{
			Name:        flagSilent,
			Aliases:     []string{"s"},
			Destination: &silent,
			Usage:       "Only log errors (shorthand for --log-level error)",
		},
		&cli.StringFlag{
			Name:    flagLogLevel,
			Aliases: []string{"l"},
			Value:   defaultLogLevel,
			Usage:   "Set log level (debug, info, warn, error)",
		},
		&cli.StringFlag{
			Name:    flagLogFormat,
			Aliases: []string{"lf"},
			Value:   defaultLogFormat,
			Usage:   "Set log format (text, json)",
		},
		&cli.StringFlag{
			Name:        flagExt,
			Aliases:     []string{"e"},
			Destination: &customExts,
			Usage:       "Additional photo extensions (comma-separated, e.g., 'png,cr2'). Max 8 chars, alphanumeric only",
		},
		&cli.BoolFlag{
			Name:        flagCleanup,
			Aliases:     []string{"ced"},
			Destination: &cleanupEmptyDirs,
			Usage:       "Remove directories left empty by the relocation (default: false)",
		},
	}

	// main action
	app.Action = func(c *cli.Context) error {
		// init log options from command line params
		logLevel, err := resolveLogLevel(c.String(flagLogLevel), verbose, silent)
		if err != nil {
			return err
		}
		setupLogger(logLevel, c.String(flagLogFormat))

		// print header
		fmt.Println(string(header))

		if c.NArg() == 1 {
			directory = c.Args().Get(0)
		} else if c.NArg() > 1 {
			return fmt.Errorf("wrong count of argument %d, a unique path is required", c.NArg())
		}

		// Parse custom extensions
		exts, err := parseExtensions(customExts)
		if err != nil {
			return fmt.Errorf("invalid extensions: %w", err)
		}

		// Handle execution mode (--dry-run is a shorthand for --mode dryrun)
		mode := handler.ExecutionMode(executionMode)
		if dryRun {
			mode = handler.ModeDryRun
		}

		// Validate execution mode
		validModes := map[handler.ExecutionMode]bool{
			handler.ModeValidate: true,
			handler.ModeDryRun:   true,
			handler.ModeRun:      true,
		}
		if !validModes[mode] {
			return fmt.Errorf("invalid --mode value: %s (must be: validate, dryrun, or run)", mode)
		}

		slog.Debug("configuration",
			"directory", directory,
			"target_directory", targetDirectory,
			"mode", mode,
			"cleanup_empty_dirs", cleanupEmptyDirs)
		if len(exts) > 0 {
			slog.Debug("custom extensions", "extensions", strings.Join(exts, ", "))
		}

		cfg := &handler.Config{
			BasePath:         directory,
			TargetDir:        targetDirectory,
			Mode:             mode,
			CustomExts:       exts,
			CleanupEmptyDirs: cleanupEmptyDirs,
			LogLevel:         logLevel,
			LogFormat:        c.String(flagLogFormat),
		}

		_, err = handler.Clean(cfg)
		return err
	}

	// run the app
	err = app.Run(os.Args)
	if err != nil {
		slog.Error("runtime error", "error", err)
		os.Exit(1)
	}

	os.Exit(0)
}
