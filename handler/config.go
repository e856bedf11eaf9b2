package handler

import (
	"errors"
	"fmt"
	"os"
)

// ExecutionMode controls what the run is allowed to do
type ExecutionMode string

const (
	// ModeValidate performs a fast read-only scan without content comparison
	ModeValidate ExecutionMode = "validate"
	// ModeDryRun computes and reports the relocation plan without moving files
	ModeDryRun ExecutionMode = "dryrun"
	// ModeRun performs the real relocation
	ModeRun ExecutionMode = "run"
)

// tempDirPrefix is used for the lazily created default target directory
const tempDirPrefix = "duplicated_files_"

var (
	// Custom errors
	ErrNotDirectory = errors.New("path is not a directory")
	ErrInvalidMode  = errors.New("invalid execution mode")
)

// Config holds all configuration for the deduplication run
type Config struct {
	BasePath  string        // Root of the tree to deduplicate
	TargetDir string        // Destination for duplicated files; empty means a lazy temp dir
	Mode      ExecutionMode // validate, dryrun or run

	// Custom extensions, additive to the default allow-list
	// Matched case-sensitively like the defaults
	CustomExts []string

	// CleanupEmptyDirs removes directories left empty by the relocation
	CleanupEmptyDirs bool

	// Logging options, forwarded to the progress bar gating
	LogLevel  string
	LogFormat string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BasePath == "" {
		return errors.New("base path cannot be empty")
	}

	switch c.Mode {
	case ModeValidate, ModeDryRun, ModeRun:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}

	// Check if path exists and is a directory
	fi, err := os.Stat(c.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New("path does not exist")
		}
		return err
	}

	if !fi.IsDir() {
		return ErrNotDirectory
	}

	return nil
}

// ResolveTargetDir returns the directory duplicated files are moved to,
// creating it if needed. When no explicit target was supplied, a temporary
// directory is created on first call only, so runs that move nothing (and
// dry runs) never leave an unused temp dir behind.
func (c *Config) ResolveTargetDir() (string, error) {
	if c.TargetDir != "" {
		if err := os.MkdirAll(c.TargetDir, permDirectory); err != nil {
			return "", &DedupError{
				Type: ErrTypeMove,
				Op:   "create_target",
				Path: c.TargetDir,
				Err:  err,
			}
		}
		return c.TargetDir, nil
	}

	dir, err := os.MkdirTemp("", tempDirPrefix)
	if err != nil {
		return "", &DedupError{
			Type: ErrTypeMove,
			Op:   "create_target",
			Path: os.TempDir(),
			Err:  err,
		}
	}

	c.TargetDir = dir
	return dir, nil
}

// DefaultConfig returns a configuration with default values
func DefaultConfig(basePath string) *Config {
	return &Config{
		BasePath:         basePath,
		TargetDir:        "", // Lazy temp dir, created only when files are actually moved
		Mode:             ModeRun,
		CleanupEmptyDirs: false,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}
