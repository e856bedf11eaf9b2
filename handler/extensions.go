package handler

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	// Extension validation constraints
	maxExtensionLength = 8 // Maximum characters in extension (without leading dot)
)

var (
	// Default extension allow-list. Matching is case-sensitive: export
	// pipelines write these suffixes verbatim, and ".JPG" sidecars produced
	// by other tools are deliberately left alone.
	defaultPhotoExtensions = map[string]bool{
		".arw": true,
		".nef": true,
		".jpg": true,
		".tif": true,
	}
)

// ValidateExtension validates that an extension is reasonable
// - Max 8 characters (without leading dot)
// - Only alphanumeric characters
// - No spaces or special characters
func ValidateExtension(ext string) error {
	// Remove leading dot if present
	ext = strings.TrimPrefix(ext, ".")

	if ext == "" {
		return fmt.Errorf("extension cannot be empty")
	}

	if len(ext) > maxExtensionLength {
		return fmt.Errorf("only alphanumeric characters allowed (max %d chars)", maxExtensionLength)
	}

	// Check only alphanumeric
	for _, r := range ext {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fmt.Errorf("only alphanumeric characters allowed (max %d chars)", maxExtensionLength)
		}
	}

	return nil
}

// buildExtensionMap creates a combined extension map from defaults + custom
// Custom extensions keep their case: matching stays case-sensitive
func buildExtensionMap(defaults map[string]bool, custom []string) (map[string]bool, error) {
	result := make(map[string]bool, len(defaults)+len(custom))

	// Copy defaults
	for ext := range defaults {
		result[ext] = true
	}

	// Add custom extensions
	for _, ext := range custom {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}

		// Validate before adding
		if err := ValidateExtension(ext); err != nil {
			return nil, err
		}

		// Normalize: ensure leading dot
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		// Add to map (duplicates silently ignored)
		result[ext] = true
	}

	return result, nil
}

// executionContext holds runtime configuration including the extension map
// Built once per execution with custom extensions merged into defaults
type executionContext struct {
	photoExtensions map[string]bool
}

// newExecutionContext creates a context with default + custom extensions
// Returns error if custom extensions are invalid
func newExecutionContext(cfg *Config) (*executionContext, error) {
	photoExts, err := buildExtensionMap(defaultPhotoExtensions, cfg.CustomExts)
	if err != nil {
		return nil, fmt.Errorf("invalid extensions: %w", err)
	}

	return &executionContext{
		photoExtensions: photoExts,
	}, nil
}

// newDefaultExecutionContext creates a context with only default extensions (no custom)
// Useful for testing
func newDefaultExecutionContext() *executionContext {
	return &executionContext{
		photoExtensions: defaultPhotoExtensions,
	}
}

// isPhoto checks if filename carries an allow-listed extension (case-sensitive)
func (ctx *executionContext) isPhoto(filename string) bool {
	return ctx.photoExtensions[filepath.Ext(filename)]
}
