package handler

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ErrorType représente la catégorie d'erreur
type ErrorType string

const (
	ErrTypeTraversal  ErrorType = "Traversal"  // Directory walk failures
	ErrTypeCompare    ErrorType = "Compare"    // Content comparison failures
	ErrTypeMove       ErrorType = "Move"       // Relocation failures
	ErrTypePermission ErrorType = "Permission" // Access denied
	ErrTypeValidation ErrorType = "Validation" // Configuration or input problems
)

// DedupError est l'erreur structurée de picdedup
type DedupError struct {
	Type    ErrorType         // Catégorie de l'erreur
	Op      string            // Opération en cours ("compare_files", "move_file")
	Path    string            // Fichier/dossier concerné
	Err     error             // Erreur originale
	Details map[string]string // Contexte supplémentaire
}

// Error implémente l'interface error
func (e *DedupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Op, e.Path)
}

// Unwrap permet d'extraire l'erreur originale
func (e *DedupError) Unwrap() error {
	return e.Err
}

// Suggestion génère une action corrective selon le type d'erreur
func (e *DedupError) Suggestion() string {
	switch e.Type {
	case ErrTypePermission:
		if e.Op == "read_file" {
			return fmt.Sprintf("chmod +r %s", e.Path)
		}
		if e.Op == "create_target" {
			return fmt.Sprintf("chmod +w %s", filepath.Dir(e.Path))
		}
		return fmt.Sprintf("Check permissions on %s", e.Path)

	case ErrTypeTraversal:
		return "Check that the directory exists and is readable"

	case ErrTypeCompare:
		return "File skipped for grouping, treated as non-identical (automatic)"

	case ErrTypeMove:
		if e.Err != nil {
			errMsg := e.Err.Error()
			if strings.Contains(errMsg, "cross-device") || strings.Contains(errMsg, "invalid cross-device link") {
				return "Choose a target directory on the same filesystem"
			}
			if strings.Contains(errMsg, "disk full") || strings.Contains(errMsg, "no space") {
				return "Free up disk space and retry"
			}
		}
		return "Remaining files were still processed, rerun to retry this one"

	case ErrTypeValidation:
		if ext := e.Details["extension"]; ext != "" {
			return fmt.Sprintf("picdedup --ext %s <path>", ext)
		}
		return "Check configuration and command line flags"

	default:
		return "See error message for details"
	}
}

// IsCritical détermine si l'erreur est bloquante
func (e *DedupError) IsCritical() bool {
	switch e.Type {
	case ErrTypeTraversal, ErrTypePermission, ErrTypeValidation:
		return true
	case ErrTypeCompare, ErrTypeMove:
		return false // Run continues, file is skipped
	default:
		return true
	}
}
