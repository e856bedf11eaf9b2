package handler

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Liste des dossiers système à protéger
var protectedDirs = []string{
	".git",
	".svn",
	".hg",
	"node_modules",
}

// System files that do not count as directory "content"
var ignoredFiles = []string{
	".DS_Store",   // macOS
	"Thumbs.db",   // Windows
	"desktop.ini", // Windows
	"._.DS_Store", // macOS AppleDouble
}

// CleanupResult contient les résultats du nettoyage
type CleanupResult struct {
	RemovedDirs []string
	FailedDirs  map[string]error
}

// CleanupEmptyDirs removes, bottom-up, the directories the relocation left
// empty under rootPath. The root itself and VCS/system directories are never
// touched. Several passes are made because removing a leaf can empty its
// parent. In dry-run mode the candidates are only reported.
func CleanupEmptyDirs(rootPath string, mode ExecutionMode) (*CleanupResult, error) {
	result := &CleanupResult{
		RemovedDirs: []string{},
		FailedDirs:  make(map[string]error),
	}

	// Mode validate ne fait pas de cleanup
	if mode == ModeValidate {
		slog.Debug("skipping cleanup in validate mode")
		return result, nil
	}

	maxPasses := 100 // Protection contre les boucles infinies
	for pass := 0; pass < maxPasses; pass++ {
		emptyDirs := []string{}

		// Collect the currently empty directories
		err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				slog.Warn("failed to access path during cleanup", "path", path, "error", err)
				return nil // Continue le walk
			}

			if !d.IsDir() {
				return nil
			}

			if path == rootPath {
				return nil
			}

			if isProtectedDir(path) {
				slog.Debug("skipping protected directory", "path", path)
				return fs.SkipDir
			}

			empty, err := isDirEmpty(path)
			if err != nil {
				slog.Warn("failed to check if directory is empty", "path", path, "error", err)
				result.FailedDirs[path] = err
				return nil
			}

			if empty {
				emptyDirs = append(emptyDirs, path)
			}

			return nil
		})
		if err != nil {
			return result, fmt.Errorf("failed to walk directory tree: %w", err)
		}

		if len(emptyDirs) == 0 {
			break
		}

		// Remove in reverse order (bottom-up), subdirectories before parents
		removedInPass := 0
		for i := len(emptyDirs) - 1; i >= 0; i-- {
			dir := emptyDirs[i]

			// Re-check, the pass itself may have changed things
			empty, err := isDirEmpty(dir)
			if err != nil {
				slog.Warn("failed to re-check if directory is empty", "path", dir, "error", err)
				result.FailedDirs[dir] = err
				continue
			}

			if !empty {
				slog.Debug("directory no longer empty, skipping", "path", dir)
				continue
			}

			if mode == ModeDryRun {
				slog.Info("would remove empty directory", "path", dir)
				result.RemovedDirs = append(result.RemovedDirs, dir)
				removedInPass++
			} else {
				// Remove the ignored system files first, then the directory
				if err := removeIgnoredFiles(dir); err != nil {
					slog.Warn("failed to remove ignored files", "path", dir, "error", err)
				}

				if err := os.Remove(dir); err != nil {
					slog.Warn("failed to remove empty directory", "path", dir, "error", err)
					result.FailedDirs[dir] = err
				} else {
					slog.Info("removed empty directory", "path", dir)
					result.RemovedDirs = append(result.RemovedDirs, dir)
					removedInPass++
				}
			}
		}

		if removedInPass == 0 {
			break
		}

		// En mode dry-run, on fait un seul passage
		if mode == ModeDryRun {
			break
		}
	}

	return result, nil
}

// isDirEmpty vérifie si un dossier est vide
// Ignore les fichiers système par défaut (.DS_Store, Thumbs.db, etc.)
func isDirEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, fmt.Errorf("failed to read directory: %w", err)
	}

	realCount := 0
	for _, entry := range entries {
		if !entry.IsDir() && isIgnoredFile(entry.Name()) {
			continue
		}
		realCount++
	}

	return realCount == 0, nil
}

// isIgnoredFile vérifie si un fichier doit être ignoré
func isIgnoredFile(name string) bool {
	for _, ignored := range ignoredFiles {
		if name == ignored {
			return true
		}
	}
	return false
}

// removeIgnoredFiles supprime tous les fichiers ignorés d'un dossier
func removeIgnoredFiles(dirPath string) error {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if isIgnoredFile(entry.Name()) {
			filePath := filepath.Join(dirPath, entry.Name())
			if err := os.Remove(filePath); err != nil {
				slog.Debug("failed to remove ignored file", "path", filePath, "error", err)
				// Continue anyway, not critical
			} else {
				slog.Debug("removed ignored file", "path", filePath)
			}
		}
	}

	return nil
}

// isProtectedDir vérifie si le chemin contient un dossier protégé
func isProtectedDir(path string) bool {
	for _, protected := range protectedDirs {
		if strings.Contains(path, string(filepath.Separator)+protected) ||
			strings.HasSuffix(path, string(filepath.Separator)+protected) {
			return true
		}
	}
	return false
}
