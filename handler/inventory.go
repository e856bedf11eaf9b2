package handler

import (
	"io/fs"
	"log/slog"
	"path/filepath"
)

// SizeBuckets maps an exact byte size to the paths of all matched files
// sharing that size. The size acts as a cheap pre-filter: only files inside
// the same bucket are ever byte-compared.
type SizeBuckets map[int64][]string

// TotalFiles returns the number of files across all buckets
func (b SizeBuckets) TotalFiles() int {
	total := 0
	for _, paths := range b {
		total += len(paths)
	}
	return total
}

// TotalBytes returns the cumulated size of all bucketed files
func (b SizeBuckets) TotalBytes() int64 {
	var total int64
	for size, paths := range b {
		total += size * int64(len(paths))
	}
	return total
}

// CandidateBuckets returns the number of buckets holding at least two files,
// i.e. the sets that need content comparison
func (b SizeBuckets) CandidateBuckets() int {
	count := 0
	for _, paths := range b {
		if len(paths) > 1 {
			count++
		}
	}
	return count
}

// BuildInventory walks the tree rooted at root and buckets every file whose
// name carries an allow-listed extension by its exact byte size.
//
// A missing or unreadable root is surfaced as a Traversal error and aborts
// the run. Errors on individual entries deeper in the tree are logged and
// the entry is skipped. Zero-byte files are valid and bucket under key 0.
func BuildInventory(ctx *executionContext, root string) (SizeBuckets, error) {
	buckets := make(SizeBuckets)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				// Root itself is unreadable, nothing to scan
				return &DedupError{
					Type: ErrTypeTraversal,
					Op:   "walk_tree",
					Path: path,
					Err:  err,
				}
			}
			slog.Warn("failed to access path, skipping", "path", path, "error", err)
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !ctx.isPhoto(d.Name()) {
			slog.Debug("skipping file with unknown extension", "file", d.Name())
			return nil
		}

		info, err := d.Info()
		if err != nil {
			slog.Warn("failed to stat file, skipping", "file", path, "error", err)
			return nil
		}

		buckets[info.Size()] = append(buckets[info.Size()], path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return buckets, nil
}
