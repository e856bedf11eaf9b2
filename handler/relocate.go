package handler

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// planRelocation splits a duplicate group into the survivor and the members
// to relocate. The survivor is the member with the longest filename; equal
// lengths are broken by ascending lexicographic order of the filename, so the
// choice is a deterministic total order. Groups with fewer than two members
// have no move candidates.
func planRelocation(group DuplicateGroup) (keep string, move []string) {
	if len(group) == 0 {
		return "", nil
	}

	sorted := make([]string, len(group))
	copy(sorted, group)

	sort.SliceStable(sorted, func(i, j int) bool {
		ni := filepath.Base(sorted[i])
		nj := filepath.Base(sorted[j])
		if len(ni) != len(nj) {
			return len(ni) > len(nj)
		}
		return ni < nj
	})

	return sorted[0], sorted[1:]
}

// Relocate moves every redundant member of every duplicate group into
// targetDir and returns the number of files moved. Under ModeDryRun nothing
// touches the filesystem and the count covers the files that would move.
//
// Single-member groups are never relocated. A candidate that vanished since
// grouping is skipped silently. A failed move is logged and recorded on
// stats but never aborts the remaining moves. The target directory is flat:
// two candidates sharing a filename collide there and the second move takes
// whatever os.Rename does on the host filesystem (known limitation).
func Relocate(groups map[int64][]DuplicateGroup, targetDir string, mode ExecutionMode, stats *DedupStats) int {
	moved := 0

	for _, sizeGroups := range groups {
		for _, group := range sizeGroups {
			if len(group) < 2 {
				continue
			}

			if stats != nil {
				stats.DuplicateGroups++
			}

			keep, candidates := planRelocation(group)
			slog.Debug("relocation plan", "keep", keep, "move_count", len(candidates))

			for _, candidate := range candidates {
				info, err := os.Stat(candidate)
				if err != nil {
					if os.IsNotExist(err) {
						// Already gone, nothing to move
						slog.Debug("file vanished before move, skipping", "file", candidate)
						continue
					}
					slog.Warn("failed to stat move candidate, skipping", "file", candidate, "error", err)
					continue
				}

				if mode == ModeDryRun {
					slog.Info("[DRY RUN] would move file", "source", candidate, "dest", targetDir)
					moved++
					if stats != nil {
						stats.BytesReclaimed += info.Size()
					}
					continue
				}

				dstPath := filepath.Join(targetDir, filepath.Base(candidate))
				slog.Info("moving file", "source", candidate, "dest", dstPath)

				if err := os.Rename(candidate, dstPath); err != nil {
					slog.Error("failed to move file", "file", candidate, "error", err)
					if stats != nil {
						stats.AddError(&DedupError{
							Type: ErrTypeMove,
							Op:   "move_file",
							Path: candidate,
							Err:  err,
							Details: map[string]string{
								"dest": dstPath,
							},
						})
					}
					continue
				}

				moved++
				if stats != nil {
					stats.BytesReclaimed += info.Size()
				}
			}
		}
	}

	return moved
}
