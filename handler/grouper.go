package handler

import (
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// DuplicateGroup is a maximal set of paths with byte-identical content.
// Membership order carries no meaning.
type DuplicateGroup []string

// GroupDuplicates partitions every size bucket into groups of byte-identical
// files. Per bucket the emitted groups are pairwise disjoint and their union
// is the full bucket, so no file is ever dropped or counted twice.
//
// The algorithm pops an arbitrary seed from the working set, byte-compares it
// against every remaining member, extracts the matches as one group and
// repeats until the bucket is exhausted. Which path seeds a group is
// unspecified; callers must only rely on membership.
//
// A comparison that fails (file vanished or became unreadable since the
// walk) is logged, recorded on stats and treated as non-identical: the
// candidate stays in the working set and ends up in its own group, which a
// later stage never relocates. The run is never aborted by a bad pair.
func GroupDuplicates(buckets SizeBuckets, stats *DedupStats, bar *progressbar.ProgressBar) map[int64][]DuplicateGroup {
	groups := make(map[int64][]DuplicateGroup, len(buckets))

	for size, paths := range buckets {
		groups[size] = groupBucket(size, paths, stats)

		if bar != nil && len(paths) > 1 {
			_ = bar.Add(1)
		}
	}

	return groups
}

// groupBucket partitions a single size bucket into duplicate groups
func groupBucket(size int64, paths []string, stats *DedupStats) []DuplicateGroup {
	// Single member: trivially its own group, no comparison needed
	if len(paths) == 1 {
		return []DuplicateGroup{{paths[0]}}
	}

	slog.Debug("comparing size bucket", "size", size, "files", len(paths))

	var result []DuplicateGroup

	working := make([]string, len(paths))
	copy(working, paths)

	for len(working) > 0 {
		// Pop an arbitrary seed
		seed := working[len(working)-1]
		working = working[:len(working)-1]

		group := DuplicateGroup{seed}
		remaining := working[:0]

		for _, candidate := range working {
			identical, err := compareFiles(seed, candidate)
			if err != nil {
				dedupErr := &DedupError{
					Type: ErrTypeCompare,
					Op:   "compare_files",
					Path: candidate,
					Err:  err,
					Details: map[string]string{
						"seed": seed,
					},
				}
				slog.Error("failed to compare files, treating as non-identical",
					"seed", seed, "candidate", candidate, "error", err)
				if stats != nil {
					stats.AddError(dedupErr)
				}
				remaining = append(remaining, candidate)
				continue
			}

			if stats != nil {
				stats.Comparisons++
			}

			if identical {
				group = append(group, candidate)
			} else {
				remaining = append(remaining, candidate)
			}
		}

		working = remaining
		result = append(result, group)

		if len(group) > 1 {
			slog.Debug("duplicate group found", "size", size, "members", len(group))
		}
	}

	return result
}
