package handler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestBuildInventory_BucketsBySize tests that matched files bucket by exact size
func TestBuildInventory_BucketsBySize(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"a.jpg": "12345",
		"b.jpg": "abcde",
		"c.nef": "12345678",
	})

	buckets, err := BuildInventory(newDefaultExecutionContext(), tmpDir)
	if err != nil {
		t.Fatalf("BuildInventory() error = %v, want nil", err)
	}

	if len(buckets) != 2 {
		t.Fatalf("bucket count = %d, want 2", len(buckets))
	}
	if len(buckets[5]) != 2 {
		t.Errorf("bucket[5] = %v, want 2 files", buckets[5])
	}
	if len(buckets[8]) != 1 {
		t.Errorf("bucket[8] = %v, want 1 file", buckets[8])
	}
}

// TestBuildInventory_Recursive tests that subdirectories are walked
func TestBuildInventory_Recursive(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "2024", "vacation")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeFiles(t, tmpDir, map[string]string{"root.jpg": "content"})
	writeFiles(t, subDir, map[string]string{"nested.jpg": "content"})

	buckets, err := BuildInventory(newDefaultExecutionContext(), tmpDir)
	if err != nil {
		t.Fatalf("BuildInventory() error = %v, want nil", err)
	}

	if buckets.TotalFiles() != 2 {
		t.Errorf("TotalFiles() = %d, want 2 (recursion missing?)", buckets.TotalFiles())
	}
	if len(buckets[7]) != 2 {
		t.Errorf("bucket[7] = %v, want both files", buckets[7])
	}
}

// TestBuildInventory_ExtensionFilter tests the case-sensitive allow-list
func TestBuildInventory_ExtensionFilter(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     bool
	}{
		{name: "arw matched", fileName: "photo.arw", want: true},
		{name: "nef matched", fileName: "photo.nef", want: true},
		{name: "jpg matched", fileName: "photo.jpg", want: true},
		{name: "tif matched", fileName: "photo.tif", want: true},
		{name: "png not matched", fileName: "photo.png", want: false},
		{name: "uppercase JPG not matched", fileName: "photo.JPG", want: false},
		{name: "jpeg not matched", fileName: "photo.jpeg", want: false},
		{name: "no extension not matched", fileName: "photo", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeFiles(t, tmpDir, map[string]string{tt.fileName: "content"})

			buckets, err := BuildInventory(newDefaultExecutionContext(), tmpDir)
			if err != nil {
				t.Fatalf("BuildInventory() error = %v, want nil", err)
			}

			got := buckets.TotalFiles() == 1
			if got != tt.want {
				t.Errorf("file %s discovered = %v, want %v", tt.fileName, got, tt.want)
			}
		})
	}
}

// TestBuildInventory_ZeroSizeFiles tests that empty files bucket under key 0
func TestBuildInventory_ZeroSizeFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"empty1.jpg": "",
		"empty2.tif": "",
	})

	buckets, err := BuildInventory(newDefaultExecutionContext(), tmpDir)
	if err != nil {
		t.Fatalf("BuildInventory() error = %v, want nil", err)
	}

	if len(buckets[0]) != 2 {
		t.Errorf("bucket[0] = %v, want the 2 empty files", buckets[0])
	}
}

// TestBuildInventory_MissingRoot tests that an absent root surfaces a
// Traversal error instead of an empty result
func TestBuildInventory_MissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	_, err := BuildInventory(newDefaultExecutionContext(), missing)
	if err == nil {
		t.Fatal("BuildInventory() error = nil, want Traversal error")
	}

	var dedupErr *DedupError
	if !errors.As(err, &dedupErr) {
		t.Fatalf("BuildInventory() error type = %T, want *DedupError", err)
	}
	if dedupErr.Type != ErrTypeTraversal {
		t.Errorf("error type = %s, want %s", dedupErr.Type, ErrTypeTraversal)
	}
	if !dedupErr.IsCritical() {
		t.Error("Traversal error must be critical")
	}
}

// TestBuildInventory_CustomExtensions tests additive custom extensions
func TestBuildInventory_CustomExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"a.png": "content",
		"b.jpg": "content",
		"c.gif": "content",
	})

	cfg := DefaultConfig(tmpDir)
	cfg.CustomExts = []string{"png"}
	ctx, err := newExecutionContext(cfg)
	if err != nil {
		t.Fatal(err)
	}

	buckets, err := BuildInventory(ctx, tmpDir)
	if err != nil {
		t.Fatalf("BuildInventory() error = %v, want nil", err)
	}

	if buckets.TotalFiles() != 2 {
		t.Errorf("TotalFiles() = %d, want 2 (.png custom + .jpg default)", buckets.TotalFiles())
	}
}

// TestSizeBuckets_Helpers tests the aggregate helpers
func TestSizeBuckets_Helpers(t *testing.T) {
	buckets := SizeBuckets{
		0:  {"/a/empty.jpg"},
		10: {"/a/x.jpg", "/a/y.jpg", "/a/z.jpg"},
		20: {"/a/w.jpg"},
	}

	if got := buckets.TotalFiles(); got != 5 {
		t.Errorf("TotalFiles() = %d, want 5", got)
	}
	if got := buckets.TotalBytes(); got != 50 {
		t.Errorf("TotalBytes() = %d, want 50", got)
	}
	if got := buckets.CandidateBuckets(); got != 1 {
		t.Errorf("CandidateBuckets() = %d, want 1", got)
	}
}
