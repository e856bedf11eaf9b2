package handler

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// TestCompareFiles_Identical tests that byte-identical files compare equal
func TestCompareFiles_Identical(t *testing.T) {
	tmpDir := t.TempDir()

	content := []byte("identical photo content")
	fileA := filepath.Join(tmpDir, "a.jpg")
	fileB := filepath.Join(tmpDir, "b.jpg")
	if err := os.WriteFile(fileA, content, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fileB, content, 0644); err != nil {
		t.Fatal(err)
	}

	identical, err := compareFiles(fileA, fileB)
	if err != nil {
		t.Fatalf("compareFiles() error = %v, want nil", err)
	}
	if !identical {
		t.Error("compareFiles() = false, want true for identical content")
	}
}

// TestCompareFiles_SameSizeDifferentContent tests that equal size is not enough
func TestCompareFiles_SameSizeDifferentContent(t *testing.T) {
	tmpDir := t.TempDir()

	fileA := filepath.Join(tmpDir, "a.jpg")
	fileB := filepath.Join(tmpDir, "b.jpg")
	if err := os.WriteFile(fileA, []byte("content X!"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fileB, []byte("content Y!"), 0644); err != nil {
		t.Fatal(err)
	}

	identical, err := compareFiles(fileA, fileB)
	if err != nil {
		t.Fatalf("compareFiles() error = %v, want nil", err)
	}
	if identical {
		t.Error("compareFiles() = true, want false for same-size different content")
	}
}

// TestCompareFiles_ZeroLength tests that empty files compare equal without error
func TestCompareFiles_ZeroLength(t *testing.T) {
	tmpDir := t.TempDir()

	fileA := filepath.Join(tmpDir, "a.jpg")
	fileB := filepath.Join(tmpDir, "b.jpg")
	if err := os.WriteFile(fileA, []byte{}, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fileB, []byte{}, 0644); err != nil {
		t.Fatal(err)
	}

	identical, err := compareFiles(fileA, fileB)
	if err != nil {
		t.Fatalf("compareFiles() error = %v, want nil", err)
	}
	if !identical {
		t.Error("compareFiles() = false, want true for two zero-length files")
	}
}

// TestCompareFiles_MultiChunk tests contents larger than the read chunk
func TestCompareFiles_MultiChunk(t *testing.T) {
	// Three chunks plus a partial tail
	content := bytes.Repeat([]byte{0xAB}, 3*compareChunkSize+17)

	tests := []struct {
		name      string
		mutate    func([]byte) []byte
		identical bool
	}{
		{
			name:      "identical multi-chunk",
			mutate:    func(b []byte) []byte { return b },
			identical: true,
		},
		{
			name: "difference in last chunk",
			mutate: func(b []byte) []byte {
				c := append([]byte(nil), b...)
				c[len(c)-1] ^= 0xFF
				return c
			},
			identical: false,
		},
		{
			name: "difference in first chunk",
			mutate: func(b []byte) []byte {
				c := append([]byte(nil), b...)
				c[0] ^= 0xFF
				return c
			},
			identical: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileA := filepath.Join(t.TempDir(), "a.tif")
			fileB := filepath.Join(t.TempDir(), "b.tif")
			if err := os.WriteFile(fileA, content, 0644); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(fileB, tt.mutate(content), 0644); err != nil {
				t.Fatal(err)
			}

			identical, err := compareFiles(fileA, fileB)
			if err != nil {
				t.Fatalf("compareFiles() error = %v, want nil", err)
			}
			if identical != tt.identical {
				t.Errorf("compareFiles() = %v, want %v", identical, tt.identical)
			}
		})
	}
}

// TestCompareFiles_DifferentLength tests files of different sizes
// The grouper only compares within a size bucket, but the comparison itself
// must still be correct on its own
func TestCompareFiles_DifferentLength(t *testing.T) {
	tmpDir := t.TempDir()

	fileA := filepath.Join(tmpDir, "a.jpg")
	fileB := filepath.Join(tmpDir, "b.jpg")
	if err := os.WriteFile(fileA, []byte("short"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fileB, []byte("short plus a tail"), 0644); err != nil {
		t.Fatal(err)
	}

	identical, err := compareFiles(fileA, fileB)
	if err != nil {
		t.Fatalf("compareFiles() error = %v, want nil", err)
	}
	if identical {
		t.Error("compareFiles() = true, want false for different lengths")
	}
}

// TestCompareFiles_MissingFile tests that a vanished file surfaces an error
func TestCompareFiles_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()

	fileA := filepath.Join(tmpDir, "a.jpg")
	if err := os.WriteFile(fileA, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(tmpDir, "vanished.jpg")

	if _, err := compareFiles(fileA, missing); err == nil {
		t.Error("compareFiles() error = nil, want error for missing file")
	}
	if _, err := compareFiles(missing, fileA); err == nil {
		t.Error("compareFiles() error = nil, want error for missing first file")
	}
}
