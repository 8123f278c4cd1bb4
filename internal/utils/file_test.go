package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"photo.png", true},
		{"photo.webp", true},
		{"report.json", false},
		{"noextension", false},
	}
	for _, tt := range tests {
		if got := IsImageFile(tt.filename); got != tt.want {
			t.Errorf("IsImageFile(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestReportFilename(t *testing.T) {
	got := ReportFilename("/photos/paw.jpg", "/reports")
	want := filepath.Join("/reports", "paw_triage.json")
	if got != want {
		t.Errorf("ReportFilename() = %q, want %q", got, want)
	}
}

func TestListImageFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "b.png", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "d.webp"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	files, err := ListImageFiles(dir)
	if err != nil {
		t.Fatalf("ListImageFiles failed: %v", err)
	}
	if len(files) != 3 {
		t.Errorf("Expected 3 image files, got %d: %v", len(files), files)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "new", "nested")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	if !DirExists(dir) {
		t.Error("Directory was not created")
	}
	// Idempotent on an existing directory.
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir on existing dir failed: %v", err)
	}
}
