package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/andrew-pyle/chronam/pkg/errors"
)

func TestReserveDirectoryFreeName(t *testing.T) {
	tempDir := t.TempDir()
	base := filepath.Join(tempDir, "sn12345")

	name, err := ReserveDirectory(base, 10)
	if err != nil {
		t.Fatalf("Failed to reserve directory: %v", err)
	}
	if name != base {
		t.Errorf("Expected %q, got %q", base, name)
	}

	info, err := os.Stat(name)
	if err != nil || !info.IsDir() {
		t.Errorf("Expected directory to exist at %q", name)
	}
}

func TestReserveDirectoryAppendsCopySuffix(t *testing.T) {
	tempDir := t.TempDir()
	base := filepath.Join(tempDir, "sn12345")

	// Occupy the base name
	if err := os.Mkdir(base, 0755); err != nil {
		t.Fatalf("Failed to create base directory: %v", err)
	}

	name, err := ReserveDirectory(base, 10)
	if err != nil {
		t.Fatalf("Failed to reserve directory: %v", err)
	}
	if name != base+" (copy 1)" {
		t.Errorf("Expected %q, got %q", base+" (copy 1)", name)
	}

	// Occupy that one too; the next reservation moves to (copy 2)
	name2, err := ReserveDirectory(base, 10)
	if err != nil {
		t.Fatalf("Failed to reserve directory: %v", err)
	}
	if name2 != base+" (copy 2)" {
		t.Errorf("Expected %q, got %q", base+" (copy 2)", name2)
	}
}

func TestReserveDirectoryExhaustsAttempts(t *testing.T) {
	tempDir := t.TempDir()
	base := filepath.Join(tempDir, "sn12345")

	if err := os.Mkdir(base, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(base+" (copy 1)", 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(base+" (copy 2)", 0755); err != nil {
		t.Fatal(err)
	}

	_, err := ReserveDirectory(base, 2)
	if err == nil {
		t.Fatal("Expected error when all names are taken")
	}
	if !errors.IsType(err, errors.ErrorTypeDirectoryReservation) {
		t.Errorf("Expected directory reservation error, got %v", err)
	}
}

func TestManagerPersist(t *testing.T) {
	tempDir := t.TempDir()
	dir := filepath.Join(tempDir, "sn12345")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}

	manager, err := NewManager(dir, nil)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	entries := []Entry{
		{Key: "1900-01-01", Text: "first issue text"},
		{Key: "1900-01-02", Text: "second issue text"},
		{Key: "1900-01-02-ed-2", Text: "second edition text"},
	}

	count, err := manager.Persist(entries)
	if err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if count != len(entries) {
		t.Errorf("Expected %d files written, got %d", len(entries), count)
	}

	// One file per entry, named <key>.txt, with the issue text verbatim
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Key+".txt")
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read %q: %v", path, err)
		}
		if string(content) != entry.Text {
			t.Errorf("File %q content mismatch: got %q", path, string(content))
		}
	}

	// No residual files beyond the persisted entries
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(dirEntries) != len(entries) {
		t.Errorf("Expected exactly %d files in directory, got %d", len(entries), len(dirEntries))
	}
}

func TestManagerRequiresExistingDirectory(t *testing.T) {
	tempDir := t.TempDir()

	_, err := NewManager(filepath.Join(tempDir, "does-not-exist"), nil)
	if err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestManagerPersistSurfacesWriteFailure(t *testing.T) {
	tempDir := t.TempDir()
	dir := filepath.Join(tempDir, "sn12345")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}

	manager, err := NewManager(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	// A key containing a path separator to a missing directory cannot be
	// written; earlier entries must survive.
	entries := []Entry{
		{Key: "1900-01-01", Text: "ok"},
		{Key: filepath.Join("missing-subdir", "1900-01-02"), Text: "fails"},
	}

	count, err := manager.Persist(entries)
	if err == nil {
		t.Fatal("Expected write failure")
	}
	if !errors.IsType(err, errors.ErrorTypeFileWrite) {
		t.Errorf("Expected file write error, got %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 file written before the failure, got %d", count)
	}

	// The file written before the failure remains on disk
	if _, statErr := os.Stat(filepath.Join(dir, "1900-01-01.txt")); statErr != nil {
		t.Errorf("Expected earlier file to remain: %v", statErr)
	}
}
