package paths

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestImagePathUsesBase(t *testing.T) {
	b := New("")
	want := filepath.Join("sdxl-outputs", "a.png")
	if got := b.ImagePath("a.png"); got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}
	b = New("custom")
	if got := b.ImagePath("a.png"); got != filepath.Join("custom", "a.png") {
		t.Fatalf("custom base not used: %q", got)
	}
}

func TestDefaultImageName(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	if got := DefaultImageName(ts); got != "sdxl_1700000000.png" {
		t.Fatalf("name = %q", got)
	}
}

func TestBatchImageName(t *testing.T) {
	if got := BatchImageName("profile", 7); got != "profile_007.png" {
		t.Fatalf("name = %q", got)
	}
	if got := BatchImageName("", 0); got != "batch_000.png" {
		t.Fatalf("default prefix name = %q", got)
	}
}

func TestEnsureDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	b := New(base)
	if err := b.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
}

func TestCheckOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "x.png")
	if err := os.WriteFile(existing, []byte("img"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := CheckOverwrite([]string{existing}, false); err == nil {
		t.Fatalf("expected error for existing file")
	}
	if err := CheckOverwrite([]string{existing}, true); err != nil {
		t.Fatalf("overwrite=true should pass: %v", err)
	}
	if err := CheckOverwrite([]string{filepath.Join(dir, "missing.png")}, false); err != nil {
		t.Fatalf("missing file should pass: %v", err)
	}
}
