package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const defaultBaseDir = "sdxl-outputs"

// Builder constructs output paths for generated images rooted at Base
// (default "sdxl-outputs").
type Builder struct {
	Base string
}

func New(base string) *Builder {
	if base == "" {
		base = defaultBaseDir
	}
	return &Builder{Base: base}
}

// ImagePath returns the full path for a named image file.
func (b *Builder) ImagePath(name string) string {
	return filepath.Join(b.Base, name)
}

// DefaultImageName returns the timestamped default file name.
func DefaultImageName(t time.Time) string {
	return fmt.Sprintf("sdxl_%d.png", t.Unix())
}

// BatchImageName returns the zero-padded file name for entry i of a batch.
func BatchImageName(prefix string, i int) string {
	if prefix == "" {
		prefix = "batch"
	}
	return fmt.Sprintf("%s_%03d.png", prefix, i)
}

// EnsureDir creates the output directory if it does not exist.
func (b *Builder) EnsureDir() error {
	return os.MkdirAll(b.Base, 0o755)
}

// CheckOverwrite enforces overwrite behavior. If any path exists and overwrite is false, returns error.
func CheckOverwrite(paths []string, overwrite bool) error {
	if overwrite {
		return nil
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("refusing to overwrite existing file: %s (use --overwrite)", p)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking file: %s: %w", p, err)
		}
	}
	return nil
}
