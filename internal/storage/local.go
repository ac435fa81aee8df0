// Package storage implements the local blob filesystem: raw bytes for
// uploaded files and their derived thumbnails under a configured root.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ThumbnailWidths are the fixed widths of derived image renditions,
// largest first.
var ThumbnailWidths = []int{500, 250, 100}

// Local stores blobs as uniquely named files under a root directory.
type Local struct {
	root string
}

// NewLocal creates a Local store rooted at the given directory. The root
// is created on first write if absent.
func NewLocal(root string) *Local {
	return &Local{root: root}
}

// Root returns the storage root directory.
func (l *Local) Root() string {
	return l.root
}

// Write persists data to a new uniquely named path under the root and
// returns the absolute path. Paths are assigned once at creation and the
// blob is never moved afterwards.
func (l *Local) Write(data []byte) (string, error) {
	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage root %s: %w", l.root, err)
	}

	path := filepath.Join(l.root, uuid.NewString())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob %s: %w", path, err)
	}
	return path, nil
}

// Read returns the raw bytes stored at path.
func (l *Local) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", path, err)
	}
	return data, nil
}

// Exists reports whether a blob is present at path.
func (l *Local) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// VariantPath returns the deterministic path of a size variant: the width
// is suffixed to the filename before the extension, e.g. photo.png ->
// photo_250.png. Blobs without an extension get the suffix appended.
func VariantPath(path string, width int) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s_%d%s", base, width, ext)
}
