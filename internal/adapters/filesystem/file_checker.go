package filesystem

import (
	"os"
	"path/filepath"
	"time"

	"github.com/example/warden/internal/ports/secondary"
)

// FileChecker implements the file existence/freshness seam against the real
// filesystem.
type FileChecker struct{}

// NewFileChecker creates a FileChecker.
func NewFileChecker() *FileChecker {
	return &FileChecker{}
}

// Glob returns the paths matching a glob pattern.
func (c *FileChecker) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// Exists reports whether the path exists.
func (c *FileChecker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ModTime returns the modification time of the path.
func (c *FileChecker) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Ensure FileChecker implements the interface
var _ secondary.FileChecker = (*FileChecker)(nil)
