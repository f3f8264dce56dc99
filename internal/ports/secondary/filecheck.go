package secondary

import "time"

// FileChecker is the seam for filesystem existence and freshness checks so
// required-file and CI-marker rules can be stubbed in tests.
type FileChecker interface {
	// Glob returns the paths matching a glob pattern.
	Glob(pattern string) ([]string, error)

	// Exists reports whether the path exists.
	Exists(path string) bool

	// ModTime returns the modification time of the path.
	ModTime(path string) (time.Time, error)
}
