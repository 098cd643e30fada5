package filesystem

import (
	"os"

	"clipdesk/domain/video"
)

// Checker implements video.FileChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if path names an existing regular file.
// Directories are not media sources.
func (c *Checker) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Ensure Checker implements video.FileChecker
var _ video.FileChecker = (*Checker)(nil)
