package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// VideoExtensions are the container extensions considered when looking for a source
var VideoExtensions = []string{".mp4", ".mkv", ".avi", ".mov", ".webm"}

// ErrNoMatchingFiles is returned when a directory holds no file with a wanted extension
var ErrNoMatchingFiles = errors.New("no matching files found")

// FindNewestFile returns the most recently modified regular file in dir whose
// extension (case-insensitive) is one of exts.
func FindNewestFile(dir string, exts ...string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory: %w", err)
	}

	var latestPath string
	var latestTime time.Time

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !slices.Contains(exts, strings.ToLower(filepath.Ext(entry.Name()))) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latestPath == "" || info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestPath = filepath.Join(dir, entry.Name())
		}
	}

	if latestPath == "" {
		return "", fmt.Errorf("%w: %s in %s", ErrNoMatchingFiles, strings.Join(exts, " "), dir)
	}

	return latestPath, nil
}

// FindNewestVideo returns the newest video container in dir
func FindNewestVideo(dir string) (string, error) {
	return FindNewestFile(dir, VideoExtensions...)
}
