package config

import (
	"os"
	"path/filepath"
)

// SearchPaths returns the locations tried for name, first match wins.
// Binary-relative paths come first, then the working directory and the
// config/ and docker/ subdirectories. Paths are deduplicated via filepath.Abs.
func SearchPaths(name string) []string {
	candidates := []string{
		name,
		filepath.Join("config", name),
		filepath.Join("docker", name),
	}

	var paths []string
	if exe, err := os.Executable(); err == nil {
		binDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(binDir, name),
			filepath.Join(binDir, "config", name),
		)
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}

// Discover returns the first existing file among SearchPaths(name).
func Discover(name string) (string, bool) {
	for _, path := range SearchPaths(name) {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
