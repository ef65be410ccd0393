package project

import (
	"os"
	"path/filepath"
	"strings"
)

// Scan walks each root looking for project directories, descending at most
// maxDepth levels. Hidden directories are skipped. Once a directory is
// identified as a project root it is not descended into, so vendored or
// generated sub-packages inside a project are never reported as projects of
// their own. Unreadable directories are skipped silently.
//
// Results come back in depth-first order with sibling order as returned by
// the filesystem; callers needing determinism must sort downstream.
func Scan(roots []string, maxDepth int) []string {
	var found []string
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		scanDir(abs, 0, maxDepth, &found)
	}
	return found
}

func scanDir(dir string, depth, maxDepth int, found *[]string) {
	if depth > maxDepth {
		return
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return
	}

	if IsProjectRoot(dir) {
		*found = append(*found, dir)
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		scanDir(filepath.Join(dir, entry.Name()), depth+1, maxDepth, found)
	}
}
