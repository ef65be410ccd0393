// Package scaffold generates architecture skeletons inside existing
// Flutter projects.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"flustudio/internal/project"
)

// FileOp is one filesystem action of a generator: a directory to create,
// or a file to write.
type FileOp struct {
	Path    string // relative to the project root, slash-separated
	Dir     bool
	Content string
}

// Generator produces the file operations for one architecture style.
type Generator struct {
	ID          string
	Name        string
	Description string
	Ops         func() []FileOp
}

var generators = map[string]Generator{}

func register(g Generator) {
	generators[g.ID] = g
}

// Lookup returns the generator registered under id.
func Lookup(id string) (Generator, bool) {
	g, ok := generators[id]
	return g, ok
}

// List returns all registered generators sorted by ID.
func List() []Generator {
	out := make([]Generator, 0, len(generators))
	for _, g := range generators {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Apply runs a generator against the project at root. The root must hold a
// project manifest. Returns the number of operations performed.
func Apply(root string, g Generator) (int, error) {
	if !project.IsProjectRoot(root) {
		return 0, fmt.Errorf("%s is not a flutter project (missing %s)", root, project.ManifestName)
	}

	ops := g.Ops()
	for _, op := range ops {
		target := filepath.Join(root, filepath.FromSlash(op.Path))
		if op.Dir {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return 0, fmt.Errorf("create %s: %w", op.Path, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return 0, fmt.Errorf("prepare %s: %w", op.Path, err)
		}
		if err := os.WriteFile(target, []byte(op.Content), 0o644); err != nil {
			return 0, fmt.Errorf("write %s: %w", op.Path, err)
		}
	}
	return len(ops), nil
}

func dirs(paths ...string) []FileOp {
	ops := make([]FileOp, 0, len(paths))
	for _, p := range paths {
		ops = append(ops, FileOp{Path: p, Dir: true})
	}
	return ops
}
