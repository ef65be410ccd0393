// Package project discovers Flutter projects on disk and derives their
// metadata.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestName is the marker file identifying a Flutter project root.
const ManifestName = "pubspec.yaml"

// DepSource classifies where a dependency is resolved from.
type DepSource string

const (
	DepSourcePub  DepSource = "pub"
	DepSourcePath DepSource = "path"
	DepSourceGit  DepSource = "git"
)

// Dependency is a single pubspec dependency entry. Spec holds the version
// constraint for hosted packages, the local path for path dependencies, or
// the repository URL for git dependencies.
type Dependency struct {
	Source DepSource
	Spec   string
}

// UnmarshalYAML accepts either a plain version string or a nested mapping
// with a path or git key.
func (d *Dependency) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		d.Source = DepSourcePub
		d.Spec = node.Value
		return nil
	case yaml.MappingNode:
		var raw struct {
			Path string `yaml:"path"`
			Git  any    `yaml:"git"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if raw.Path != "" {
			d.Source = DepSourcePath
			d.Spec = raw.Path
			return nil
		}
		if raw.Git != nil {
			d.Source = DepSourceGit
			switch git := raw.Git.(type) {
			case string:
				d.Spec = git
			case map[string]any:
				if url, ok := git["url"].(string); ok {
					d.Spec = url
				}
			}
			return nil
		}
		// Hosted package with extended options; no version pin recorded.
		d.Source = DepSourcePub
		return nil
	default:
		d.Source = DepSourcePub
		return nil
	}
}

// Pubspec is the subset of the project manifest this tool reads.
type Pubspec struct {
	Name            string                `yaml:"name"`
	Version         string                `yaml:"version"`
	Dependencies    map[string]Dependency `yaml:"dependencies"`
	DevDependencies map[string]Dependency `yaml:"dev_dependencies"`
	Environment     struct {
		SDK     string `yaml:"sdk"`
		Flutter string `yaml:"flutter"`
	} `yaml:"environment"`
}

// LoadPubspec reads and parses the manifest inside root.
func LoadPubspec(root string) (Pubspec, error) {
	data, err := os.ReadFile(filepath.Join(root, ManifestName))
	if err != nil {
		return Pubspec{}, fmt.Errorf("read manifest: %w", err)
	}
	var ps Pubspec
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return Pubspec{}, fmt.Errorf("parse manifest: %w", err)
	}
	return ps, nil
}

// FlatDependencies renders the dependency map to plain name -> spec strings,
// prefixing non-hosted sources so the origin stays visible. The flutter and
// flutter_test SDK entries are skipped.
func (p Pubspec) FlatDependencies() map[string]string {
	out := make(map[string]string, len(p.Dependencies))
	for name, dep := range p.Dependencies {
		if name == "flutter" || name == "flutter_test" {
			continue
		}
		switch dep.Source {
		case DepSourcePath:
			out[name] = "path:" + dep.Spec
		case DepSourceGit:
			out[name] = "git:" + dep.Spec
		default:
			out[name] = dep.Spec
		}
	}
	return out
}

// IsProjectRoot reports whether dir contains a project manifest.
func IsProjectRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ManifestName))
	return err == nil && info.Mode().IsRegular()
}
