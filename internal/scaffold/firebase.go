package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"flustudio/internal/project"
)

// firebaseDeps are added to the project manifest by SetupFirebase.
var firebaseDeps = [][2]string{
	{"firebase_core", "^3.0.0"},
	{"firebase_auth", "^5.0.0"},
	{"cloud_firestore", "^5.0.0"},
	{"firebase_storage", "^12.0.0"},
}

// FirebaseResult reports what SetupFirebase changed.
type FirebaseResult struct {
	AddedDeps    []string `json:"added_deps"`
	Placeholders []string `json:"placeholders"`
}

// SetupFirebase adds the Firebase dependencies to the project manifest,
// keeping existing pins, and drops placeholder files where the platform
// config downloads belong.
func SetupFirebase(root string) (FirebaseResult, error) {
	var res FirebaseResult

	manifest := filepath.Join(root, project.ManifestName)
	data, err := os.ReadFile(manifest)
	if err != nil {
		return res, fmt.Errorf("read manifest: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return res, fmt.Errorf("parse manifest: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return res, fmt.Errorf("parse manifest: unexpected document shape")
	}

	deps := mappingValue(doc.Content[0], "dependencies")
	if deps == nil {
		deps = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		doc.Content[0].Content = append(doc.Content[0].Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "dependencies"},
			deps,
		)
	}
	for _, dep := range firebaseDeps {
		if mappingValue(deps, dep[0]) != nil {
			continue
		}
		deps.Content = append(deps.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: dep[0]},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: dep[1]},
		)
		res.AddedDeps = append(res.AddedDeps, dep[0])
	}

	if len(res.AddedDeps) > 0 {
		out, err := yaml.Marshal(&doc)
		if err != nil {
			return res, fmt.Errorf("render manifest: %w", err)
		}
		if err := os.WriteFile(manifest, out, 0o644); err != nil {
			return res, fmt.Errorf("write manifest: %w", err)
		}
	}

	placeholders := map[string]string{
		filepath.Join(root, "android", "app"): "google-services.json.placeholder",
		filepath.Join(root, "ios"):            "GoogleService-Info.plist.placeholder",
	}
	for dir, name := range placeholders {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		target := filepath.Join(dir, name)
		note := "# Place the downloaded Firebase config file here.\n"
		if err := os.WriteFile(target, []byte(note), 0o644); err != nil {
			return res, fmt.Errorf("write placeholder %s: %w", name, err)
		}
		res.Placeholders = append(res.Placeholders, target)
	}
	return res, nil
}

// mappingValue returns the value node for key inside a mapping node, or nil.
func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}
