package project

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"flustudio/internal/execx"
	"flustudio/internal/logx"
	"flustudio/internal/store"
)

// fvmConfigName is the per-project FVM pin file, relative to the project root.
var fvmConfigName = filepath.Join(".fvm", "fvm_config.json")

var flutterVersionRe = regexp.MustCompile(`Flutter\s+([\d.]+)`)

// Inspector derives project metadata from a project directory.
type Inspector struct {
	// Runner executes flutter when probing the toolchain version.
	Runner execx.Runner

	// FlutterExe is the flutter executable to probe with. Empty means
	// version probing is skipped entirely.
	FlutterExe string

	Logger logx.Logger
}

func (in Inspector) logger() logx.Logger {
	if in.Logger == nil {
		return logx.Noop{}
	}
	return in.Logger
}

// Metadata builds a project record for the directory at root. Every field
// beyond the path is best effort: a broken manifest or unreachable toolchain
// degrades the record instead of failing it.
func (in Inspector) Metadata(ctx context.Context, root string) (store.Project, error) {
	info, err := os.Stat(root)
	if err != nil {
		return store.Project{}, fmt.Errorf("stat project: %w", err)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	p := store.Project{
		Path:         abs,
		Name:         filepath.Base(abs),
		LastModified: info.ModTime(),
	}

	ps, err := LoadPubspec(root)
	if err != nil {
		in.logger().Printf("read %s for %s: %v", ManifestName, abs, err)
	} else {
		if ps.Name != "" {
			p.Name = ps.Name
			p.PackageName = ps.Name
		}
		p.Dependencies = ps.FlatDependencies()
		p.SDKConstraint = ps.Environment.SDK
	}

	p.SDKVersionLabel = in.versionLabel(ctx, root)
	p.IconPath = FindIcon(root)
	return p, nil
}

// versionLabel resolves the SDK version the project runs against. An FVM pin
// wins outright; otherwise the flutter executable itself is asked.
func (in Inspector) versionLabel(ctx context.Context, root string) string {
	if v := fvmPinnedVersion(root); v != "" {
		return "FVM: " + v
	}
	if in.FlutterExe == "" || in.Runner == nil {
		return ""
	}

	res := in.Runner.Run(ctx, in.FlutterExe, []string{"--version"}, execx.RunOptions{Dir: root})
	if res.ExitCode != 0 {
		in.logger().Printf("flutter --version in %s: exit %d", root, res.ExitCode)
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(res.Output), "\n")
	line = strings.TrimSpace(line)
	if m := flutterVersionRe.FindStringSubmatch(line); m != nil {
		return "Flutter " + m[1]
	}
	return line
}

func fvmPinnedVersion(root string) string {
	data, err := os.ReadFile(filepath.Join(root, fvmConfigName))
	if err != nil {
		return ""
	}
	var cfg struct {
		FlutterSDKVersion string `json:"flutterSdkVersion"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ""
	}
	return cfg.FlutterSDKVersion
}
