package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"flustudio/internal/execx"
	"flustudio/internal/store"
)

type fakeRunner struct {
	run func(command string, args []string, opts execx.RunOptions) execx.RunResult
}

func (f fakeRunner) Run(_ context.Context, command string, args []string, opts execx.RunOptions) execx.RunResult {
	if f.run == nil {
		return execx.RunResult{}
	}
	return f.run(command, args, opts)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeProject(t *testing.T, root, name string) {
	t.Helper()
	writeFile(t, filepath.Join(root, ManifestName), "name: "+name+"\n")
}

func TestLoadPubspecDependencySources(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `name: demo_app
version: 1.2.0
environment:
  sdk: ">=3.0.0 <4.0.0"
dependencies:
  flutter:
    sdk: flutter
  http: ^1.2.0
  local_widgets:
    path: ../widgets
  data_models:
    git: https://example.com/models.git
  auth_kit:
    git:
      url: https://example.com/auth.git
      ref: main
`)

	ps, err := LoadPubspec(root)
	if err != nil {
		t.Fatalf("LoadPubspec: %v", err)
	}
	if ps.Name != "demo_app" {
		t.Fatalf("name = %q, want demo_app", ps.Name)
	}
	if ps.Environment.SDK != ">=3.0.0 <4.0.0" {
		t.Fatalf("sdk constraint = %q", ps.Environment.SDK)
	}

	flat := ps.FlatDependencies()
	if _, ok := flat["flutter"]; ok {
		t.Fatalf("flutter sdk entry should be skipped, got %v", flat)
	}
	want := map[string]string{
		"http":          "^1.2.0",
		"local_widgets": "path:../widgets",
		"data_models":   "git:https://example.com/models.git",
		"auth_kit":      "git:https://example.com/auth.git",
	}
	for name, spec := range want {
		if flat[name] != spec {
			t.Errorf("dependency %s = %q, want %q", name, flat[name], spec)
		}
	}
}

func TestScanStopsAtProjectRoot(t *testing.T) {
	root := t.TempDir()

	outer := filepath.Join(root, "apps", "outer")
	writeProject(t, outer, "outer")
	// A nested manifest inside an already-identified project must not
	// produce a second entry.
	writeProject(t, filepath.Join(outer, "example"), "outer_example")

	other := filepath.Join(root, "apps", "other")
	writeProject(t, other, "other")

	writeProject(t, filepath.Join(root, ".hidden", "secret"), "secret")
	writeProject(t, filepath.Join(root, "a", "b", "c", "d", "deep"), "deep")

	found := Scan([]string{root}, 3)

	seen := make(map[string]bool, len(found))
	for _, p := range found {
		seen[p] = true
	}
	if len(found) != 2 || !seen[outer] || !seen[other] {
		t.Fatalf("Scan = %v, want exactly [%s %s]", found, outer, other)
	}
}

func TestMetadataPrefersFVMPin(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "pinned_app")
	writeFile(t, filepath.Join(root, ".fvm", "fvm_config.json"), `{"flutterSdkVersion": "3.19.6"}`)

	called := false
	in := Inspector{
		Runner: fakeRunner{run: func(string, []string, execx.RunOptions) execx.RunResult {
			called = true
			return execx.RunResult{Output: "Flutter 3.24.0 • channel stable", ExitCode: 0}
		}},
		FlutterExe: "flutter",
	}

	p, err := in.Metadata(context.Background(), root)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if p.SDKVersionLabel != "FVM: 3.19.6" {
		t.Fatalf("label = %q, want FVM: 3.19.6", p.SDKVersionLabel)
	}
	if called {
		t.Fatal("flutter --version should not run when an FVM pin exists")
	}
}

func TestMetadataProbesToolchainVersion(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `name: probe_app
dependencies:
  http: ^1.0.0
`)

	in := Inspector{
		Runner: fakeRunner{run: func(command string, args []string, opts execx.RunOptions) execx.RunResult {
			if command != "flutter" || len(args) != 1 || args[0] != "--version" {
				t.Fatalf("unexpected command %s %v", command, args)
			}
			if opts.Dir != root {
				t.Fatalf("command dir = %q, want %q", opts.Dir, root)
			}
			return execx.RunResult{
				Output:   "Flutter 3.24.0 • channel stable • https://github.com/flutter/flutter.git\nFramework • revision abc",
				ExitCode: 0,
			}
		}},
		FlutterExe: "flutter",
	}

	p, err := in.Metadata(context.Background(), root)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if p.SDKVersionLabel != "Flutter 3.24.0" {
		t.Fatalf("label = %q, want Flutter 3.24.0", p.SDKVersionLabel)
	}
	if p.Name != "probe_app" || p.PackageName != "probe_app" {
		t.Fatalf("name = %q package = %q", p.Name, p.PackageName)
	}
	if p.Dependencies["http"] != "^1.0.0" {
		t.Fatalf("dependencies = %v", p.Dependencies)
	}
}

func TestMetadataToolchainFailureDegrades(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "broken_toolchain")

	in := Inspector{
		Runner: fakeRunner{run: func(string, []string, execx.RunOptions) execx.RunResult {
			return execx.RunResult{Output: "Command timed out", ExitCode: 1, TimedOut: true}
		}},
		FlutterExe: "flutter",
	}

	p, err := in.Metadata(context.Background(), root)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if p.SDKVersionLabel != "" {
		t.Fatalf("label = %q, want empty on probe failure", p.SDKVersionLabel)
	}
}

func TestRefreshPreservesInputOrder(t *testing.T) {
	base := t.TempDir()

	var projects []store.Project
	for _, name := range []string{"alpha", "bravo", "charlie", "delta", "echo"} {
		root := filepath.Join(base, name)
		writeProject(t, root, name)
		projects = append(projects, store.Project{Path: root, Name: "stale_" + name})
	}

	// Earlier entries finish last so completion order inverts input order.
	in := Inspector{
		Runner: fakeRunner{run: func(_ string, _ []string, opts execx.RunOptions) execx.RunResult {
			for i, p := range projects {
				if p.Path == opts.Dir {
					time.Sleep(time.Duration(len(projects)-i) * 10 * time.Millisecond)
				}
			}
			return execx.RunResult{Output: "Flutter 3.24.0", ExitCode: 0}
		}},
		FlutterExe: "flutter",
	}

	results := in.Refresh(context.Background(), projects, RefreshOptions{Parallelism: 3})
	if len(results) != len(projects) {
		t.Fatalf("got %d results, want %d", len(results), len(projects))
	}
	for i, res := range results {
		if res.Path != projects[i].Path {
			t.Fatalf("result %d path = %q, want %q", i, res.Path, projects[i].Path)
		}
		if !res.Updated {
			t.Fatalf("result %d not updated: %s", i, res.Error)
		}
		if res.Project.Name == projects[i].Name {
			t.Fatalf("result %d kept stale name %q", i, res.Project.Name)
		}
	}
}

func TestRefreshKeepsOriginalOnFailure(t *testing.T) {
	base := t.TempDir()

	good := filepath.Join(base, "good")
	writeProject(t, good, "good")

	gone := filepath.Join(base, "gone")
	prev := []store.Project{
		{Path: good, Name: "stale_good", Tags: []string{"work"}},
		{Path: gone, Name: "vanished", SDKVersionLabel: "Flutter 3.10.0"},
	}

	in := Inspector{}
	results := in.Refresh(context.Background(), prev, RefreshOptions{})

	if !results[0].Updated || results[0].Project.Name != "good" {
		t.Fatalf("good project not refreshed: %+v", results[0])
	}
	if got := results[0].Project.Tags; len(got) != 1 || got[0] != "work" {
		t.Fatalf("tags not carried through refresh: %v", got)
	}

	if results[1].Updated || results[1].Error == "" {
		t.Fatalf("missing project should fail: %+v", results[1])
	}
	if results[1].Project.Name != "vanished" || results[1].Project.SDKVersionLabel != "Flutter 3.10.0" {
		t.Fatalf("failed refresh must keep the previous record, got %+v", results[1].Project)
	}
}

func TestFindIconPrefersAndroidLauncher(t *testing.T) {
	root := t.TempDir()
	launcher := filepath.Join(root, "android", "app", "src", "main", "res", "mipmap-hdpi", "ic_launcher.png")
	writeFile(t, launcher, "png")
	writeFile(t, filepath.Join(root, "web", "favicon.png"), "png")

	if got := FindIcon(root); got != launcher {
		t.Fatalf("FindIcon = %q, want %q", got, launcher)
	}
}

func TestFindIconPicksLargestFromIconSet(t *testing.T) {
	root := t.TempDir()
	set := filepath.Join(root, "ios", "Runner", "Assets.xcassets", "AppIcon.appiconset")
	writeFile(t, filepath.Join(set, "Icon-20.png"), "tiny")
	writeFile(t, filepath.Join(set, "Icon-1024.png"), "a much larger icon payload")

	if got := FindIcon(root); got != filepath.Join(set, "Icon-1024.png") {
		t.Fatalf("FindIcon = %q, want largest PNG in icon set", got)
	}
}
