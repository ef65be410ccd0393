package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flustudio/internal/project"
)

func seedProject(t *testing.T, manifest string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, project.ManifestName), []byte(manifest), 0o644); err != nil {
		t.Fatalf("seed manifest: %v", err)
	}
	return root
}

func TestApplyCleanArch(t *testing.T) {
	root := seedProject(t, "name: demo\n")
	g, ok := Lookup("clean_arch")
	if !ok {
		t.Fatal("clean_arch generator not registered")
	}

	n, err := Apply(root, g)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if n == 0 {
		t.Fatal("no operations performed")
	}

	for _, dir := range []string{
		"lib/core/error",
		"lib/features/example_feature/domain/usecases",
		"lib/features/example_feature/presentation/pages",
	} {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(dir)))
		if err != nil || !info.IsDir() {
			t.Fatalf("missing directory %s: %v", dir, err)
		}
	}
}

func TestApplyMVVMWritesBaseViewModel(t *testing.T) {
	root := seedProject(t, "name: demo\n")
	g, _ := Lookup("mvvm")

	if _, err := Apply(root, g); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "lib", "core", "base", "base_viewmodel.dart"))
	if err != nil {
		t.Fatalf("read base viewmodel: %v", err)
	}
	if !strings.Contains(string(data), "abstract class BaseViewModel") {
		t.Fatalf("unexpected viewmodel content: %q", data)
	}
}

func TestApplyRequiresProject(t *testing.T) {
	g, _ := Lookup("riverpod")
	if _, err := Apply(t.TempDir(), g); err == nil {
		t.Fatal("expected error outside a project root")
	}
}

func TestListIsSortedAndComplete(t *testing.T) {
	got := List()
	var ids []string
	for _, g := range got {
		ids = append(ids, g.ID)
	}
	want := []string{"clean_arch", "getx", "mvvm", "riverpod"}
	if len(ids) != len(want) {
		t.Fatalf("generators = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("generators = %v, want %v", ids, want)
		}
	}
}

func TestSetupFirebaseAddsMissingDeps(t *testing.T) {
	root := seedProject(t, `name: demo
dependencies:
  flutter:
    sdk: flutter
  firebase_core: ^2.0.0
`)
	if err := os.MkdirAll(filepath.Join(root, "android", "app"), 0o755); err != nil {
		t.Fatalf("mkdir android: %v", err)
	}

	res, err := SetupFirebase(root)
	if err != nil {
		t.Fatalf("SetupFirebase: %v", err)
	}

	for _, dep := range res.AddedDeps {
		if dep == "firebase_core" {
			t.Fatal("existing firebase_core pin was replaced")
		}
	}
	if len(res.AddedDeps) != 3 {
		t.Fatalf("added deps = %v, want the 3 missing ones", res.AddedDeps)
	}

	ps, err := project.LoadPubspec(root)
	if err != nil {
		t.Fatalf("reload manifest: %v", err)
	}
	flat := ps.FlatDependencies()
	if flat["firebase_core"] != "^2.0.0" {
		t.Fatalf("firebase_core = %q, want preserved ^2.0.0", flat["firebase_core"])
	}
	for _, dep := range []string{"firebase_auth", "cloud_firestore", "firebase_storage"} {
		if flat[dep] == "" {
			t.Fatalf("missing added dependency %s: %v", dep, flat)
		}
	}

	if len(res.Placeholders) != 1 {
		t.Fatalf("placeholders = %v, want android only", res.Placeholders)
	}
	if _, err := os.Stat(filepath.Join(root, "android", "app", "google-services.json.placeholder")); err != nil {
		t.Fatalf("missing android placeholder: %v", err)
	}
}
