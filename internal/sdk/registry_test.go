package sdk

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flustudio/internal/execx"
	"flustudio/internal/pathenv"
	"flustudio/internal/store"
)

type fakeRunner struct {
	output   string
	exitCode int
}

func (f fakeRunner) Run(context.Context, string, []string, execx.RunOptions) execx.RunResult {
	return execx.RunResult{Output: f.output, ExitCode: f.exitCode}
}

func makeSDK(t *testing.T, dir string) string {
	t.Helper()
	bin := filepath.Join(dir, "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", bin, err)
	}
	for _, name := range []string{"flutter", "flutter.bat"} {
		if err := os.WriteFile(filepath.Join(bin, name), []byte("launcher"), 0o755); err != nil {
			t.Fatalf("write launcher: %v", err)
		}
	}
	return dir
}

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "flustudio.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	shellCfg := filepath.Join(t.TempDir(), ".bashrc")
	r := &Registry{
		Store:   st,
		Runner:  fakeRunner{output: "Flutter 3.24.0 • channel stable", exitCode: 0},
		Path:    pathenv.Editor{ConfigFile: shellCfg},
		BaseDir: t.TempDir(),
	}
	return r, shellCfg
}

func TestUseSwitchesDefaultAndPath(t *testing.T) {
	r, shellCfg := newTestRegistry(t)
	t.Setenv("PATH", "/usr/bin")

	a := makeSDK(t, filepath.Join(r.BaseDir, "flutter_3.19.0"))
	b := makeSDK(t, filepath.Join(r.BaseDir, "flutter_3.24.0"))
	for _, dir := range []string{a, b} {
		if _, err := r.Add(context.Background(), dir); err != nil {
			t.Fatalf("Add %s: %v", dir, err)
		}
	}

	if err := r.Use(a, true); err != nil {
		t.Fatalf("Use a: %v", err)
	}
	if err := r.Use(b, true); err != nil {
		t.Fatalf("Use b: %v", err)
	}

	def, err := r.Store.DefaultSDK()
	if err != nil {
		t.Fatalf("DefaultSDK: %v", err)
	}
	if def.Path != b {
		t.Fatalf("default = %q, want %q", def.Path, b)
	}

	data, err := os.ReadFile(shellCfg)
	if err != nil {
		t.Fatalf("read shell config: %v", err)
	}
	if strings.Contains(string(data), BinDir(a)) {
		t.Fatalf("old sdk bin still on PATH: %q", data)
	}
	if !strings.Contains(string(data), BinDir(b)) {
		t.Fatalf("new sdk bin missing from PATH: %q", data)
	}

	if exe := r.DefaultExecutable(); exe != filepath.Join(b, "bin", binaryName()) {
		t.Fatalf("DefaultExecutable = %q", exe)
	}
}

func TestUseRejectsInvalidDirectory(t *testing.T) {
	r, _ := newTestRegistry(t)
	if err := r.Use(t.TempDir(), false); err == nil {
		t.Fatal("expected error for a directory without a launcher")
	}
}

func TestRemoveManagedDeletesDirectory(t *testing.T) {
	r, _ := newTestRegistry(t)
	managed := makeSDK(t, filepath.Join(r.BaseDir, "flutter_3.24.0"))
	if _, err := r.Add(context.Background(), managed); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := r.Remove(managed); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(managed); !os.IsNotExist(err) {
		t.Fatal("managed sdk directory still on disk")
	}
	if _, err := r.Store.GetSDK(managed); err != store.ErrNotFound {
		t.Fatalf("GetSDK after remove: %v", err)
	}
}

func TestRemoveExternalKeepsDirectory(t *testing.T) {
	r, _ := newTestRegistry(t)
	external := makeSDK(t, t.TempDir())
	if _, err := r.Add(context.Background(), external); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := r.Remove(external); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !Validate(external) {
		t.Fatal("external sdk directory was deleted")
	}
	if _, err := r.Store.GetSDK(external); err != store.ErrNotFound {
		t.Fatalf("GetSDK after remove: %v", err)
	}
}

func TestListInstalledAdoptsManagedDirsAndDropsStale(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx := context.Background()

	// A registered SDK whose directory disappeared.
	gone := makeSDK(t, t.TempDir())
	if _, err := r.Add(ctx, gone); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := os.RemoveAll(gone); err != nil {
		t.Fatalf("remove sdk dir: %v", err)
	}

	// An unregistered install sitting in the managed directory.
	adopted := makeSDK(t, filepath.Join(r.BaseDir, "flutter_3.22.0"))

	sdks, err := r.ListInstalled(ctx)
	if err != nil {
		t.Fatalf("ListInstalled: %v", err)
	}
	for _, s := range sdks {
		if s.Path == gone {
			t.Fatalf("stale sdk still listed: %+v", s)
		}
	}
	found := false
	for _, s := range sdks {
		if s.Path == adopted {
			found = true
			if !s.IsManaged {
				t.Fatalf("adopted sdk not marked managed: %+v", s)
			}
			if s.Version != "3.24.0" {
				t.Fatalf("adopted sdk version = %q, want probed 3.24.0", s.Version)
			}
		}
	}
	if !found {
		t.Fatalf("managed install not adopted: %+v", sdks)
	}
}
