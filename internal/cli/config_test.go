package cli

import (
	"testing"

	"flustudio/internal/config"
)

func TestSetConfigKey(t *testing.T) {
	cfg := config.Default()

	if err := setConfigKey(&cfg, "scan.max_depth", "5"); err != nil {
		t.Fatalf("scan.max_depth: %v", err)
	}
	if cfg.Scan.MaxDepth != 5 {
		t.Fatalf("max depth = %d", cfg.Scan.MaxDepth)
	}

	if err := setConfigKey(&cfg, "refresh.parallelism", "8"); err != nil {
		t.Fatalf("refresh.parallelism: %v", err)
	}
	if cfg.Refresh.Parallelism != 8 {
		t.Fatalf("parallelism = %d", cfg.Refresh.Parallelism)
	}

	if err := setConfigKey(&cfg, "editors.vscode", "/usr/local/bin/code"); err != nil {
		t.Fatalf("editors.vscode: %v", err)
	}
	if cfg.Editors.VSCode != "/usr/local/bin/code" {
		t.Fatalf("vscode = %q", cfg.Editors.VSCode)
	}
}

func TestSetConfigKeyRejectsBadValues(t *testing.T) {
	cfg := config.Default()

	if err := setConfigKey(&cfg, "scan.max_depth", "zero"); err == nil {
		t.Error("non-numeric depth accepted")
	}
	if err := setConfigKey(&cfg, "refresh.parallelism", "-1"); err == nil {
		t.Error("negative parallelism accepted")
	}
	if err := setConfigKey(&cfg, "no.such.key", "x"); err == nil {
		t.Error("unknown key accepted")
	}
}
