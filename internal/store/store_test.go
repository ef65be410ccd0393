package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "flustudio.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertProjectIsIdempotentOnPath(t *testing.T) {
	s := openTestStore(t)

	p := Project{Path: "/tmp/app", Name: "app"}
	if err := s.UpsertProject(p); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	p.Name = "renamed"
	if err := s.UpsertProject(p); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	projects, err := s.ListProjects(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}
	if projects[0].Name != "renamed" {
		t.Fatalf("name = %q, want renamed", projects[0].Name)
	}
}

func TestProjectTagsRoundTripAndValidation(t *testing.T) {
	s := openTestStore(t)

	if err := s.UpsertProject(Project{Path: "/tmp/a", Name: "a", Tags: []string{"work", "flutter-3"}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.UpsertProject(Project{Path: "/tmp/b", Name: "b", Tags: []string{"work"}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := s.UpsertProject(Project{Path: "/tmp/c", Name: "c", Tags: []string{"has space"}}); err == nil {
		t.Fatal("expected tag with a space to be rejected")
	}

	byTag, err := s.ListProjectsByTag("work")
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if len(byTag) != 2 {
		t.Fatalf("got %d projects for tag work, want 2", len(byTag))
	}

	tags, err := s.AllTags()
	if err != nil {
		t.Fatalf("all tags: %v", err)
	}
	if len(tags) != 2 || tags[0] != "flutter-3" || tags[1] != "work" {
		t.Fatalf("tags = %v", tags)
	}
}

func TestListProjectsPurgesStaleEntries(t *testing.T) {
	s := openTestStore(t)

	valid := t.TempDir()
	if err := os.WriteFile(filepath.Join(valid, "pubspec.yaml"), []byte("name: ok\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s.ValidateProject = func(path string) bool {
		_, err := os.Stat(filepath.Join(path, "pubspec.yaml"))
		return err == nil
	}

	if err := s.UpsertProject(Project{Path: valid, Name: "ok"}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertProject(Project{Path: "/nowhere/gone", Name: "gone"}); err != nil {
		t.Fatal(err)
	}

	projects, err := s.ListProjects(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 1 || projects[0].Path != valid {
		t.Fatalf("projects = %+v", projects)
	}

	// The stale row is gone even without a validator.
	s.ValidateProject = nil
	projects, err = s.ListProjects(0)
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("stale entry not purged: %+v", projects)
	}
}

func TestListProjectsFillsPageDespiteStaleEntries(t *testing.T) {
	s := openTestStore(t)
	s.ValidateProject = func(path string) bool {
		return !strings.HasPrefix(path, "/gone/")
	}

	// Three stale rows with the newest access times sort ahead of the
	// two live ones; a page of two must still hold both live projects.
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, path := range []string{"/gone/a", "/gone/b", "/gone/c"} {
		p := Project{Path: path, Name: "stale", LastAccessed: base.Add(time.Duration(i+10) * time.Minute)}
		if err := s.UpsertProject(p); err != nil {
			t.Fatal(err)
		}
	}
	for i, path := range []string{"/live/a", "/live/b"} {
		p := Project{Path: path, Name: "live", LastAccessed: base.Add(time.Duration(i) * time.Minute)}
		if err := s.UpsertProject(p); err != nil {
			t.Fatal(err)
		}
	}

	projects, err := s.ListProjects(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("got %d projects, want a full page of 2: %+v", len(projects), projects)
	}
	for _, p := range projects {
		if p.Name != "live" {
			t.Fatalf("stale project in page: %+v", p)
		}
	}
}

func TestUpsertSDKKeepsDefaultOnReRegister(t *testing.T) {
	s := openTestStore(t)

	if err := s.UpsertSDK(SDK{Path: "/sdk/a", Version: "3.24.0", Channel: "stable", IsManaged: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetDefaultSDK("/sdk/a"); err != nil {
		t.Fatal(err)
	}

	// A reinstall registers the same path again with a fresh record.
	if err := s.UpsertSDK(SDK{Path: "/sdk/a", Version: "3.24.1", Channel: "stable", IsManaged: true}); err != nil {
		t.Fatal(err)
	}

	def, err := s.DefaultSDK()
	if err != nil {
		t.Fatalf("default lost after re-register: %v", err)
	}
	if def.Path != "/sdk/a" || def.Version != "3.24.1" {
		t.Fatalf("default = %+v", def)
	}
}

func TestSetDefaultSDKKeepsExactlyOneDefault(t *testing.T) {
	s := openTestStore(t)

	for _, path := range []string{"/sdk/a", "/sdk/b", "/sdk/c"} {
		if err := s.UpsertSDK(SDK{Path: path, Version: "3.24.0", Channel: "stable"}); err != nil {
			t.Fatalf("upsert sdk: %v", err)
		}
	}

	for _, target := range []string{"/sdk/a", "/sdk/c", "/sdk/b", "/sdk/b"} {
		if err := s.SetDefaultSDK(target); err != nil {
			t.Fatalf("set default %s: %v", target, err)
		}
		sdks, err := s.ListSDKs()
		if err != nil {
			t.Fatalf("list sdks: %v", err)
		}
		defaults := 0
		for _, sdk := range sdks {
			if sdk.IsDefault {
				defaults++
				if sdk.Path != target {
					t.Fatalf("default is %s, want %s", sdk.Path, target)
				}
			}
		}
		if defaults != 1 {
			t.Fatalf("found %d defaults after switching to %s", defaults, target)
		}
	}

	if err := s.SetDefaultSDK("/sdk/missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("set default on unknown path: err = %v, want ErrNotFound", err)
	}
	// The failed switch must not have cleared the previous default.
	def, err := s.DefaultSDK()
	if err != nil {
		t.Fatalf("default sdk: %v", err)
	}
	if def.Path != "/sdk/b" {
		t.Fatalf("default = %s, want /sdk/b", def.Path)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetSetting("theme"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.SetSetting("theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := s.GetSetting("theme")
	if err != nil || v != "dark" {
		t.Fatalf("get = %q, %v", v, err)
	}
	if err := s.SetSetting("theme", "light"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _ = s.GetSetting("theme")
	if v != "light" {
		t.Fatalf("get after overwrite = %q", v)
	}
	if err := s.DeleteSetting("theme"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetSetting("theme"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestTemplatesRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.UpsertTemplate(Template{ID: "riverpod", Version: "1.0.0", Author: "flustudio", Enabled: true}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.UpsertTemplate(Template{ID: "riverpod", Version: "1.1.0", Author: "flustudio", Enabled: false}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	templates, err := s.ListTemplates()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("got %d templates, want 1", len(templates))
	}
	if templates[0].Version != "1.1.0" || templates[0].Enabled {
		t.Fatalf("template = %+v", templates[0])
	}
}
