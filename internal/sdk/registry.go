package sdk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"

	"flustudio/internal/execx"
	"flustudio/internal/logx"
	"flustudio/internal/pathenv"
	"flustudio/internal/store"
)

var versionOutputRe = regexp.MustCompile(`Flutter\s+([\d.]+)`)

// Registry tracks installed SDKs and which one is the default. All
// mutating operations serialize on a single mutex: installs, removals and
// default switches never interleave.
type Registry struct {
	Store  *store.Store
	Runner execx.Runner
	Path   pathenv.Editor
	Logger logx.Logger

	// BaseDir is the managed SDK directory. SDKs under it belong to this
	// tool and are deleted from disk on removal; SDKs elsewhere are only
	// deregistered.
	BaseDir string

	mu sync.Mutex
}

func (r *Registry) logger() logx.Logger {
	if r.Logger == nil {
		return logx.Noop{}
	}
	return r.Logger
}

func (r *Registry) runner() execx.Runner {
	if r.Runner == nil {
		return execx.CmdRunner{}
	}
	return r.Runner
}

// ListInstalled returns every known SDK, dropping database rows whose
// directory no longer validates and picking up unregistered installs found
// in the managed directory or the conventional system locations.
func (r *Registry) ListInstalled(ctx context.Context) ([]store.SDK, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	known, err := r.Store.ListSDKs()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(known))
	var sdks []store.SDK
	for _, s := range known {
		if !Validate(s.Path) {
			if err := r.Store.DeleteSDK(s.Path); err != nil {
				r.logger().Printf("drop stale sdk %s: %v", s.Path, err)
			}
			continue
		}
		seen[s.Path] = true
		sdks = append(sdks, s)
	}

	for _, dir := range append(r.managedDirs(), Discover()...) {
		if seen[dir] {
			continue
		}
		s := store.SDK{
			Path:        dir,
			Version:     r.probeVersion(ctx, dir),
			Channel:     ChannelStable,
			IsManaged:   r.IsManaged(dir),
			InstalledAt: time.Now(),
		}
		if err := r.Store.UpsertSDK(s); err != nil {
			r.logger().Printf("register sdk %s: %v", dir, err)
			continue
		}
		seen[dir] = true
		sdks = append(sdks, s)
	}
	return sdks, nil
}

func (r *Registry) managedDirs() []string {
	entries, err := os.ReadDir(r.BaseDir)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(r.BaseDir, e.Name())
		if Validate(dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// IsManaged reports whether dir lives inside the managed SDK directory.
func (r *Registry) IsManaged(dir string) bool {
	rel, err := filepath.Rel(r.BaseDir, dir)
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..")
}

// Add registers an existing SDK directory without taking ownership of it.
func (r *Registry) Add(ctx context.Context, dir string) (store.SDK, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return store.SDK{}, fmt.Errorf("resolve sdk path: %w", err)
	}
	if !Validate(abs) {
		return store.SDK{}, fmt.Errorf("not a flutter sdk: %s", abs)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := store.SDK{
		Path:        abs,
		Version:     r.probeVersion(ctx, abs),
		Channel:     ChannelStable,
		IsManaged:   r.IsManaged(abs),
		InstalledAt: time.Now(),
	}
	if err := r.Store.UpsertSDK(s); err != nil {
		return store.SDK{}, err
	}
	return s, nil
}

// RegisterInstall records a freshly installed managed SDK.
func (r *Registry) RegisterInstall(dir, version, channel string) (store.SDK, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := store.SDK{
		Path:        dir,
		Version:     version,
		Channel:     NormalizeChannel(channel, version),
		IsManaged:   true,
		InstalledAt: time.Now(),
	}
	if err := r.Store.UpsertSDK(s); err != nil {
		return store.SDK{}, err
	}
	return s, nil
}

// Remove deregisters an SDK. Managed installs are also deleted from disk;
// external SDKs are left untouched. Its bin directory is dropped from the
// persistent PATH either way.
func (r *Registry) Remove(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve sdk path: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.IsManaged(abs) {
		if err := os.RemoveAll(abs); err != nil {
			return fmt.Errorf("delete sdk directory: %w", err)
		}
	}
	if err := r.Path.Remove(BinDir(abs)); err != nil {
		r.logger().Printf("remove %s from PATH: %v", BinDir(abs), err)
	}
	return r.Store.DeleteSDK(abs)
}

// Use makes the SDK at dir the default. With updatePath every known SDK
// bin directory is scrubbed from the persistent PATH before the new one is
// appended, so exactly one flutter wins lookup.
func (r *Registry) Use(dir string, updatePath bool) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve sdk path: %w", err)
	}
	if !Validate(abs) {
		return fmt.Errorf("not a flutter sdk: %s", abs)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.Store.SetDefaultSDK(abs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("sdk not registered: %s", abs)
		}
		return err
	}

	if !updatePath {
		return nil
	}

	r.scrubPath()
	if err := r.Path.Add(BinDir(abs)); err != nil {
		return fmt.Errorf("add sdk to PATH: %w", err)
	}
	return nil
}

// scrubPath drops every known SDK bin directory from the persistent PATH,
// plus the conventional locations that may predate this tool.
func (r *Registry) scrubPath() {
	known, err := r.Store.ListSDKs()
	if err != nil {
		r.logger().Printf("list sdks for PATH scrub: %v", err)
	}
	var dirs []string
	for _, s := range known {
		dirs = append(dirs, BinDir(s.Path))
	}
	for _, d := range r.managedDirs() {
		dirs = append(dirs, BinDir(d))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "flutter", "bin"))
	}
	if runtime.GOOS == "windows" {
		dirs = append(dirs, `C:\flutter\bin`, `D:\flutter\bin`)
	} else {
		dirs = append(dirs, "/opt/flutter/bin", "/usr/local/flutter/bin")
	}

	seen := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		if seen[d] {
			continue
		}
		seen[d] = true
		if err := r.Path.Remove(d); err != nil {
			r.logger().Printf("remove %s from PATH: %v", d, err)
		}
	}
}

// DefaultExecutable resolves the flutter command to run: the default SDK's
// launcher when one is set, otherwise whatever the process PATH provides.
func (r *Registry) DefaultExecutable() string {
	s, err := r.Store.DefaultSDK()
	if err != nil {
		return Executable("")
	}
	return Executable(s.Path)
}

func (r *Registry) probeVersion(ctx context.Context, dir string) string {
	res := r.runner().Run(ctx, Executable(dir), []string{"--version"}, execx.RunOptions{})
	if res.ExitCode != 0 {
		return ""
	}
	if m := versionOutputRe.FindStringSubmatch(res.Output); m != nil {
		return m[1]
	}
	return ""
}
