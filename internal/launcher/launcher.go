// Package launcher drives the flutter tool against projects: creating,
// running, building and maintaining them.
package launcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"flustudio/internal/execx"
	"flustudio/internal/logx"
	"flustudio/internal/project"
	"flustudio/internal/store"
)

// buildTimeout bounds flutter build and pub invocations, which routinely
// outlive the default command timeout.
const buildTimeout = 15 * time.Minute

// Service runs flutter commands for projects.
type Service struct {
	Runner execx.Runner

	// Flutter resolves the flutter executable to use. Nil falls back to
	// the bare command name.
	Flutter func() string

	// Store, when set, receives access-time bumps for every project a
	// command touches.
	Store *store.Store

	Logger logx.Logger
}

func (s *Service) logger() logx.Logger {
	if s.Logger == nil {
		return logx.Noop{}
	}
	return s.Logger
}

func (s *Service) runner() execx.Runner {
	if s.Runner == nil {
		return execx.CmdRunner{}
	}
	return s.Runner
}

func (s *Service) flutter() string {
	if s.Flutter != nil {
		if exe := s.Flutter(); exe != "" {
			return exe
		}
	}
	return "flutter"
}

func (s *Service) touch(path string) {
	if s.Store == nil {
		return
	}
	if err := s.Store.TouchProject(path); err != nil {
		s.logger().Printf("touch project %s: %v", path, err)
	}
}

// Create runs flutter create for a new project under location and returns
// the project path. The target directory must not exist yet.
func (s *Service) Create(ctx context.Context, location, name, template string) (string, error) {
	target := filepath.Join(location, name)
	if _, err := os.Stat(target); err == nil {
		return "", fmt.Errorf("directory already exists: %s", target)
	}

	args := []string{"create", name}
	if template != "" {
		args = append(args, "--template", template)
	}
	res := s.runner().Run(ctx, s.flutter(), args, execx.RunOptions{Dir: location, Timeout: buildTimeout})
	if res.ExitCode != 0 {
		return "", fmt.Errorf("flutter create failed: %s", res.Output)
	}
	if !project.IsProjectRoot(target) {
		return "", fmt.Errorf("project created but %s is missing", project.ManifestName)
	}
	s.logger().Printf("created project %s", target)
	return target, nil
}

// Run launches flutter run in the project, streaming its merged output.
// The returned command's Stop sends an interrupt to the app.
func (s *Service) Run(path, deviceID string) (*execx.StreamingCommand, <-chan execx.Event) {
	args := []string{"run"}
	if deviceID != "" {
		args = append(args, "-d", deviceID)
	}
	s.touch(path)
	return execx.Stream(s.flutter(), args, execx.RunOptions{Dir: path})
}

// PubGet fetches the project's dependencies.
func (s *Service) PubGet(ctx context.Context, path string) execx.RunResult {
	s.touch(path)
	return s.runner().Run(ctx, s.flutter(), []string{"pub", "get"}, execx.RunOptions{Dir: path, Timeout: buildTimeout})
}

// Clean removes the project's build artifacts.
func (s *Service) Clean(ctx context.Context, path string) execx.RunResult {
	s.touch(path)
	return s.runner().Run(ctx, s.flutter(), []string{"clean"}, execx.RunOptions{Dir: path, Timeout: buildTimeout})
}

// BuildAPK builds an Android APK. Release builds pass --release.
func (s *Service) BuildAPK(ctx context.Context, path string, release bool) execx.RunResult {
	return s.build(ctx, path, "apk", release)
}

// BuildAppBundle builds an Android app bundle.
func (s *Service) BuildAppBundle(ctx context.Context, path string, release bool) execx.RunResult {
	return s.build(ctx, path, "appbundle", release)
}

func (s *Service) build(ctx context.Context, path, target string, release bool) execx.RunResult {
	args := []string{"build", target}
	if release {
		args = append(args, "--release")
	}
	s.touch(path)
	return s.runner().Run(ctx, s.flutter(), args, execx.RunOptions{Dir: path, Timeout: buildTimeout})
}

// Doctor runs flutter doctor -v.
func (s *Service) Doctor(ctx context.Context) execx.RunResult {
	return s.runner().Run(ctx, s.flutter(), []string{"doctor", "-v"}, execx.RunOptions{Timeout: buildTimeout})
}
