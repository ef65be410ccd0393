package sdk

import (
	"os"
	"path/filepath"
	"runtime"
)

// binaryName is the flutter launcher script inside an SDK's bin directory.
func binaryName() string {
	if runtime.GOOS == "windows" {
		return "flutter.bat"
	}
	return "flutter"
}

// Validate reports whether dir looks like a Flutter SDK root.
func Validate(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	_, err = os.Stat(filepath.Join(dir, "bin", binaryName()))
	return err == nil
}

// Executable returns the flutter launcher inside sdkDir, or the bare
// command name when sdkDir is empty or holds no launcher, deferring to the
// process PATH.
func Executable(sdkDir string) string {
	if sdkDir != "" {
		exe := filepath.Join(sdkDir, "bin", binaryName())
		if _, err := os.Stat(exe); err == nil {
			return exe
		}
	}
	return "flutter"
}

// BinDir returns the SDK's bin directory.
func BinDir(sdkDir string) string {
	return filepath.Join(sdkDir, "bin")
}

// Discover scans the conventional install locations plus FLUTTER_ROOT and
// returns every directory that validates as an SDK, deduplicated.
func Discover() []string {
	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		if runtime.GOOS == "windows" {
			candidates = append(candidates, filepath.Join(home, "flutter"))
		} else {
			candidates = append(candidates,
				filepath.Join(home, "flutter"),
				filepath.Join(home, "development", "flutter"),
			)
		}
	}
	if runtime.GOOS == "windows" {
		candidates = append(candidates, `C:\flutter`, `C:\src\flutter`, `D:\flutter`)
	} else {
		candidates = append(candidates, "/opt/flutter", "/usr/local/flutter")
	}
	if root := os.Getenv("FLUTTER_ROOT"); root != "" {
		candidates = append(candidates, root)
	}

	seen := make(map[string]bool, len(candidates))
	var found []string
	for _, dir := range candidates {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		if seen[abs] || !Validate(abs) {
			continue
		}
		seen[abs] = true
		found = append(found, abs)
	}
	return found
}
