package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppPaths captures canonical locations for flustudio's per-user state.
type AppPaths struct {
	Root        string
	SDKsDir     string
	DownloadDir string
	CacheDir    string
	DataDir     string
	LogsDir     string
	ConfigFile  string
	DBFile      string
	CatalogFile string
}

// Resolve determines the application root, honouring the FLUSTUDIO_HOME
// override and falling back to ~/.flustudio.
func Resolve() (AppPaths, error) {
	if override, ok := os.LookupEnv("FLUSTUDIO_HOME"); ok && override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return AppPaths{}, fmt.Errorf("resolve FLUSTUDIO_HOME: %w", err)
		}
		return New(abs), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return AppPaths{}, fmt.Errorf("detect user home: %w", err)
	}
	return New(filepath.Join(home, ".flustudio")), nil
}

// New builds the path set rooted at the given directory.
func New(root string) AppPaths {
	cacheDir := filepath.Join(root, "cache")
	dataDir := filepath.Join(root, "data")
	return AppPaths{
		Root:        root,
		SDKsDir:     filepath.Join(root, "sdks"),
		DownloadDir: filepath.Join(root, "downloads"),
		CacheDir:    cacheDir,
		DataDir:     dataDir,
		LogsDir:     filepath.Join(root, "logs"),
		ConfigFile:  filepath.Join(root, "flustudio.yaml"),
		DBFile:      filepath.Join(dataDir, "flustudio.db"),
		CatalogFile: filepath.Join(cacheDir, "flutter_versions.json"),
	}
}

// EnsureDirs creates the standard directory hierarchy.
func (p AppPaths) EnsureDirs() error {
	dirs := []string{p.Root, p.SDKsDir, p.DownloadDir, p.CacheDir, p.DataDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
