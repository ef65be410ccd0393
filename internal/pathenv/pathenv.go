// Package pathenv edits the user's persistent PATH by appending and
// removing export lines in the active shell's startup file.
package pathenv

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"flustudio/internal/logx"
)

// Editor manages PATH entries in a shell startup file.
type Editor struct {
	// ConfigFile overrides shell-config detection. Tests point this at a
	// temp file.
	ConfigFile string

	Logger logx.Logger
}

func (e Editor) logger() logx.Logger {
	if e.Logger == nil {
		return logx.Noop{}
	}
	return e.Logger
}

// ShellConfig returns the startup file for the user's shell: ~/.zshrc for
// zsh, ~/.bashrc for bash, otherwise ~/.bashrc when it exists and
// ~/.profile as the last resort.
func ShellConfig() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	shell := os.Getenv("SHELL")
	switch {
	case strings.Contains(shell, "zsh"):
		return filepath.Join(home, ".zshrc"), nil
	case strings.Contains(shell, "bash"):
		return filepath.Join(home, ".bashrc"), nil
	}
	bashrc := filepath.Join(home, ".bashrc")
	if _, err := os.Stat(bashrc); err == nil {
		return bashrc, nil
	}
	return filepath.Join(home, ".profile"), nil
}

func (e Editor) configFile() (string, error) {
	if e.ConfigFile != "" {
		return e.ConfigFile, nil
	}
	if runtime.GOOS == "windows" {
		return "", fmt.Errorf("persistent PATH editing is not supported on windows")
	}
	return ShellConfig()
}

// Contains reports whether dir appears in the current process PATH.
func (e Editor) Contains(dir string) bool {
	current := os.Getenv("PATH")
	if current == "" {
		return false
	}
	resolved := resolve(dir)
	for _, entry := range filepath.SplitList(current) {
		if entry == dir || entry == resolved {
			return true
		}
	}
	return false
}

// Add appends an export line for dir to the shell config. Adding a
// directory already present in the live PATH is a no-op.
func (e Editor) Add(dir string) error {
	cfg, err := e.configFile()
	if err != nil {
		return err
	}
	resolved := resolve(dir)
	if e.Contains(resolved) {
		return nil
	}

	f, err := os.OpenFile(cfg, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open shell config: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "\nexport PATH=\"$PATH:%s\"\n", resolved); err != nil {
		return fmt.Errorf("append PATH entry: %w", err)
	}
	e.logger().Printf("added %s to PATH in %s", resolved, cfg)
	return nil
}

// Remove drops every line mentioning dir from the shell config. A missing
// config file counts as already removed.
func (e Editor) Remove(dir string) error {
	cfg, err := e.configFile()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read shell config: %w", err)
	}

	resolved := resolve(dir)
	lines := strings.Split(string(data), "\n")
	kept := lines[:0]
	removed := false
	for _, line := range lines {
		if strings.Contains(line, resolved) || (dir != resolved && strings.Contains(line, dir)) {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return nil
	}

	if err := os.WriteFile(cfg, []byte(strings.Join(kept, "\n")), 0o644); err != nil {
		return fmt.Errorf("rewrite shell config: %w", err)
	}
	e.logger().Printf("removed %s from PATH in %s", resolved, cfg)
	return nil
}

func resolve(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}
