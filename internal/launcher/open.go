package launcher

import (
	"fmt"
	"os/exec"
	"runtime"

	"flustudio/internal/config"
)

// Editor choices for OpenInEditor.
const (
	EditorVSCode        = "vscode"
	EditorAndroidStudio = "studio"
)

// OpenInEditor launches the configured editor on the project directory.
// The editor process is detached; only spawn failures are reported.
func OpenInEditor(path, editor string, editors config.Editors) error {
	var command string
	switch editor {
	case EditorVSCode, "":
		command = editors.VSCode
		if command == "" {
			command = "code"
		}
	case EditorAndroidStudio:
		command = editors.AndroidStudio
		if command == "" {
			if runtime.GOOS == "windows" {
				command = "studio64"
			} else {
				command = "studio"
			}
		}
	default:
		return fmt.Errorf("unknown editor %q", editor)
	}

	cmd := exec.Command(command, path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", command, err)
	}
	// Detach: the editor outlives this process.
	go cmd.Wait()
	return nil
}

// OpenInFileManager reveals the project directory in the platform's file
// browser.
func OpenInFileManager(path string) error {
	var command string
	var args []string
	switch runtime.GOOS {
	case "windows":
		command, args = "explorer", []string{path}
	case "darwin":
		command, args = "open", []string{path}
	default:
		command, args = "xdg-open", []string{path}
	}
	cmd := exec.Command(command, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", command, err)
	}
	go cmd.Wait()
	return nil
}
