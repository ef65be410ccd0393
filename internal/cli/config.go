package cli

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"flustudio/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp("config")
			if err != nil {
				return err
			}
			defer a.Close()

			if outputJSON {
				return printJSON(cmd, a.Config)
			}
			data, err := yaml.Marshal(a.Config)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			cmd.Print(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value and save the file.

Keys:
  default_project_dir     Directory for new projects
  scan.max_depth          Scan recursion depth
  refresh.parallelism     Refresh worker count
  editors.vscode          VS Code executable
  editors.android_studio  Android Studio executable`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfig(func(cfg *config.Config) error {
				return setConfigKey(cfg, args[0], args[1])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add-root <path>",
		Short: "Add a directory to the scan roots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve root: %w", err)
			}
			return editConfig(func(cfg *config.Config) error {
				if slices.Contains(cfg.Scan.Roots, root) {
					return nil
				}
				cfg.Scan.Roots = append(cfg.Scan.Roots, root)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove-root <path>",
		Short: "Remove a directory from the scan roots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve root: %w", err)
			}
			return editConfig(func(cfg *config.Config) error {
				cfg.Scan.Roots = slices.DeleteFunc(cfg.Scan.Roots, func(r string) bool {
					return r == root
				})
				return nil
			})
		},
	})

	return cmd
}

// editConfig loads the configuration, applies edit, and saves the result.
func editConfig(edit func(*config.Config) error) error {
	a, err := openApp("config")
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.Config
	if err := edit(&cfg); err != nil {
		return err
	}
	if err := config.Save(a.Paths.ConfigFile, cfg); err != nil {
		return err
	}
	return nil
}

func setConfigKey(cfg *config.Config, key, value string) error {
	switch key {
	case "default_project_dir":
		dir, err := filepath.Abs(value)
		if err != nil {
			return fmt.Errorf("resolve directory: %w", err)
		}
		cfg.DefaultProjectDir = dir
	case "scan.max_depth":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("scan.max_depth needs a positive integer, got %q", value)
		}
		cfg.Scan.MaxDepth = n
	case "refresh.parallelism":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("refresh.parallelism needs a positive integer, got %q", value)
		}
		cfg.Refresh.Parallelism = n
	case "editors.vscode":
		cfg.Editors.VSCode = value
	case "editors.android_studio":
		cfg.Editors.AndroidStudio = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
