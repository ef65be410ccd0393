package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	createDir      string
	createTemplate string
)

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new Flutter project and register it",
		Args:  cobra.ExactArgs(1),
		RunE:  runCreate,
	}
	cmd.Flags().StringVar(&createDir, "dir", "", "Parent directory for the project (default: configured project dir)")
	cmd.Flags().StringVar(&createTemplate, "template", "", "Template passed to flutter create (app, package, plugin, ...)")
	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	a, err := openApp("create")
	if err != nil {
		return err
	}
	defer a.Close()

	location := createDir
	if location == "" {
		location = a.Config.DefaultProjectDir
	}
	if location == "" {
		return fmt.Errorf("no target directory: pass --dir or set default_project_dir in %s", a.Paths.ConfigFile)
	}

	sw := newStatusLine(cmd, "Creating project "+args[0])
	path, err := a.launcherService().Create(cmd.Context(), location, args[0], createTemplate)
	stopStatusLine(sw)
	if err != nil {
		return err
	}

	p, err := a.inspector().Metadata(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("inspect new project: %w", err)
	}
	if err := a.Store.UpsertProject(p); err != nil {
		return fmt.Errorf("record project: %w", err)
	}

	if outputJSON {
		return printJSON(cmd, p)
	}
	cmd.Printf("created %s\n", path)
	return nil
}
