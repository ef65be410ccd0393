package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"flustudio/internal/execx"
)

var buildDebug bool

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <apk|appbundle> <path>",
		Short: "Build Android artifacts for a project",
		Args:  cobra.ExactArgs(2),
		RunE:  runBuild,
	}
	cmd.Flags().BoolVar(&buildDebug, "debug", false, "Build in debug mode instead of release")
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	a, err := openApp("build")
	if err != nil {
		return err
	}
	defer a.Close()

	abs, err := filepath.Abs(args[1])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	svc := a.launcherService()
	release := !buildDebug

	sw := newStatusLine(cmd, fmt.Sprintf("Building %s", args[0]))
	var res execx.RunResult
	switch strings.ToLower(args[0]) {
	case "apk":
		res = svc.BuildAPK(cmd.Context(), abs, release)
	case "appbundle":
		res = svc.BuildAppBundle(cmd.Context(), abs, release)
	default:
		stopStatusLine(sw)
		return fmt.Errorf("unknown build target %q (want apk or appbundle)", args[0])
	}
	stopStatusLine(sw)

	return reportCommand(cmd, res)
}

func newPubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pub",
		Short: "Run pub maintenance for a project",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <path>",
		Short: "Fetch the project's dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectCommand(cmd, args[0], "pub", func(a *app, path string) execx.RunResult {
				return a.launcherService().PubGet(cmd.Context(), path)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clean <path>",
		Short: "Remove the project's build artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectCommand(cmd, args[0], "pub", func(a *app, path string) execx.RunResult {
				return a.launcherService().Clean(cmd.Context(), path)
			})
		},
	})
	return cmd
}

func runProjectCommand(cmd *cobra.Command, path, logName string, fn func(a *app, path string) execx.RunResult) error {
	a, err := openApp(logName)
	if err != nil {
		return err
	}
	defer a.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	return reportCommand(cmd, fn(a, abs))
}

// reportCommand renders a finished command's merged output and maps its
// exit code onto the CLI's.
func reportCommand(cmd *cobra.Command, res execx.RunResult) error {
	if outputJSON {
		return printJSON(cmd, res)
	}
	if out := strings.TrimSpace(res.Output); out != "" {
		cmd.Println(out)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("command exited with code %d", res.ExitCode)
	}
	return nil
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run flutter doctor against the default SDK",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp("doctor")
			if err != nil {
				return err
			}
			defer a.Close()

			sw := newStatusLine(cmd, "Running flutter doctor")
			res := a.launcherService().Doctor(cmd.Context())
			stopStatusLine(sw)
			return reportCommand(cmd, res)
		},
	}
}
