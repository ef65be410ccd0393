package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"flustudio/internal/launcher"
)

var runDevice string

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <path>",
		Short: "Run a project, streaming flutter's output",
		Args:  cobra.ExactArgs(1),
		RunE:  runRun,
	}
	cmd.Flags().StringVarP(&runDevice, "device", "d", "", "Target device ID")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := openApp("run")
	if err != nil {
		return err
	}
	defer a.Close()

	abs, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	sc, events := a.launcherService().Run(abs, runDevice)

	// Forward interrupts to the app instead of dying with it attached.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		sc.Stop()
	}()

	for ev := range events {
		switch {
		case ev.Err != nil:
			return ev.Err
		case ev.Done:
			if ev.ExitCode != 0 {
				return fmt.Errorf("flutter run exited with code %d", ev.ExitCode)
			}
			return nil
		default:
			cmd.Println(ev.Line)
		}
	}
	return nil
}

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List connected run targets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp("devices")
			if err != nil {
				return err
			}
			defer a.Close()

			devices, err := a.launcherService().Devices(cmd.Context())
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd, devices)
			}
			if len(devices) == 0 {
				cmd.Println("(no devices)")
				return nil
			}
			for _, d := range devices {
				cmd.Printf("%-30s %-20s %s\n", d.Name, d.ID, d.Type)
			}
			return nil
		},
	}
}

var openEditor string

func newOpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <path>",
		Short: "Open a project in an editor or the file manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("open")
			if err != nil {
				return err
			}
			defer a.Close()

			abs, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			if openEditor == "files" {
				err = launcher.OpenInFileManager(abs)
			} else {
				err = launcher.OpenInEditor(abs, openEditor, a.Config.Editors)
			}
			if err != nil {
				return err
			}
			if err := a.Store.TouchProject(abs); err != nil {
				a.Logger.Printf("touch project %s: %v", abs, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&openEditor, "editor", "", "Editor to use: vscode (default), studio, or files")
	return cmd
}
