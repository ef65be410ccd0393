package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"flustudio/internal/project"
	"flustudio/internal/store"
	"flustudio/internal/tui"
)

var refreshParallel int

func newRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Re-derive metadata for every known project",
		RunE:  runRefresh,
	}
	cmd.Flags().IntVar(&refreshParallel, "parallel", 0, "Worker pool width (0 uses the configured value)")
	return cmd
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	a, err := openApp("refresh")
	if err != nil {
		return err
	}
	defer a.Close()

	projects, err := a.Store.ListProjects(0)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		cmd.Println("(no projects)")
		return nil
	}

	parallel := refreshParallel
	if parallel <= 0 {
		parallel = a.Config.Refresh.Parallelism
	}

	in := a.inspector()
	opts := project.RefreshOptions{Parallelism: parallel}

	var results []project.RefreshResult
	mode := tui.DetectMode(cmd.OutOrStdout(), noProgress, outputJSON)
	if mode == tui.ModeTUI {
		model := tui.NewProgressModel("Refreshing projects", tui.RefreshColumns())
		for _, p := range projects {
			model.AddRow(p.Path, tui.RefreshRow(p))
		}
		err = tui.RunWithWork(cmd.OutOrStdout(), model, func(send func(tea.Msg)) {
			opts.Reporter = tui.RefreshReporter{Send: send}
			results = in.Refresh(cmd.Context(), projects, opts)
		})
		if err != nil {
			return err
		}
	} else {
		results = in.Refresh(cmd.Context(), projects, opts)
	}

	updated := make([]store.Project, 0, len(results))
	failures := 0
	for _, res := range results {
		if !res.Updated {
			failures++
			a.Logger.Printf("refresh %s: %s", res.Path, res.Error)
			continue
		}
		if err := a.Store.UpsertProject(res.Project); err != nil {
			return fmt.Errorf("record project %s: %w", res.Path, err)
		}
		updated = append(updated, res.Project)
	}

	if outputJSON {
		return printJSON(cmd, results)
	}
	if mode == tui.ModePlain {
		printProjectTable(cmd, updated)
	}
	cmd.Printf("\n%d refreshed, %d failed\n", len(updated), failures)
	return nil
}
