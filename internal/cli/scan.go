package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"flustudio/internal/project"
	"flustudio/internal/store"
)

var scanMaxDepth int

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [root...]",
		Short: "Discover Flutter projects under the given roots",
		Long: "Walks each root looking for directories holding a pubspec.yaml, derives " +
			"their metadata and records them. Without arguments the configured scan " +
			"roots are used.",
		RunE: runScan,
	}
	cmd.Flags().IntVar(&scanMaxDepth, "max-depth", 0, "Directory depth limit (0 uses the configured value)")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := openApp("scan")
	if err != nil {
		return err
	}
	defer a.Close()

	roots := args
	if len(roots) == 0 {
		roots = a.Config.Scan.Roots
	}
	if len(roots) == 0 {
		return fmt.Errorf("no scan roots: pass directories or set scan.roots in %s", a.Paths.ConfigFile)
	}

	maxDepth := scanMaxDepth
	if maxDepth <= 0 {
		maxDepth = a.Config.Scan.MaxDepth
	}

	found := project.Scan(roots, maxDepth)
	in := a.inspector()

	var projects []store.Project
	for _, dir := range found {
		p, err := in.Metadata(cmd.Context(), dir)
		if err != nil {
			a.Logger.Printf("inspect %s: %v", dir, err)
			continue
		}
		if existing, err := a.Store.GetProject(p.Path); err == nil {
			p.Tags = existing.Tags
			p.LastAccessed = existing.LastAccessed
		}
		if err := a.Store.UpsertProject(p); err != nil {
			return fmt.Errorf("record project %s: %w", p.Path, err)
		}
		projects = append(projects, p)
	}

	if outputJSON {
		return printJSON(cmd, projects)
	}
	printProjectTable(cmd, projects)
	cmd.Printf("\n%d project(s) found\n", len(projects))
	return nil
}
