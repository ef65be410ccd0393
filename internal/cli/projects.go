package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"flustudio/internal/store"
)

var (
	listLimit int
	listTag   string
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known projects, most recently modified first",
		RunE:  runList,
	}
	cmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of projects to show")
	cmd.Flags().StringVar(&listTag, "tag", "", "Only show projects carrying this tag")
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := openApp("list")
	if err != nil {
		return err
	}
	defer a.Close()

	var projects []store.Project
	if listTag != "" {
		projects, err = a.Store.ListProjectsByTag(listTag)
	} else {
		projects, err = a.Store.ListProjects(listLimit)
	}
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSON(cmd, projects)
	}
	printProjectTable(cmd, projects)
	return nil
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <path>",
		Short: "Forget a project (the directory is left untouched)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("remove")
			if err != nil {
				return err
			}
			defer a.Close()

			abs, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			if err := a.Store.DeleteProject(abs); err != nil {
				return err
			}
			cmd.Printf("removed %s\n", abs)
			return nil
		},
	}
}

func newTagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tag <path> [tag...]",
		Short: "Set a project's tags; with no tags, show the current ones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("tag")
			if err != nil {
				return err
			}
			defer a.Close()

			abs, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			if len(args) == 1 {
				p, err := a.Store.GetProject(abs)
				if err != nil {
					return err
				}
				if outputJSON {
					return printJSON(cmd, p.Tags)
				}
				cmd.Println(dash(joinTags(p.Tags)))
				return nil
			}

			if err := a.Store.SetProjectTags(abs, args[1:]); err != nil {
				return err
			}
			cmd.Printf("tagged %s: %s\n", abs, joinTags(args[1:]))
			return nil
		},
	}
}

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag in use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp("tags")
			if err != nil {
				return err
			}
			defer a.Close()

			tags, err := a.Store.AllTags()
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd, tags)
			}
			for _, t := range tags {
				cmd.Println(t)
			}
			return nil
		},
	}
}
