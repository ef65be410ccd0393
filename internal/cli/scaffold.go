package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"flustudio/internal/scaffold"
	"flustudio/internal/store"
)

var scaffoldProject string

func newScaffoldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Generate architecture skeletons inside a project",
	}
	cmd.PersistentFlags().StringVar(&scaffoldProject, "project", ".", "Project directory to scaffold into")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available generators",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp("scaffold")
			if err != nil {
				return err
			}
			defer a.Close()

			applied := map[string]bool{}
			if records, err := a.Store.ListTemplates(); err == nil {
				for _, t := range records {
					applied[t.ID] = t.Enabled
				}
			}

			gens := scaffold.List()
			if outputJSON {
				type entry struct {
					ID          string `json:"id"`
					Name        string `json:"name"`
					Description string `json:"description"`
					Applied     bool   `json:"applied"`
				}
				out := make([]entry, 0, len(gens))
				for _, g := range gens {
					out = append(out, entry{g.ID, g.Name, g.Description, applied[g.ID]})
				}
				return printJSON(cmd, out)
			}
			for _, g := range gens {
				mark := " "
				if applied[g.ID] {
					mark = "*"
				}
				cmd.Printf("%s %-12s %s\n", mark, g.ID, g.Description)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "apply <generator>",
		Short: "Apply an architecture generator to the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("scaffold")
			if err != nil {
				return err
			}
			defer a.Close()

			g, ok := scaffold.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown generator %q (see scaffold list)", args[0])
			}
			root, err := filepath.Abs(scaffoldProject)
			if err != nil {
				return fmt.Errorf("resolve project: %w", err)
			}
			n, err := scaffold.Apply(root, g)
			if err != nil {
				return err
			}
			if err := a.Store.UpsertTemplate(store.Template{ID: g.ID, Enabled: true}); err != nil {
				a.Logger.Printf("record template %s: %v", g.ID, err)
			}
			cmd.Printf("%s: %d entries created under %s\n", g.Name, n, root)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "firebase",
		Short: "Add Firebase dependencies and config placeholders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := filepath.Abs(scaffoldProject)
			if err != nil {
				return fmt.Errorf("resolve project: %w", err)
			}
			res, err := scaffold.SetupFirebase(root)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd, res)
			}
			if len(res.AddedDeps) == 0 {
				cmd.Println("all firebase dependencies already present")
			} else {
				for _, dep := range res.AddedDeps {
					cmd.Printf("added %s\n", dep)
				}
			}
			for _, p := range res.Placeholders {
				cmd.Printf("placeholder: %s\n", p)
			}
			cmd.Println("run `flustudio pub get` to fetch the new dependencies")
			return nil
		},
	})

	return cmd
}
