package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"flustudio/internal/store"
)

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printProjectTable(cmd *cobra.Command, projects []store.Project) {
	if len(projects) == 0 {
		cmd.Println("(no projects)")
		return
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tTAGS\tMODIFIED\tPATH")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.Name,
			dash(p.SDKVersionLabel),
			dash(joinTags(p.Tags)),
			dash(formatWhen(p.LastModified)),
			p.Path,
		)
	}
	tw.Flush()
}

func printSDKTable(cmd *cobra.Command, sdks []store.SDK) {
	if len(sdks) == 0 {
		cmd.Println("(no sdks)")
		return
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEFAULT\tVERSION\tCHANNEL\tMANAGED\tPATH")
	for _, s := range sdks {
		def := ""
		if s.IsDefault {
			def = "*"
		}
		managed := "no"
		if s.IsManaged {
			managed = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", def, dash(s.Version), s.Channel, managed, s.Path)
	}
	tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
