package cli

import (
	"github.com/spf13/cobra"

	"flustudio/internal/tui"
)

// newStatusLine starts a spinner status line when interactive output is
// appropriate, returning nil otherwise.
func newStatusLine(cmd *cobra.Command, msg string) *tui.StatusWriter {
	if tui.DetectMode(cmd.OutOrStdout(), noProgress, outputJSON) != tui.ModeTUI {
		return nil
	}
	sw := tui.NewStatusWriter(cmd.OutOrStdout())
	sw.Update(msg)
	return sw
}

func stopStatusLine(sw *tui.StatusWriter) {
	if sw != nil {
		sw.Stop()
	}
}
