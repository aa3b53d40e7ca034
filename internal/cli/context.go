package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aegis-aio/shellder/internal/browser"
)

func newContextCommand(a *app) *cobra.Command {
	var seq, radius int

	cmd := &cobra.Command{
		Use:   "context <service>",
		Short: "Show the log lines around a numbered error",
		Long: `Show the lines around entry --seq of the error list. The entry is
numbered against a fresh snapshot, so run "errors" and "context" against a
log that has not moved on, or use "browse" to keep one snapshot open.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			insp, err := a.inspector()
			if err != nil {
				return err
			}
			session, err := insp.Session(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			snap := session.Snapshot()
			if !snap.Available() {
				return a.reportUnavailable(out, snap)
			}

			view, err := session.Context(seq, radius)
			if errors.Is(err, browser.ErrEntryOutOfRange) {
				fmt.Fprintf(out, "entry %d out of range (1-%d)\n", seq, session.Len())
				return nil
			}
			if err != nil {
				return err
			}
			if a.json() {
				return writeJSON(out, view)
			}

			fmt.Fprintf(out, "#%d line %d [%s], lines %d-%d of %d\n\n",
				view.Entry.Seq, view.Entry.Ordinal, view.Entry.Tag, view.From, view.To, view.Total)
			for _, line := range view.Lines {
				marker := "  "
				if line.Target {
					marker = ">>"
				}
				fmt.Fprintf(out, "%s%6d | %s\n", marker, line.Ordinal, line.Text)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&seq, "seq", "s", 0, "entry number from the error list")
	cmd.Flags().IntVarP(&radius, "radius", "r", browser.DefaultRadius, "lines to show on each side")
	_ = cmd.MarkFlagRequired("seq")
	return cmd
}
