package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aegis-aio/shellder/internal/browser"
)

func newErrorsCommand(a *app) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "errors <service>",
		Short: "List numbered error lines, one page at a time",
		Args:  cobra.ExactArgs(1),
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

			p, err := session.Page(page)
			if errors.Is(err, browser.ErrPageOutOfRange) {
				fmt.Fprintf(out, "page %d out of range (1-%d)\n", page, session.Pages())
				return nil
			}
			if err != nil {
				return err
			}
			if a.json() {
				return writeJSON(out, p)
			}

			fmt.Fprintf(out, "%s: page %d/%d, %d entries\n\n", snap.Service, p.Number, p.Pages, p.Total)
			if p.Total == 0 {
				fmt.Fprintln(out, "no error lines")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tLINE\tTAG\tPREVIEW")
			for _, e := range p.Entries {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", e.Seq, e.Ordinal, e.Tag, e.Preview)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nshellder context %s --seq N to view the surrounding lines\n", snap.Service)
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	return cmd
}
