package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCountsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "counts <service>",
		Short: "Count log lines per category",
		Long: `Count the lines of one log snapshot that match each category. Lines
matching a known benign phrasing are not counted unless they carry a
structured error marker such as error="...".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			insp, err := a.inspector()
			if err != nil {
				return err
			}
			result, err := insp.Counts(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.json() {
				return writeJSON(out, result)
			}
			if !result.Available {
				notApplicable(out, result.Service, result.State)
				return nil
			}

			fmt.Fprintf(out, "%s: %d lines\n\n", result.Service, result.Lines)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tCOUNT")
			for _, c := range result.Counts {
				fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Count)
			}
			return tw.Flush()
		},
	}
}
