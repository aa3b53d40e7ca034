package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSearchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <service> <pattern>",
		Short: "Search a log snapshot with a case-insensitive regular expression",
		Long: `Search one log snapshot for a case-insensitive regular expression. Known
benign lines are skipped as they are for counts. A pattern that does not
compile finds nothing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			insp, err := a.inspector()
			if err != nil {
				return err
			}
			result, err := insp.Search(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.json() {
				return writeJSON(out, result)
			}
			switch {
			case !result.Available:
				notApplicable(out, result.Service, result.State)
			case result.Invalid:
				fmt.Fprintf(out, "no matches (invalid pattern %q)\n", result.Pattern)
			default:
				fmt.Fprintf(out, "%d matches for %q\n", result.Count, result.Pattern)
				for _, line := range result.Matches {
					fmt.Fprintf(out, "%6d | %s\n", line.Ordinal, line.Text)
				}
			}
			return nil
		},
	}
}
