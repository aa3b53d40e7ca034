package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aegis-aio/shellder/internal/export"
	"github.com/aegis-aio/shellder/internal/ownership"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		path   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export <service>",
		Short: "Write the counts and numbered errors of a snapshot to a file",
		Long: `Write a report of one snapshot to a file. When run through sudo the file
is handed back to the invoking user.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			id, err := ownership.Resolve()
			if err != nil {
				return err
			}

			insp, err := a.inspector()
			if err != nil {
				return err
			}
			session, err := insp.Session(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if path == "" {
				path = fmt.Sprintf("%s-%s.%s", args[0], session.Snapshot().TakenAt.Format("20060102-150405"), f)
			}
			report := export.Build(session, insp.Classifier())
			if err := export.WriteFile(path, report, f, id); err != nil {
				return err
			}
			a.log.WithService(args[0]).Info("exported report", "path", path, "owner", id.User)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "out", "", "output file (default <service>-<time>.<format>)")
	cmd.Flags().StringVar(&format, "format", string(export.FormatJSON), "report format: json, text")
	return cmd
}
