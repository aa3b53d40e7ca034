package cli

import (
	"github.com/spf13/cobra"

	"github.com/aegis-aio/shellder/internal/tui/browseview"
)

func newBrowseCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <service>",
		Short: "Browse numbered errors interactively",
		Long: `Take one log snapshot and browse its numbered error lines. Type an entry
number and press enter to see its context, + to widen it, esc to go back
and q to quit. Every view refers to the same snapshot.`,
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
			if snap := session.Snapshot(); !snap.Available() {
				notApplicable(cmd.OutOrStdout(), snap.Service, snap.Container.State)
				return nil
			}
			return browseview.Run(session)
		},
	}
}
