package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/aegis-aio/shellder/internal/ui"
)

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show every container with its error and startup counts",
		Long: `Show the containers of the compose project (all containers when no
project is set). Each running container's log is classified once; stopped
and missing containers are listed without counts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			insp, err := a.inspector()
			if err != nil {
				return err
			}
			statuses, err := insp.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.json() {
				return writeJSON(out, statuses)
			}
			if len(statuses) == 0 {
				fmt.Fprintln(out, "no containers")
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("", "CONTAINER", "STATE", "LINES", "ERRORS", "STARTUP", "UPTIME")
			for _, s := range statuses {
				lines, errs, startup := "-", "-", "-"
				if s.Container.Available() {
					lines = strconv.Itoa(s.Lines)
					errs = strconv.Itoa(s.Errors)
					startup = strconv.Itoa(s.Startup)
				}
				t.Row(
					ui.StateIcon(s.Container.State),
					s.Container.Name,
					string(s.Container.State),
					lines,
					errs,
					startup,
					s.Uptime,
				)
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
}
