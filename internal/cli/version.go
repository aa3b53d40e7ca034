package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aegis-aio/shellder/internal/api"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shellder %s\n", api.Version)
		},
	}
}
