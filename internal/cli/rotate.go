package cli

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aegis-aio/shellder/internal/rotation"
)

func newRotateCommand(a *app) *cobra.Command {
	var (
		seed   int64
		budget int
	)

	cmd := &cobra.Command{
		Use:   "rotate <file>",
		Short: "Shuffle a proxy list so neighbours come from different networks",
		Long: `Read a proxy list (one host:port, host:port:user:pass or URL per line,
"-" for stdin), shuffle it and reorder it so that adjacent entries belong to
different /24 networks or domains. When that is impossible the remaining
adjacent pairs are reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening proxy list: %w", err)
				}
				defer f.Close()
				in = f
			}

			endpoints, err := rotation.ParseList(in)
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			result := rotation.Rotate(endpoints, rand.New(rand.NewSource(seed)), budget)

			out := cmd.OutOrStdout()
			if a.json() {
				return writeJSON(out, result)
			}
			for _, ep := range result.Endpoints {
				fmt.Fprintln(out, ep.Raw)
			}
			if result.Collisions > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d adjacent pairs share a network\n", result.Collisions)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed (0 picks one from the clock)")
	cmd.Flags().IntVar(&budget, "retries", rotation.DefaultRetryBudget, "re-insertion attempts before giving up")
	return cmd
}
