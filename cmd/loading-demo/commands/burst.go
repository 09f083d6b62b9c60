package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func burstCmd(a *app) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "burst <action[:arg]>",
		Short: "Fire overlapping invocations of one action",
		Long: "Fire overlapping invocations of one action. The loading flag is not a\n" +
			"counter: it reflects whichever invocation wrote last.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("burst: -n must be positive, got %d", count)
			}
			name, callArgs := parseCall(args[0])
			stop := a.watch()
			defer stop()

			g, ctx := errgroup.WithContext(cmd.Context())
			for i := 0; i < count; i++ {
				g.Go(func() error {
					_, err := a.store.Invoke(ctx, name, callArgs...)
					return err
				})
			}
			err := g.Wait()
			stop()

			fmt.Fprintf(a.out, "burst of %d %s finished\n", count, name)
			a.printState(a.store.Get())
			return err
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of overlapping invocations")
	return cmd
}
