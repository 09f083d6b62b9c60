package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func runCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <action[:arg]>...",
		Short: "Invoke actions in order and print every state transition",
		Example: `  loading-demo run inc inc slowInc:500ms fail
  loading-demo run --whitelist setLoading setLoading inc`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := a.watch()
			defer stop()

			for _, raw := range args {
				name, callArgs := parseCall(raw)
				fmt.Fprintf(a.out, "> %s\n", raw)
				result, err := a.store.Invoke(cmd.Context(), name, callArgs...)
				if err != nil {
					fmt.Fprintf(a.out, "  error: %v\n", err)
					continue
				}
				fmt.Fprintf(a.out, "  result: %v\n", result)
			}
			a.printState(a.store.Get())
			return nil
		},
	}
	return cmd
}

// parseCall splits "name:arg" into an action name and a single string
// argument.
func parseCall(raw string) (string, []any) {
	name, arg, found := strings.Cut(strings.TrimSpace(raw), ":")
	if !found || arg == "" {
		return name, nil
	}
	return name, []any{arg}
}
