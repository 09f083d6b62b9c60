package commands

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"
)

const quitChoice = "quit"

// prompter asks the user to pick one of options.
type prompter interface {
	Select(message string, options []string) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Select(message string, options []string) (string, error) {
	var choice string
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return choice, nil
}

func interactiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Pick actions from a prompt until quitting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.interactive(cmd, a.prompt)
		},
	}
}

func (a *app) interactive(cmd *cobra.Command, p prompter) error {
	stop := a.watch()
	defer stop()

	options := append(a.store.Actions(), quitChoice)
	for {
		choice, err := p.Select(fmt.Sprintf("Action (%s=%v)", a.opts.VarName, a.store.Get()[a.opts.VarName]), options)
		if errors.Is(err, terminal.InterruptErr) {
			return nil
		}
		if err != nil {
			return err
		}
		if choice == quitChoice {
			return nil
		}

		result, err := a.store.Invoke(cmd.Context(), choice)
		if err != nil {
			fmt.Fprintf(a.out, "  error: %v\n", err)
			continue
		}
		fmt.Fprintf(a.out, "  result: %v\n", result)
	}
}
