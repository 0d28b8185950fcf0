package cli

import (
	"bufio"
	"fmt"
	"strings"

	"focusforge/internal/app"

	"github.com/spf13/cobra"
)

func newSessionsCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage the daily focus session count",
	}
	cmd.AddCommand(newSessionsResetCommand(env))
	return cmd
}

func newSessionsResetCommand(env *Env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset today's completed focus sessions to zero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !yes {
				_, _ = fmt.Fprint(out, "Reset the timer and today's session count? [y/N] ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					_, _ = fmt.Fprintln(out, "Reset canceled.")
					return nil
				}
			}

			application, err := openApp(env, app.Options{})
			if err != nil {
				return err
			}
			defer application.Close()

			application.Timer.Reset()
			_, _ = fmt.Fprintln(out, "Timer and session count reset.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
