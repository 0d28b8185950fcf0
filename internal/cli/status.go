package cli

import (
	"fmt"
	"io"

	"focusforge/internal/app"
	"focusforge/internal/core/model"

	"github.com/spf13/cobra"
)

func newStatusCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's completed focus sessions and the timer configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := openApp(env, app.Options{})
			if err != nil {
				return err
			}
			defer application.Close()

			snapshot := application.Timer.Snapshot()
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Completed focus sessions today: %d\n", snapshot.CompletedFocusSessions)
			writeTimerConfig(out, application.Settings().Timer)
			return nil
		},
	}
}

func writeTimerConfig(out io.Writer, config model.Config) {
	_, _ = fmt.Fprintf(out, "Focus:            %d min\n", config.FocusMinutes)
	_, _ = fmt.Fprintf(out, "Short break:      %d min\n", config.ShortBreakMinutes)
	_, _ = fmt.Fprintf(out, "Long break:       %d min\n", config.LongBreakMinutes)
	_, _ = fmt.Fprintf(out, "Long break every: %d sessions\n", config.SessionsBeforeLongBreak)
}
