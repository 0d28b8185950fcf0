package cli

import (
	"fmt"

	"focusforge/internal/app"
	"focusforge/internal/logging"
	"focusforge/internal/platform"
	"focusforge/internal/ui/terminal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newTUICommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the timer in the terminal",
		Long: `Run the timer in the terminal.

Keys: s start, p pause/resume, n skip, r reset (then y/n), q quit.
Logs are written to <config dir>/logs/focusforge.log while the terminal UI runs.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			logFile, err := logging.SetupFile(env.Dir, logging.ResolveLevel(env.LogLevel))
			if err != nil {
				return err
			}
			defer func() {
				_ = logFile.Close()
			}()

			guard, err := platform.AcquireSingleInstance(app.Name)
			if err != nil {
				return fmt.Errorf("start terminal ui: %w", err)
			}
			defer func() {
				_ = guard.Release()
			}()

			application, err := openApp(env, app.Options{IdleChecker: platform.NewIdleProvider()})
			if err != nil {
				return err
			}
			defer application.Close()

			log.Info().Str("dir", env.Dir).Msg("terminal ui started")
			return terminal.Run(application)
		},
	}
}
