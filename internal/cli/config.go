package cli

import (
	"fmt"

	"focusforge/internal/app"
	"focusforge/internal/core/model"

	"github.com/spf13/cobra"
)

func newConfigCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}
	cmd.AddCommand(newConfigShowCommand(env), newConfigSetCommand(env))
	return cmd
}

func newConfigShowCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := env.Store().LoadSettings()
			if err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v, showing defaults\n", err)
			}

			out := cmd.OutOrStdout()
			writeTimerConfig(out, settings.Timer)
			_, _ = fmt.Fprintf(out, "Notifications:    %s\n", onOff(settings.Notifications))
			_, _ = fmt.Fprintf(out, "Sound:            %s\n", onOff(settings.Sound))
			if settings.IdlePause {
				_, _ = fmt.Fprintf(out, "Idle pause:       after %s\n", settings.IdlePauseAfter)
			} else {
				_, _ = fmt.Fprintf(out, "Idle pause:       off\n")
			}
			_, _ = fmt.Fprintf(out, "Launch at login:  %s\n", onOff(settings.LaunchAtLogin))
			_, _ = fmt.Fprintf(out, "Config dir:       %s\n", env.Dir)
			return nil
		},
	}
}

func newConfigSetCommand(env *Env) *cobra.Command {
	var input model.ConfigInput
	var notifications, sound, idlePause, launchAtLogin bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change timer lengths and preferences",
		Example: `  focusforge config set --focus 50 --short-break 10
  focusforge config set --sessions 3 --sound=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if !anyChanged(cmd, "focus", "short-break", "long-break", "sessions", "notifications", "sound", "idle-pause", "launch-at-login") {
				return fmt.Errorf("nothing to change, see 'focusforge config set --help'")
			}

			application, err := openApp(env, app.Options{})
			if err != nil {
				return err
			}
			defer application.Close()

			settings := application.Settings()
			current := model.InputFromConfig(settings.Timer)
			if !flags.Changed("focus") {
				input.FocusMinutes = current.FocusMinutes
			}
			if !flags.Changed("short-break") {
				input.ShortBreakMinutes = current.ShortBreakMinutes
			}
			if !flags.Changed("long-break") {
				input.LongBreakMinutes = current.LongBreakMinutes
			}
			if !flags.Changed("sessions") {
				input.SessionsBeforeLongBreak = current.SessionsBeforeLongBreak
			}

			config, err := model.ParseConfig(input)
			if err != nil {
				return err
			}
			settings.Timer = config
			if flags.Changed("notifications") {
				settings.Notifications = notifications
			}
			if flags.Changed("sound") {
				settings.Sound = sound
			}
			if flags.Changed("idle-pause") {
				settings.IdlePause = idlePause
			}
			if flags.Changed("launch-at-login") {
				settings.LaunchAtLogin = launchAtLogin
			}

			if err := application.SaveSettings(settings); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Settings saved.")
			writeTimerConfig(cmd.OutOrStdout(), settings.Timer)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.FocusMinutes, "focus", "", limitUsage("focus length in minutes", model.FocusLimit))
	flags.StringVar(&input.ShortBreakMinutes, "short-break", "", limitUsage("short break length in minutes", model.ShortBreakLimit))
	flags.StringVar(&input.LongBreakMinutes, "long-break", "", limitUsage("long break length in minutes", model.LongBreakLimit))
	flags.StringVar(&input.SessionsBeforeLongBreak, "sessions", "", limitUsage("focus sessions before a long break", model.CadenceLimit))
	flags.BoolVar(&notifications, "notifications", true, "show a notification when a phase ends")
	flags.BoolVar(&sound, "sound", true, "ring a bell when a phase ends")
	flags.BoolVar(&idlePause, "idle-pause", false, "pause focus after inactivity")
	flags.BoolVar(&launchAtLogin, "launch-at-login", false, "start the desktop app at login")
	return cmd
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func limitUsage(text string, limit model.Limit) string {
	return fmt.Sprintf("%s (%d-%d)", text, limit.Min, limit.Max)
}

func onOff(value bool) string {
	if value {
		return "on"
	}
	return "off"
}
