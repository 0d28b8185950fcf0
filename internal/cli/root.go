// Package cli provides the command-line interface for FocusForge.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"focusforge/internal/app"
	"focusforge/internal/logging"
	"focusforge/internal/platform"
	"focusforge/internal/storage"

	"github.com/spf13/cobra"
)

// GUIFunc runs the desktop interface until it exits.
type GUIFunc func(env *Env) error

// Env carries what every command resolves before it runs.
type Env struct {
	Service  platform.Service
	Dir      string
	LogLevel string
}

// Store opens the settings store in the resolved directory.
func (env *Env) Store() *storage.Store {
	return storage.New(env.Dir)
}

// Autostart applies the launch at login preference for the current executable.
func (env *Env) Autostart(enabled bool) error {
	return platform.SetAutostart(env.Service, app.Name, enabled)
}

// NewRootCommand creates the root command. gui may be nil in builds and
// tests without a desktop driver.
func NewRootCommand(service platform.Service, gui GUIFunc) *cobra.Command {
	env := &Env{Service: service}
	var configDir string

	root := &cobra.Command{
		Use:   "focusforge",
		Short: "Pomodoro focus timer",
		Long: `FocusForge alternates focus sessions with short breaks and takes a
long break after every few completed sessions.

Run without a subcommand to start the desktop app in the system tray.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() != "tui" {
				logging.SetupConsole(logging.ResolveLevel(env.LogLevel))
			}
			dir, err := resolveConfigDir(service, configDir)
			if err != nil {
				return err
			}
			env.Dir = dir
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runGUI(gui, env)
		},
	}

	root.PersistentFlags().StringVar(&env.LogLevel, "log-level", "", "log level: debug, info, warn, error (default $"+logging.LevelEnv+" or info)")
	root.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory for settings and session files (default $"+platform.ConfigDirEnv+" or the user config dir)")

	root.AddCommand(
		newGUICommand(env, gui),
		newTUICommand(env),
		newStatusCommand(env),
		newConfigCommand(env),
		newSessionsCommand(env),
	)
	return root
}

func newGUICommand(env *Env, gui GUIFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Start the desktop app in the system tray",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runGUI(gui, env)
		},
	}
}

func runGUI(gui GUIFunc, env *Env) error {
	if gui == nil {
		return errors.New("desktop interface is not available in this build, try 'focusforge tui'")
	}
	return gui(env)
}

func resolveConfigDir(service platform.Service, flagValue string) (string, error) {
	if dir := strings.TrimSpace(flagValue); dir != "" {
		return dir, nil
	}
	if service == nil {
		return "", errors.New("resolve config dir: no platform service")
	}
	dir, err := platform.AppConfigDir(service, app.Name)
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return dir, nil
}

// openApp builds the shared application for one command run.
func openApp(env *Env, options app.Options) (*app.App, error) {
	options.Store = env.Store()
	if options.Autostart == nil && env.Service != nil {
		options.Autostart = env.Autostart
	}
	return app.New(options)
}
