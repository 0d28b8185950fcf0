package main

import (
	"fmt"
	"os"

	"focusforge/internal/app"
	"focusforge/internal/cli"
	"focusforge/internal/core/phasetimer"
	"focusforge/internal/platform"
	"focusforge/internal/ui/alert"
	"focusforge/internal/ui/preferences"
	"focusforge/internal/ui/timerwindow"
	"focusforge/internal/ui/tray"
	"focusforge/resources"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog/log"
)

func runGUI(env *cli.Env) error {
	guard, err := platform.AcquireSingleInstance(app.Name)
	if err != nil {
		return fmt.Errorf("start desktop app: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	application, err := app.New(app.Options{
		Store:       env.Store(),
		IdleChecker: platform.NewIdleProvider(),
		Autostart:   env.Autostart,
	})
	if err != nil {
		return err
	}
	defer application.Close()
	timer := application.Timer

	fyneApp := fyneapp.NewWithID("com.focusforge.app")
	fyneApp.SetIcon(resources.AppIcon())

	timerWindow := timerwindow.New(fyneApp, application)
	prefsWindow := preferences.New(fyneApp, application.Settings(), application.SaveSettings)
	application.Activity.SetOnChange(timerWindow.RefreshActivity)

	alerter := alert.New(alert.Options{
		Settings: application.Settings,
		Notifier: alert.NotifierFunc(func(title, body string) error {
			fyneApp.SendNotification(fyne.NewNotification(title, body))
			return nil
		}),
		Bell:  os.Stdout,
		Flash: timerWindow.SetFlash,
	})
	defer alerter.Stop()

	quit := func() {
		timer.Close()
		fyneApp.Quit()
	}

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, app.Name, resources.TrayIcon, tray.Callbacks{
			OnStart: timer.Start,
			OnTogglePause: func() {
				if timer.Snapshot().Running {
					timer.Pause()
					return
				}
				timer.Resume()
			},
			OnSkip: timer.Skip,
			OnReset: func() {
				timerWindow.Show()
				timerWindow.RequestReset()
			},
			OnShowTimer: timerWindow.Show,
			OnPreferences: func() {
				prefsWindow.UpdateSettings(application.Settings())
				prefsWindow.Show()
			},
			OnQuit: quit,
		})
		trayManager.Update(timer.Snapshot())
	} else {
		log.Warn().Msg("system tray unsupported on this platform, closing the timer window quits")
		timerWindow.SetOnClose(quit)
	}

	events := timer.Subscribe(32)
	go func() {
		for event := range events {
			snapshot := event.Snapshot
			timerWindow.Render(snapshot)
			if trayManager != nil {
				fyne.Do(func() {
					trayManager.Update(snapshot)
				})
			}
			alerter.Handle(event)
			if event.Type == phasetimer.EventPhaseComplete {
				log.Info().
					Str("completed", string(event.Completed)).
					Str("next", string(snapshot.Phase)).
					Int("sessions", snapshot.CompletedFocusSessions).
					Msg("phase complete")
			}
		}
	}()

	log.Info().Str("dir", env.Dir).Msg("desktop app started")
	timerWindow.Show()
	fyneApp.Run()
	return nil
}
