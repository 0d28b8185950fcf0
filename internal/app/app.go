// Package app assembles the timer, persisted state and activity log shared
// by the GUI, the terminal UI and the CLI commands.
package app

import (
	"fmt"
	"sync"

	"focusforge/internal/core/eventlog"
	"focusforge/internal/core/model"
	"focusforge/internal/core/phasetimer"
	"focusforge/internal/core/sessions"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Name is the application name used for config paths and the instance lock.
const Name = "FocusForge"

// Store persists settings and the session counter.
type Store interface {
	LoadSettings() (model.Settings, error)
	SaveSettings(settings model.Settings) error
	LoadSessions() (sessions.Record, error)
	SaveSessions(record sessions.Record) error
	RecordSessions(record sessions.Record) error
}

// Options configures New. Store is required.
type Options struct {
	Store       Store
	Clock       clockwork.Clock
	Source      phasetimer.Source
	IdleChecker phasetimer.IdleChecker
	// Autostart applies the launch at login preference when it changes.
	Autostart func(enabled bool) error
}

// App owns one PhaseTimer and the state around it.
type App struct {
	Timer    *phasetimer.PhaseTimer
	Activity *eventlog.Log

	store   Store
	clock   clockwork.Clock
	options Options

	mu       sync.Mutex
	settings model.Settings

	done      chan struct{}
	closeOnce sync.Once
}

// New loads persisted state, applies the daily rollover and starts
// recording timer events into the activity log.
func New(options Options) (*App, error) {
	if options.Store == nil {
		return nil, fmt.Errorf("new app: store is nil")
	}
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}

	settings, err := options.Store.LoadSettings()
	if err != nil {
		log.Warn().Err(err).Msg("load settings, using defaults")
	}

	record, err := options.Store.LoadSessions()
	if err != nil {
		log.Warn().Err(err).Msg("load focus sessions, starting from zero")
		record = sessions.Record{}
	}
	record, changed := sessions.Load(record, options.Clock.Now())
	if changed {
		if err := options.Store.SaveSessions(record); err != nil {
			log.Warn().Err(err).Msg("save rolled over focus sessions")
		}
	}

	timer := phasetimer.New(settings.Timer, record, phasetimer.Options{
		Clock:    options.Clock,
		Source:   options.Source,
		Recorder: options.Store,
	})

	application := &App{
		Timer:    timer,
		Activity: eventlog.New(eventlog.DefaultCapacity),
		store:    options.Store,
		clock:    options.Clock,
		options:  options,
		settings: settings,
		done:     make(chan struct{}),
	}
	application.applyIdlePause(settings)

	events := timer.Subscribe(64)
	go application.recordActivity(events)

	log.Debug().
		Int("focus_minutes", settings.Timer.FocusMinutes).
		Int("completed", record.Count).
		Str("date", record.Date).
		Msg("app initialised")
	return application, nil
}

// Settings returns the preferences currently in effect.
func (application *App) Settings() model.Settings {
	application.mu.Lock()
	defer application.mu.Unlock()
	return application.settings
}

// SaveSettings validates and applies settings. Invalid settings are
// rejected and the previous ones stay in effect. A failed write is logged
// and the new settings still apply for this run.
func (application *App) SaveSettings(settings model.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	application.mu.Lock()
	previous := application.settings
	application.settings = settings
	application.mu.Unlock()

	if err := application.store.SaveSettings(settings); err != nil {
		log.Error().Err(err).Msg("save settings")
	}

	application.Timer.UpdateConfig(settings.Timer)
	application.applyIdlePause(settings)

	if settings.LaunchAtLogin != previous.LaunchAtLogin && application.options.Autostart != nil {
		if err := application.options.Autostart(settings.LaunchAtLogin); err != nil {
			log.Warn().Err(err).Bool("enabled", settings.LaunchAtLogin).Msg("update launch at login")
		}
	}

	application.Activity.Add(application.clock.Now(), "Settings saved.")
	log.Info().
		Int("focus_minutes", settings.Timer.FocusMinutes).
		Int("short_break_minutes", settings.Timer.ShortBreakMinutes).
		Int("long_break_minutes", settings.Timer.LongBreakMinutes).
		Int("sessions_before_long_break", settings.Timer.SessionsBeforeLongBreak).
		Msg("settings saved")
	return nil
}

// Close stops the timer and waits for the activity recorder to drain.
func (application *App) Close() {
	application.closeOnce.Do(func() {
		application.Timer.Close()
		<-application.done
	})
}

func (application *App) applyIdlePause(settings model.Settings) {
	if !settings.IdlePause || application.options.IdleChecker == nil {
		application.Timer.SetIdleChecker(nil, 0)
		return
	}
	application.Timer.SetIdleChecker(application.options.IdleChecker, settings.IdlePauseAfter)
}

func (application *App) recordActivity(events <-chan phasetimer.Event) {
	defer close(application.done)
	for event := range events {
		application.Activity.Record(event)
	}
}
