package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"focusforge/internal/core/model"
	"focusforge/internal/core/sessions"

	"gopkg.in/yaml.v3"
)

const (
	settingsFileName = "settings.yaml"
	sessionsFileName = "sessions.yaml"
)

type yamlSettings struct {
	FocusMinutes            int   `yaml:"focus_minutes"`
	ShortBreakMinutes       int   `yaml:"short_break_minutes"`
	LongBreakMinutes        int   `yaml:"long_break_minutes"`
	SessionsBeforeLongBreak int   `yaml:"sessions_before_long_break"`
	Notifications           *bool `yaml:"notifications,omitempty"`
	Sound                   *bool `yaml:"sound,omitempty"`
	IdlePause               bool  `yaml:"idle_pause"`
	IdlePauseAfterMinutes   int   `yaml:"idle_pause_after_minutes"`
	LaunchAtLogin           bool  `yaml:"launch_at_login"`
}

type yamlSessions struct {
	CompletedFocusSessions int    `yaml:"completed_focus_sessions"`
	Date                   string `yaml:"date"`
}

// Store persists settings and the session counter as YAML files in one directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir. The directory is created on first save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory holding the YAML files.
func (store *Store) Dir() string {
	return store.dir
}

// LoadSettings reads user preferences from YAML.
// A missing file yields defaults and no error; an unreadable, corrupt or
// invalid file yields defaults together with the error.
func (store *Store) LoadSettings() (model.Settings, error) {
	settings := model.DefaultSettings()

	var fileData yamlSettings
	found, err := store.readYAML(settingsFileName, &fileData)
	if err != nil || !found {
		return settings, err
	}

	applyYamlSettings(&settings, fileData)
	if err := settings.Validate(); err != nil {
		settings.Timer = model.DefaultConfig()
		return settings, fmt.Errorf("invalid timer settings in %s: %w", settingsFileName, err)
	}
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func (store *Store) SaveSettings(settings model.Settings) error {
	notifications := settings.Notifications
	sound := settings.Sound
	fileData := yamlSettings{
		FocusMinutes:            settings.Timer.FocusMinutes,
		ShortBreakMinutes:       settings.Timer.ShortBreakMinutes,
		LongBreakMinutes:        settings.Timer.LongBreakMinutes,
		SessionsBeforeLongBreak: settings.Timer.SessionsBeforeLongBreak,
		Notifications:           &notifications,
		Sound:                   &sound,
		IdlePause:               settings.IdlePause,
		IdlePauseAfterMinutes:   int(settings.IdlePauseAfter / time.Minute),
		LaunchAtLogin:           settings.LaunchAtLogin,
	}
	return store.writeYAML(settingsFileName, fileData)
}

// LoadSessions reads the persisted session counter.
// A missing file yields an empty record and no error.
func (store *Store) LoadSessions() (sessions.Record, error) {
	var fileData yamlSessions
	found, err := store.readYAML(sessionsFileName, &fileData)
	if err != nil || !found {
		return sessions.Record{}, err
	}
	if fileData.CompletedFocusSessions < 0 {
		return sessions.Record{}, fmt.Errorf("parse %s: negative session count %d", sessionsFileName, fileData.CompletedFocusSessions)
	}
	return sessions.Record{Count: fileData.CompletedFocusSessions, Date: fileData.Date}, nil
}

// SaveSessions writes the session counter.
func (store *Store) SaveSessions(record sessions.Record) error {
	return store.writeYAML(sessionsFileName, yamlSessions{
		CompletedFocusSessions: record.Count,
		Date:                   record.Date,
	})
}

// RecordSessions lets the Store act as the PhaseTimer's recorder.
func (store *Store) RecordSessions(record sessions.Record) error {
	return store.SaveSessions(record)
}

func (store *Store) readYAML(fileName string, target any) (bool, error) {
	rawData, err := os.ReadFile(filepath.Join(store.dir, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", fileName, err)
	}
	if err := yaml.Unmarshal(rawData, target); err != nil {
		return false, fmt.Errorf("parse %s: %w", fileName, err)
	}
	return true, nil
}

func (store *Store) writeYAML(fileName string, value any) error {
	if err := os.MkdirAll(store.dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", fileName, err)
	}

	path := filepath.Join(store.dir, fileName)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fileName, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", fileName, err)
	}
	return nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.FocusMinutes != 0 {
		settings.Timer.FocusMinutes = fileData.FocusMinutes
	}
	if fileData.ShortBreakMinutes != 0 {
		settings.Timer.ShortBreakMinutes = fileData.ShortBreakMinutes
	}
	if fileData.LongBreakMinutes != 0 {
		settings.Timer.LongBreakMinutes = fileData.LongBreakMinutes
	}
	if fileData.SessionsBeforeLongBreak != 0 {
		settings.Timer.SessionsBeforeLongBreak = fileData.SessionsBeforeLongBreak
	}
	if fileData.IdlePauseAfterMinutes > 0 {
		settings.IdlePauseAfter = time.Duration(fileData.IdlePauseAfterMinutes) * time.Minute
	}
	if fileData.Notifications != nil {
		settings.Notifications = *fileData.Notifications
	}
	if fileData.Sound != nil {
		settings.Sound = *fileData.Sound
	}

	settings.IdlePause = fileData.IdlePause
	settings.LaunchAtLogin = fileData.LaunchAtLogin
}
