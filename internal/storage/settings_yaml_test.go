package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"focusforge/internal/core/model"
	"focusforge/internal/core/sessions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "FocusForge"))

	settings, err := store.LoadSettings()

	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestSettingsRoundTrip(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "nested", "FocusForge"))
	settings := model.Settings{
		Timer:          model.Config{FocusMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 30, SessionsBeforeLongBreak: 3},
		Notifications:  false,
		Sound:          false,
		IdlePause:      true,
		IdlePauseAfter: 7 * time.Minute,
		LaunchAtLogin:  true,
	}

	require.NoError(t, store.SaveSettings(settings))
	loaded, err := store.LoadSettings()

	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestLoadSettingsCorruptFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, settingsFileName, "focus_minutes: [not a number\n")

	settings, err := New(dir).LoadSettings()

	assert.Error(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestLoadSettingsInvalidValuesFallBack(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, settingsFileName, "focus_minutes: 500\nsound: false\n")

	settings, err := New(dir).LoadSettings()

	var validationErr *model.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, model.DefaultConfig(), settings.Timer)
	assert.False(t, settings.Sound, "non-timer preferences still apply")
}

func TestLoadSettingsPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, settingsFileName, "focus_minutes: 45\n")

	settings, err := New(dir).LoadSettings()

	require.NoError(t, err)
	assert.Equal(t, 45, settings.Timer.FocusMinutes)
	assert.Equal(t, 5, settings.Timer.ShortBreakMinutes)
	assert.True(t, settings.Notifications)
	assert.True(t, settings.Sound)
	assert.Equal(t, 5*time.Minute, settings.IdlePauseAfter)
}

func TestSessionsRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	record := sessions.Record{Count: 6, Date: "2026-10-18"}

	require.NoError(t, store.RecordSessions(record))
	loaded, err := store.LoadSessions()

	require.NoError(t, err)
	assert.Equal(t, record, loaded)

	_, statErr := os.Stat(filepath.Join(store.Dir(), sessionsFileName+".tmp"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadSessionsMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	record, err := store.LoadSessions()
	require.NoError(t, err)
	assert.Equal(t, sessions.Record{}, record)

	writeFile(t, dir, sessionsFileName, "completed_focus_sessions: seven\n")
	record, err = store.LoadSessions()
	assert.Error(t, err)
	assert.Equal(t, sessions.Record{}, record)

	writeFile(t, dir, sessionsFileName, "completed_focus_sessions: -2\ndate: 2026-10-18\n")
	record, err = store.LoadSessions()
	assert.Error(t, err)
	assert.Equal(t, sessions.Record{}, record)
}

func TestSaveFailsWhenDirIsAFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	writeFile(t, dir, "blocker", "")

	err := New(blocker).SaveSessions(sessions.Record{Count: 1, Date: "2026-10-18"})
	assert.Error(t, err)
}
