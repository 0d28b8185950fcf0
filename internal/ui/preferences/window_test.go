package preferences

import (
	"errors"
	"testing"
	"time"

	"focusforge/internal/core/model"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWindow(t *testing.T, onSave func(model.Settings) error) *Window {
	t.Helper()
	return New(test.NewTempApp(t), model.DefaultSettings(), onSave)
}

func TestWindowShowsSettings(t *testing.T) {
	prefs := newTestWindow(t, nil)

	assert.Equal(t, "25", prefs.focus.Text)
	assert.Equal(t, "5", prefs.shortBreak.Text)
	assert.Equal(t, "15", prefs.longBreak.Text)
	assert.Equal(t, "4", prefs.cadence.Text)
	assert.True(t, prefs.notifications.Checked)
	assert.True(t, prefs.sound.Checked)
	assert.False(t, prefs.idlePause.Checked)
	assert.True(t, prefs.idleAfter.Disabled())
	assert.False(t, prefs.message.Visible())
}

func TestSaveValidSettings(t *testing.T) {
	var saved []model.Settings
	prefs := newTestWindow(t, func(settings model.Settings) error {
		saved = append(saved, settings)
		return nil
	})

	prefs.focus.SetText(" 50 ")
	prefs.cadence.SetText("2")
	prefs.sound.SetChecked(false)
	prefs.idlePause.SetChecked(true)
	prefs.idleAfter.SetText("10")
	prefs.handleSave()

	require.Len(t, saved, 1)
	assert.Equal(t, 50, saved[0].Timer.FocusMinutes)
	assert.Equal(t, 2, saved[0].Timer.SessionsBeforeLongBreak)
	assert.False(t, saved[0].Sound)
	assert.True(t, saved[0].IdlePause)
	assert.Equal(t, 10*time.Minute, saved[0].IdlePauseAfter)
	assert.False(t, prefs.message.Visible())
}

func TestSaveInvalidShowsMessage(t *testing.T) {
	called := false
	prefs := newTestWindow(t, func(model.Settings) error {
		called = true
		return nil
	})

	prefs.shortBreak.SetText("45")
	prefs.handleSave()

	assert.False(t, called)
	assert.True(t, prefs.message.Visible())
	assert.Equal(t, `short break length must be a whole number between 1 and 30 (got "45")`, prefs.message.Text)

	prefs.focus.SetText("abc")
	prefs.shortBreak.SetText("5")
	prefs.handleSave()
	assert.Contains(t, prefs.message.Text, "focus length")
}

func TestSaveErrorFromCallbackKeepsWindowState(t *testing.T) {
	prefs := newTestWindow(t, func(model.Settings) error {
		return errors.New("settings rejected")
	})

	prefs.focus.SetText("30")
	prefs.handleSave()

	assert.Equal(t, "settings rejected", prefs.message.Text)
	assert.Equal(t, 25, prefs.settings.Timer.FocusMinutes)
}

func TestInvalidAwayTime(t *testing.T) {
	prefs := newTestWindow(t, func(model.Settings) error { return nil })

	prefs.idlePause.SetChecked(true)
	prefs.idleAfter.SetText("0")
	prefs.handleSave()

	assert.Equal(t, "away time must be a whole number of minutes", prefs.message.Text)
}

func TestCancelRestoresValues(t *testing.T) {
	prefs := newTestWindow(t, nil)

	prefs.focus.SetText("60")
	prefs.handleCancel()

	assert.Equal(t, "25", prefs.focus.Text)
}
