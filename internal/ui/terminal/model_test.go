package terminal

import (
	"bytes"
	"testing"
	"time"

	"focusforge/internal/app"
	"focusforge/internal/core/model"
	"focusforge/internal/core/phasetimer"
	"focusforge/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type silentSource struct{}

func (silentSource) Arm(time.Duration, func()) func() { return func() {} }

func newTestModel(t *testing.T) (Model, *app.App, *bytes.Buffer) {
	t.Helper()
	application, err := app.New(app.Options{
		Store:  storage.New(t.TempDir()),
		Clock:  clockwork.NewFakeClockAt(time.Date(2026, 10, 18, 9, 0, 0, 0, time.Local)),
		Source: silentSource{},
	})
	require.NoError(t, err)
	t.Cleanup(application.Close)

	var bell bytes.Buffer
	return New(application, &bell), application, &bell
}

func press(t *testing.T, m Model, keys string) Model {
	t.Helper()
	for _, r := range keys {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		next, ok := updated.(Model)
		require.True(t, ok, "expected Model from Update")
		m = next
	}
	return m
}

func TestInitialViewShowsIdleFocusLength(t *testing.T) {
	m, _, _ := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, "FocusForge")
	assert.Contains(t, view, "Idle")
	assert.Contains(t, view, "25:00")
	assert.Contains(t, view, "Completed focus sessions today: 0")
	assert.True(t, m.keys.Start.Enabled())
	assert.False(t, m.keys.Skip.Enabled())
}

func TestStartPauseResumeKeys(t *testing.T) {
	m, application, _ := newTestModel(t)

	m = press(t, m, "s")
	assert.Equal(t, phasetimer.PhaseFocus, m.snapshot.Phase)
	assert.True(t, m.snapshot.Running)
	assert.False(t, m.keys.Start.Enabled())

	m = press(t, m, "p")
	assert.True(t, application.Timer.Snapshot().Paused())
	assert.Contains(t, m.View(), "paused")

	m = press(t, m, "p")
	assert.True(t, application.Timer.Snapshot().Running)
}

func TestSkipKeyAdvancesPhase(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, "n")
	assert.Equal(t, phasetimer.PhaseIdle, m.snapshot.Phase, "skip does nothing while idle")

	m = press(t, m, "sn")
	assert.Equal(t, phasetimer.PhaseShortBreak, m.snapshot.Phase)
	assert.Equal(t, 1, m.snapshot.CompletedFocusSessions)
	assert.Contains(t, m.View(), "05:00")
}

func TestResetNeedsConfirmation(t *testing.T) {
	m, application, _ := newTestModel(t)
	m = press(t, m, "sn")

	m = press(t, m, "r")
	assert.True(t, m.confirming)
	assert.Contains(t, m.View(), "Reset timer and session count? (y/n)")

	m = press(t, m, "n")
	assert.False(t, m.confirming)
	assert.Equal(t, phasetimer.PhaseShortBreak, application.Timer.Snapshot().Phase)

	m = press(t, m, "ry")
	assert.False(t, m.confirming)
	snapshot := application.Timer.Snapshot()
	assert.Equal(t, phasetimer.PhaseIdle, snapshot.Phase)
	assert.Zero(t, snapshot.CompletedFocusSessions)
}

func TestConfirmModeIgnoresOtherKeys(t *testing.T) {
	m, application, _ := newTestModel(t)

	m = press(t, m, "rs")
	assert.True(t, m.confirming)
	assert.Equal(t, phasetimer.PhaseIdle, application.Timer.Snapshot().Phase)
}

func TestQuitKey(t *testing.T) {
	m, _, _ := newTestModel(t)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, updated.(Model).View())
}

func TestEventMsgUpdatesSnapshot(t *testing.T) {
	m, _, _ := newTestModel(t)
	event := phasetimer.Event{
		Type:     phasetimer.EventTick,
		Snapshot: phasetimer.Snapshot{Phase: phasetimer.PhaseLongBreak, RemainingSeconds: 61, TotalSeconds: 900, Running: true},
	}

	updated, cmd := m.Update(eventMsg(event))

	assert.NotNil(t, cmd)
	view := updated.(Model).View()
	assert.Contains(t, view, "Long Break")
	assert.Contains(t, view, "01:01")
}

func TestRingFollowsSoundSetting(t *testing.T) {
	m, application, bell := newTestModel(t)

	cmd := m.ring()
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, "\a", bell.String())

	settings := model.DefaultSettings()
	settings.Sound = false
	require.NoError(t, application.SaveSettings(settings))
	assert.Nil(t, m.ring())
}

func TestClosedTimerQuits(t *testing.T) {
	m, application, _ := newTestModel(t)
	application.Close()

	msg := waitForEvent(m.events)()
	assert.Equal(t, closedMsg{}, msg)

	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWindowResizeClampsProgressWidth(t *testing.T) {
	m, _, _ := newTestModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	assert.Equal(t, maxBarWidth, updated.(Model).progress.Width)

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 12, Height: 40})
	assert.Equal(t, 10, updated.(Model).progress.Width)
}
