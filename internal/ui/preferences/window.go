package preferences

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"focusforge/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings model.Settings
	onSave   func(model.Settings) error

	focus      *widget.Entry
	shortBreak *widget.Entry
	longBreak  *widget.Entry
	cadence    *widget.Entry

	notifications *widget.Check
	sound         *widget.Check
	idlePause     *widget.Check
	idleAfter     *widget.Entry
	launchAtLogin *widget.Check

	message *widget.Label
}

// New creates a preferences window. onSave returns an error to keep the
// window open with the error shown.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings) error) *Window {
	window := app.NewWindow("FocusForge Settings")

	prefs := &Window{
		window:        window,
		settings:      settings,
		onSave:        onSave,
		focus:         widget.NewEntry(),
		shortBreak:    widget.NewEntry(),
		longBreak:     widget.NewEntry(),
		cadence:       widget.NewEntry(),
		notifications: widget.NewCheck("Show a notification when a phase ends", nil),
		sound:         widget.NewCheck("Play a sound when a phase ends", nil),
		idleAfter:     widget.NewEntry(),
		launchAtLogin: widget.NewCheck("Launch at login", nil),
		message:       widget.NewLabel(""),
	}
	prefs.idlePause = widget.NewCheck("Pause focus when I'm away", func(checked bool) {
		setEntryEnabled(prefs.idleAfter, checked)
	})
	prefs.message.Importance = widget.DangerImportance
	prefs.message.Wrapping = fyne.TextWrapWord
	prefs.message.Hide()

	timerForm := widget.NewForm(
		widget.NewFormItem(limitLabel("Focus (min)", model.FocusLimit), prefs.focus),
		widget.NewFormItem(limitLabel("Short break (min)", model.ShortBreakLimit), prefs.shortBreak),
		widget.NewFormItem(limitLabel("Long break (min)", model.LongBreakLimit), prefs.longBreak),
		widget.NewFormItem(limitLabel("Sessions before long break", model.CadenceLimit), prefs.cadence),
	)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		timerForm,
		widget.NewLabelWithStyle("Alerts", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.notifications,
		prefs.sound,
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.idlePause,
		container.NewHBox(widget.NewLabel("Away after"), prefs.idleAfter, widget.NewLabel("min")),
		prefs.launchAtLogin,
		prefs.message,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", prefs.handleCancel)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(440, 480))
	window.SetCloseIntercept(prefs.handleCancel)

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	input := model.InputFromConfig(settings.Timer)
	prefs.focus.SetText(input.FocusMinutes)
	prefs.shortBreak.SetText(input.ShortBreakMinutes)
	prefs.longBreak.SetText(input.LongBreakMinutes)
	prefs.cadence.SetText(input.SessionsBeforeLongBreak)

	prefs.notifications.SetChecked(settings.Notifications)
	prefs.sound.SetChecked(settings.Sound)
	prefs.idleAfter.SetText(strconv.Itoa(int(settings.IdlePauseAfter / time.Minute)))
	prefs.idlePause.SetChecked(settings.IdlePause)
	setEntryEnabled(prefs.idleAfter, settings.IdlePause)
	prefs.launchAtLogin.SetChecked(settings.LaunchAtLogin)
	prefs.clearMessage()
}

func (prefs *Window) handleSave() {
	settings, err := prefs.collect()
	if err == nil && prefs.onSave != nil {
		err = prefs.onSave(settings)
	}
	if err != nil {
		prefs.showMessage(err)
		return
	}

	prefs.settings = settings
	prefs.clearMessage()
	prefs.window.Hide()
}

func (prefs *Window) handleCancel() {
	prefs.UpdateSettings(prefs.settings)
	prefs.window.Hide()
}

func (prefs *Window) collect() (model.Settings, error) {
	settings := prefs.settings

	config, err := model.ParseConfig(model.ConfigInput{
		FocusMinutes:            prefs.focus.Text,
		ShortBreakMinutes:       prefs.shortBreak.Text,
		LongBreakMinutes:        prefs.longBreak.Text,
		SessionsBeforeLongBreak: prefs.cadence.Text,
	})
	if err != nil {
		return settings, err
	}
	settings.Timer = config

	settings.Notifications = prefs.notifications.Checked
	settings.Sound = prefs.sound.Checked
	settings.IdlePause = prefs.idlePause.Checked
	settings.LaunchAtLogin = prefs.launchAtLogin.Checked
	if settings.IdlePause {
		minutes, ok := parsePositiveInt(prefs.idleAfter.Text)
		if !ok {
			return settings, errors.New("away time must be a whole number of minutes")
		}
		settings.IdlePauseAfter = time.Duration(minutes) * time.Minute
	}
	return settings, nil
}

func (prefs *Window) showMessage(err error) {
	prefs.message.SetText(err.Error())
	prefs.message.Show()
}

func (prefs *Window) clearMessage() {
	prefs.message.SetText("")
	prefs.message.Hide()
}

func limitLabel(name string, limit model.Limit) string {
	return fmt.Sprintf("%s [%d-%d]", name, limit.Min, limit.Max)
}

func setEntryEnabled(entry *widget.Entry, enabled bool) {
	if enabled {
		entry.Enable()
		return
	}
	entry.Disable()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
