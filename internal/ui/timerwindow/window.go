package timerwindow

import (
	"fmt"
	"image/color"

	"focusforge/internal/app"
	"focusforge/internal/core/eventlog"
	"focusforge/internal/core/phasetimer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"
)

const resetQuestion = "Reset the timer and today's session count?"

var (
	focusColor      = color.NRGBA{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff}
	shortBreakColor = color.NRGBA{R: 0x29, G: 0x80, B: 0xb9, A: 0xff}
	longBreakColor  = color.NRGBA{R: 0x27, G: 0xae, B: 0x60, A: 0xff}
	flashColor      = color.NRGBA{R: 0xf1, G: 0xc4, B: 0x0f, A: 0xff}
)

// ConfirmFunc asks a yes/no question and reports the answer.
type ConfirmFunc func(title, message string, onResult func(confirmed bool))

// Window shows the countdown, controls and recent activity.
type Window struct {
	window fyne.Window
	app    *app.App

	phaseLabel   *canvas.Text
	clockLabel   *canvas.Text
	progress     *widget.ProgressBar
	counterLabel *widget.Label
	startButton  *widget.Button
	pauseButton  *widget.Button
	resumeButton *widget.Button
	skipButton   *widget.Button
	resetButton  *widget.Button
	activityList *widget.List

	entries  []eventlog.Entry
	snapshot phasetimer.Snapshot
	flashing bool
	confirm  ConfirmFunc

	// confirming is set while a reset dialog is open.
	confirming bool
}

// New creates the timer window. Closing it only hides it.
func New(fyneApp fyne.App, application *app.App) *Window {
	window := fyneApp.NewWindow(app.Name)
	if fyneApp.Icon() != nil {
		window.SetIcon(fyneApp.Icon())
	}

	phaseLabel := canvas.NewText("", focusColor)
	phaseLabel.Alignment = fyne.TextAlignCenter
	phaseLabel.TextStyle = fyne.TextStyle{Bold: true}
	phaseLabel.TextSize = 22

	clockLabel := canvas.NewText("--:--", focusColor)
	clockLabel.Alignment = fyne.TextAlignCenter
	clockLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockLabel.TextSize = 56

	timerWindow := &Window{
		window:       window,
		app:          application,
		phaseLabel:   phaseLabel,
		clockLabel:   clockLabel,
		progress:     widget.NewProgressBar(),
		counterLabel: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
	}
	timerWindow.progress.TextFormatter = func() string { return "" }
	timerWindow.confirm = func(title, message string, onResult func(bool)) {
		dialog.ShowConfirm(title, message, onResult, window)
	}

	timer := application.Timer
	timerWindow.startButton = widget.NewButton("Start", timer.Start)
	timerWindow.pauseButton = widget.NewButton("Pause", timer.Pause)
	timerWindow.resumeButton = widget.NewButton("Resume", timer.Resume)
	timerWindow.skipButton = widget.NewButton("Skip", timer.Skip)
	timerWindow.resetButton = widget.NewButton("Reset", timerWindow.RequestReset)
	timerWindow.startButton.Importance = widget.HighImportance

	timerWindow.activityList = widget.NewList(
		func() int { return len(timerWindow.entries) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id < len(timerWindow.entries) {
				item.(*widget.Label).SetText(timerWindow.entries[id].String())
			}
		},
	)

	buttons := container.NewHBox(
		layout.NewSpacer(),
		timerWindow.startButton,
		timerWindow.pauseButton,
		timerWindow.resumeButton,
		timerWindow.skipButton,
		timerWindow.resetButton,
		layout.NewSpacer(),
	)
	header := container.NewVBox(
		phaseLabel,
		clockLabel,
		timerWindow.progress,
		timerWindow.counterLabel,
		buttons,
		widget.NewLabelWithStyle("Activity", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	window.SetContent(container.NewBorder(header, nil, nil, nil, timerWindow.activityList))
	window.Resize(fyne.NewSize(440, 520))
	window.SetCloseIntercept(window.Hide)

	timerWindow.render(application.Timer.Snapshot())
	timerWindow.refreshActivity()
	return timerWindow
}

// Show displays the window.
func (timerWindow *Window) Show() {
	timerWindow.window.Show()
	timerWindow.window.RequestFocus()
}

// Render updates the window from any goroutine.
func (timerWindow *Window) Render(snapshot phasetimer.Snapshot) {
	fyne.Do(func() {
		timerWindow.render(snapshot)
	})
}

// RefreshActivity reloads the activity list from any goroutine.
func (timerWindow *Window) RefreshActivity() {
	fyne.Do(timerWindow.refreshActivity)
}

// SetFlash highlights the phase label from any goroutine.
func (timerWindow *Window) SetFlash(on bool) {
	fyne.Do(func() {
		timerWindow.flashing = on
		timerWindow.applyColor()
	})
}

// SetOnClose replaces hiding the window when the user closes it.
func (timerWindow *Window) SetOnClose(handler func()) {
	timerWindow.window.SetCloseIntercept(handler)
}

// SetConfirm replaces the reset confirmation prompt.
func (timerWindow *Window) SetConfirm(confirm ConfirmFunc) {
	timerWindow.confirm = confirm
}

// RequestReset asks for confirmation and then resets or cancels. It does
// nothing while a confirmation dialog is already open.
func (timerWindow *Window) RequestReset() {
	if timerWindow.confirming {
		return
	}
	timerWindow.confirming = true
	timer := timerWindow.app.Timer
	intent := timer.RequestReset()
	timerWindow.confirm("Reset", resetQuestion, func(confirmed bool) {
		timerWindow.confirming = false
		var err error
		if confirmed {
			err = timer.ConfirmReset(intent)
		} else {
			err = timer.CancelReset(intent)
		}
		if err != nil {
			log.Warn().Err(err).Bool("confirmed", confirmed).Msg("resolve reset request")
		}
	})
}

func (timerWindow *Window) render(snapshot phasetimer.Snapshot) {
	timerWindow.snapshot = snapshot

	label := snapshot.Phase.Label()
	if snapshot.Phase == phasetimer.PhaseIdle {
		label = "Ready to focus"
	} else if snapshot.Paused() {
		label += " (paused)"
	}
	timerWindow.phaseLabel.Text = label
	timerWindow.clockLabel.Text = snapshot.Clock()
	timerWindow.applyColor()

	timerWindow.progress.SetValue(snapshot.Progress())
	timerWindow.counterLabel.SetText(fmt.Sprintf("Completed focus sessions today: %d", snapshot.CompletedFocusSessions))

	controls := snapshot.Controls()
	setEnabled(timerWindow.startButton, controls.Start)
	setEnabled(timerWindow.pauseButton, controls.Pause)
	setEnabled(timerWindow.resumeButton, controls.Resume)
	setEnabled(timerWindow.skipButton, controls.Skip)
	setEnabled(timerWindow.resetButton, controls.Reset)
	timerWindow.window.SetTitle(fmt.Sprintf("%s %s", snapshot.Clock(), app.Name))
}

func (timerWindow *Window) refreshActivity() {
	timerWindow.entries = timerWindow.app.Activity.Entries()
	timerWindow.activityList.Refresh()
}

func (timerWindow *Window) applyColor() {
	textColor := PhaseColor(timerWindow.snapshot.Phase)
	if timerWindow.flashing {
		textColor = flashColor
	}
	timerWindow.phaseLabel.Color = textColor
	timerWindow.clockLabel.Color = textColor
	timerWindow.phaseLabel.Refresh()
	timerWindow.clockLabel.Refresh()
}

// PhaseColor returns the accent colour of phase. Idle uses the focus colour.
func PhaseColor(phase phasetimer.Phase) color.NRGBA {
	switch phase {
	case phasetimer.PhaseShortBreak:
		return shortBreakColor
	case phasetimer.PhaseLongBreak:
		return longBreakColor
	default:
		return focusColor
	}
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}
