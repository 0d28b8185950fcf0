package tray

import (
	"fmt"

	"focusforge/internal/core/phasetimer"

	"fyne.io/fyne/v2"
)

// Host is the part of desktop.App the tray needs.
type Host interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStart       func()
	OnTogglePause func()
	OnSkip        func()
	OnReset       func()
	OnShowTimer   func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	host       Host
	title      string
	callbacks  Callbacks
	iconFor    func(phasetimer.Snapshot) fyne.Resource
	statusItem *fyne.MenuItem
	startItem  *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	skipItem   *fyne.MenuItem
	resetItem  *fyne.MenuItem
	menu       *fyne.Menu
	icon       fyne.Resource
}

// New creates a tray manager. iconFor picks the tray icon for a snapshot
// and may be nil.
func New(host Host, title string, iconFor func(phasetimer.Snapshot) fyne.Resource, callbacks Callbacks) *Manager {
	manager := &Manager{
		host:      host,
		title:     title,
		callbacks: callbacks,
		iconFor:   iconFor,
	}

	manager.statusItem = fyne.NewMenuItem("Status: idle", nil)
	manager.statusItem.Disabled = true
	manager.startItem = fyne.NewMenuItem("Start", call(&manager.callbacks.OnStart))
	manager.pauseItem = fyne.NewMenuItem("Pause", call(&manager.callbacks.OnTogglePause))
	manager.skipItem = fyne.NewMenuItem("Skip", call(&manager.callbacks.OnSkip))
	manager.resetItem = fyne.NewMenuItem("Reset…", call(&manager.callbacks.OnReset))

	manager.menu = fyne.NewMenu(title,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.pauseItem,
		manager.skipItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show timer", call(&manager.callbacks.OnShowTimer)),
		fyne.NewMenuItem("Preferences", call(&manager.callbacks.OnPreferences)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", call(&manager.callbacks.OnQuit)),
	)
	// Fyne adds its own Quit item to tray menus unless one is flagged.
	manager.menu.Items[len(manager.menu.Items)-1].IsQuit = true

	manager.Update(phasetimer.Snapshot{Phase: phasetimer.PhaseIdle})
	return manager
}

// Update refreshes labels, enabled items and the icon. Call it on the
// Fyne main goroutine.
func (manager *Manager) Update(snapshot phasetimer.Snapshot) {
	controls := snapshot.Controls()
	manager.statusItem.Label = "Status: " + StatusText(snapshot)
	manager.startItem.Disabled = !controls.Start
	manager.pauseItem.Disabled = !controls.Pause && !controls.Resume
	if controls.Resume {
		manager.pauseItem.Label = "Resume"
	} else {
		manager.pauseItem.Label = "Pause"
	}
	manager.skipItem.Disabled = !controls.Skip
	manager.resetItem.Disabled = !controls.Reset

	if manager.iconFor != nil {
		if icon := manager.iconFor(snapshot); icon != nil && icon != manager.icon {
			manager.icon = icon
			manager.host.SetSystemTrayIcon(icon)
		}
	}
	manager.refreshMenu()
}

// StatusText summarises a snapshot for the tray.
func StatusText(snapshot phasetimer.Snapshot) string {
	if snapshot.Phase == phasetimer.PhaseIdle {
		return fmt.Sprintf("idle, %d done today", snapshot.CompletedFocusSessions)
	}
	status := fmt.Sprintf("%s %s", snapshot.Phase.Label(), snapshot.Clock())
	if snapshot.Paused() {
		status += " (paused)"
	}
	return status
}

func (manager *Manager) refreshMenu() {
	if manager.host != nil {
		manager.host.SetSystemTrayMenu(manager.menu)
	}
}

func call(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}
