package tray

import (
	"fmt"

	"pomodoro/internal/core/pomodoro"

	"fyne.io/fyne/v2"
)

// App is the part of desktop.App the tray needs.
type App interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Icons holds the tray icon for each timer mode.
type Icons struct {
	Work   fyne.Resource
	Break  fyne.Resource
	Paused fyne.Resource
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow           func()
	OnToggleRunning  func()
	OnStop           func()
	OnPreferences    func()
	OnSettingsFolder func()
	OnQuit           func()
}

// Manager handles system tray state.
type Manager struct {
	app        App
	icons      Icons
	callbacks  Callbacks
	menu       *fyne.Menu
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	status     string
	running    bool
	icon       fyne.Resource
}

// New creates a tray manager with the provided callbacks.
func New(app App, icons Icons, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		icons:     icons,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		invoke(manager.callbacks.OnToggleRunning)
	})

	manager.menu = fyne.NewMenu("Pomodoro",
		manager.statusItem,
		fyne.NewMenuItem("Show", func() { invoke(manager.callbacks.OnShow) }),
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		fyne.NewMenuItem("Stop", func() { invoke(manager.callbacks.OnStop) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", func() { invoke(manager.callbacks.OnPreferences) }),
		fyne.NewMenuItem("Open settings folder", func() { invoke(manager.callbacks.OnSettingsFolder) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { invoke(manager.callbacks.OnQuit) }),
	)

	return manager
}

// Sync renders the full timer state into the menu and icon.
func (manager *Manager) Sync(snapshot pomodoro.Snapshot) {
	manager.status = statusText(snapshot)
	manager.running = snapshot.Running
	manager.statusItem.Label = manager.status
	manager.toggleItem.Label = toggleLabel(manager.running)
	manager.setIcon(manager.iconFor(snapshot))
	manager.app.SetSystemTrayMenu(manager.menu)
}

// Observe updates the tray from a timer event.
func (manager *Manager) Observe(event pomodoro.Event) {
	switch event.Type {
	case pomodoro.EventRemainingChanged, pomodoro.EventPhaseChanged, pomodoro.EventRunningChanged:
		status := statusText(event.Snapshot)
		if status == manager.status && event.Snapshot.Running == manager.running {
			return
		}
		manager.Sync(event.Snapshot)
	}
}

// Status returns the current status line.
func (manager *Manager) Status() string {
	return manager.status
}

func (manager *Manager) setIcon(icon fyne.Resource) {
	if icon == nil || icon == manager.icon {
		return
	}
	manager.icon = icon
	manager.app.SetSystemTrayIcon(icon)
}

func (manager *Manager) iconFor(snapshot pomodoro.Snapshot) fyne.Resource {
	if !snapshot.Running {
		return manager.icons.Paused
	}
	switch snapshot.Phase {
	case pomodoro.PhaseShortBreak, pomodoro.PhaseLongBreak:
		return manager.icons.Break
	}
	return manager.icons.Work
}

func statusText(snapshot pomodoro.Snapshot) string {
	status := fmt.Sprintf("%s %s", snapshot.Phase.Label(), pomodoro.FormatSeconds(snapshot.Remaining))
	if !snapshot.Running {
		status += " (paused)"
	}
	return status
}

func toggleLabel(running bool) string {
	if running {
		return "Pause"
	}
	return "Start"
}

func invoke(callback func()) {
	if callback != nil {
		callback()
	}
}
