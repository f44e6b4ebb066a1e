package tray

import (
	"testing"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/pomodoro"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrayApp struct {
	menus []*fyne.Menu
	icons []fyne.Resource
}

func (app *fakeTrayApp) SetSystemTrayMenu(menu *fyne.Menu) { app.menus = append(app.menus, menu) }

func (app *fakeTrayApp) SetSystemTrayIcon(icon fyne.Resource) { app.icons = append(app.icons, icon) }

func testIcons() Icons {
	return Icons{
		Work:   fyne.NewStaticResource("work", []byte("w")),
		Break:  fyne.NewStaticResource("break", []byte("b")),
		Paused: fyne.NewStaticResource("paused", []byte("p")),
	}
}

func findItem(t *testing.T, menu *fyne.Menu, label string) *fyne.MenuItem {
	t.Helper()
	for _, item := range menu.Items {
		if item.Label == label {
			return item
		}
	}
	t.Fatalf("menu item %q not found", label)
	return nil
}

func TestTrayFollowsTimer(t *testing.T) {
	app := &fakeTrayApp{}
	icons := testIcons()
	timer := pomodoro.New(model.Configuration{PomosBeforeLongBreak: 2, WorkSeconds: 1, ShortBreakSeconds: 2, LongBreakSeconds: 3})
	manager := New(app, icons, Callbacks{})
	manager.Sync(timer.Snapshot())
	timer.Subscribe(manager.Observe)

	assert.Equal(t, "Work 00:01 (paused)", manager.Status())
	require.NotEmpty(t, app.menus)
	assert.Equal(t, icons.Paused, app.icons[len(app.icons)-1])

	timer.Start()
	assert.Equal(t, "Work 00:01", manager.Status())
	assert.Equal(t, icons.Work, app.icons[len(app.icons)-1])
	findItem(t, app.menus[len(app.menus)-1], "Pause")

	timer.Tick()
	timer.Tick()
	assert.Equal(t, "Short Break 00:02", manager.Status())
	assert.Equal(t, icons.Break, app.icons[len(app.icons)-1])
}

func TestTrayCallbacks(t *testing.T) {
	app := &fakeTrayApp{}
	calls := map[string]int{}
	manager := New(app, testIcons(), Callbacks{
		OnShow:           func() { calls["show"]++ },
		OnToggleRunning:  func() { calls["toggle"]++ },
		OnStop:           func() { calls["stop"]++ },
		OnPreferences:    func() { calls["prefs"]++ },
		OnSettingsFolder: func() { calls["folder"]++ },
		OnQuit:           func() { calls["quit"]++ },
	})
	manager.Sync(pomodoro.New(model.DefaultConfiguration()).Snapshot())
	menu := app.menus[len(app.menus)-1]

	findItem(t, menu, "Show").Action()
	findItem(t, menu, "Start").Action()
	findItem(t, menu, "Stop").Action()
	findItem(t, menu, "Preferences").Action()
	findItem(t, menu, "Open settings folder").Action()
	findItem(t, menu, "Quit").Action()

	assert.Equal(t, map[string]int{"show": 1, "toggle": 1, "stop": 1, "prefs": 1, "folder": 1, "quit": 1}, calls)
}

func TestTraySkipsUnchangedStatus(t *testing.T) {
	app := &fakeTrayApp{}
	timer := pomodoro.New(model.DefaultConfiguration())
	manager := New(app, testIcons(), Callbacks{})
	manager.Sync(timer.Snapshot())
	before := len(app.menus)

	timer.Subscribe(manager.Observe)
	timer.Reconfigure(model.Configuration{PomosBeforeLongBreak: 2, WorkSeconds: 1500, ShortBreakSeconds: 1, LongBreakSeconds: 1})
	assert.Len(t, app.menus, before)
}
