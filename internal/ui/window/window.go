// Package window renders the main pomodoro window.
package window

import (
	"image/color"

	"pomodoro/internal/core/pomodoro"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Callbacks defines window actions that leave the timer core.
type Callbacks struct {
	OnPreferences    func()
	OnSettingsFolder func()
}

var (
	colorWork       = color.NRGBA{R: 229, G: 83, B: 61, A: 255}
	colorShortBreak = color.NRGBA{R: 74, G: 144, B: 217, A: 255}
	colorLongBreak  = color.NRGBA{R: 60, G: 154, B: 74, A: 255}
	colorCycleIdle  = color.NRGBA{R: 120, G: 120, B: 120, A: 255}
)

const (
	timeTextSize = 56
	cycleDotSize = 14
)

// Window shows the timer state and the Start/Pause/Stop commands.
type Window struct {
	window      fyne.Window
	timer       *pomodoro.Timer
	callbacks   Callbacks
	phaseLabel  *widget.Label
	timeText    *canvas.Text
	progress    *widget.ProgressBar
	cycles      *fyne.Container
	startButton *widget.Button
	pauseButton *widget.Button
	stopButton  *widget.Button
	unsubscribe func()
}

// New creates the main window bound to timer. The window only reads the
// timer in response to its events, so it must be created on the thread that
// drives the timer.
func New(app fyne.App, title string, timer *pomodoro.Timer, callbacks Callbacks) *Window {
	window := app.NewWindow(title)

	phaseLabel := widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	timeText := canvas.NewText("", colorWork)
	timeText.Alignment = fyne.TextAlignCenter
	timeText.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timeText.TextSize = timeTextSize

	progress := widget.NewProgressBar()
	progress.Min = 0
	progress.Max = 1
	progress.TextFormatter = func() string { return "" }

	view := &Window{
		window:     window,
		timer:      timer,
		callbacks:  callbacks,
		phaseLabel: phaseLabel,
		timeText:   timeText,
		progress:   progress,
		cycles:     container.NewHBox(),
	}

	view.startButton = widget.NewButton("Start", func() { timer.Start() })
	view.pauseButton = widget.NewButton("Pause", func() { timer.Pause() })
	view.stopButton = widget.NewButton("Stop", func() { timer.Stop() })

	settingsButton := widget.NewButton("Open settings folder", func() {
		if view.callbacks.OnSettingsFolder != nil {
			view.callbacks.OnSettingsFolder()
		}
	})
	preferencesButton := widget.NewButton("Preferences", func() {
		if view.callbacks.OnPreferences != nil {
			view.callbacks.OnPreferences()
		}
	})

	content := container.NewVBox(
		phaseLabel,
		timeText,
		progress,
		container.NewCenter(view.cycles),
		container.NewGridWithColumns(3, view.startButton, view.pauseButton, view.stopButton),
		container.NewHBox(settingsButton, layout.NewSpacer(), preferencesButton),
	)
	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(320, 260))

	view.rebuildCycles()
	view.refreshAll()
	view.unsubscribe = timer.Subscribe(view.Observe)

	return view
}

// Window returns the underlying fyne window.
func (view *Window) Window() fyne.Window {
	return view.window
}

// Show displays the window and brings it to front.
func (view *Window) Show() {
	view.window.Show()
	view.window.RequestFocus()
}

// Close detaches from the timer and closes the window.
func (view *Window) Close() {
	if view.unsubscribe != nil {
		view.unsubscribe()
		view.unsubscribe = nil
	}
	view.window.Close()
}

// Observe applies a timer event to the widgets it affects.
func (view *Window) Observe(event pomodoro.Event) {
	switch event.Type {
	case pomodoro.EventSettingsChanged:
		view.rebuildCycles()
		view.refreshProgress()
	case pomodoro.EventCycleIndexChanged:
		view.refreshCycles()
	case pomodoro.EventPhaseChanged:
		view.refreshPhase()
		view.refreshCycles()
	case pomodoro.EventRemainingChanged:
		view.refreshTime()
		view.refreshProgress()
	case pomodoro.EventRunningChanged:
		view.refreshButtons()
	}
}

func (view *Window) refreshAll() {
	view.refreshPhase()
	view.refreshTime()
	view.refreshProgress()
	view.refreshCycles()
	view.refreshButtons()
}

func (view *Window) refreshPhase() {
	view.phaseLabel.SetText(view.timer.PhaseLabel())
	view.timeText.Color = phaseColor(view.timer.Phase())
	view.timeText.Refresh()
}

func (view *Window) refreshTime() {
	view.timeText.Text = view.timer.FormattedRemaining()
	view.timeText.Refresh()
}

func (view *Window) refreshProgress() {
	view.progress.SetValue(view.timer.Progress())
}

func (view *Window) refreshButtons() {
	if view.timer.Running() {
		view.startButton.Disable()
		view.pauseButton.Enable()
		return
	}
	view.startButton.Enable()
	view.pauseButton.Disable()
}

func (view *Window) rebuildCycles() {
	count := view.timer.Configuration().PomosBeforeLongBreak
	objects := make([]fyne.CanvasObject, 0, count)
	for i := 0; i < count; i++ {
		dot := canvas.NewCircle(colorCycleIdle)
		dot.Resize(fyne.NewSize(cycleDotSize, cycleDotSize))
		objects = append(objects, container.NewGridWrap(fyne.NewSize(cycleDotSize, cycleDotSize), dot))
	}
	view.cycles.Objects = objects
	view.refreshCycles()
}

func (view *Window) refreshCycles() {
	active := view.timer.CycleIndex()
	for i, object := range view.cycles.Objects {
		dot := cycleDot(object)
		if dot == nil {
			continue
		}
		switch {
		case i < active:
			dot.FillColor = colorWork
		case i == active:
			dot.FillColor = phaseColor(view.timer.Phase())
		default:
			dot.FillColor = colorCycleIdle
		}
		dot.Refresh()
	}
	view.cycles.Refresh()
}

func cycleDot(object fyne.CanvasObject) *canvas.Circle {
	wrapper, ok := object.(*fyne.Container)
	if !ok || len(wrapper.Objects) == 0 {
		return nil
	}
	dot, _ := wrapper.Objects[0].(*canvas.Circle)
	return dot
}

func phaseColor(phase pomodoro.Phase) color.Color {
	switch phase {
	case pomodoro.PhaseWork:
		return colorWork
	case pomodoro.PhaseShortBreak:
		return colorShortBreak
	case pomodoro.PhaseLongBreak:
		return colorLongBreak
	}
	return colorCycleIdle
}
