package preferences

import (
	"strconv"
	"strings"

	"pomodoro/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window edits the timer configuration.
type Window struct {
	window     fyne.Window
	config     model.Configuration
	onSave     func(model.Configuration)
	count      *widget.Entry
	work       *widget.Entry
	shortBreak *widget.Entry
	longBreak  *widget.Entry
	status     *widget.Label
}

// New creates a preferences window. onSave receives the edited configuration.
func New(app fyne.App, config model.Configuration, onSave func(model.Configuration)) *Window {
	window := app.NewWindow("Pomodoro Settings")

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		count:      widget.NewEntry(),
		work:       widget.NewEntry(),
		shortBreak: widget.NewEntry(),
		longBreak:  widget.NewEntry(),
		status:     widget.NewLabel(""),
	}
	prefs.UpdateConfiguration(config)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Cycle", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Pomodoros before long break"), prefs.count),
		container.NewHBox(widget.NewLabel("Work length"), prefs.work, widget.NewLabel("sec")),
		container.NewHBox(widget.NewLabel("Short break length"), prefs.shortBreak, widget.NewLabel("sec")),
		container.NewHBox(widget.NewLabel("Long break length"), prefs.longBreak, widget.NewLabel("sec")),
		prefs.status,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.UpdateConfiguration(prefs.config)
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 260))
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateConfiguration replaces the values shown in the form.
func (prefs *Window) UpdateConfiguration(config model.Configuration) {
	prefs.config = config
	prefs.count.SetText(strconv.Itoa(config.PomosBeforeLongBreak))
	prefs.work.SetText(strconv.Itoa(config.WorkSeconds))
	prefs.shortBreak.SetText(strconv.Itoa(config.ShortBreakSeconds))
	prefs.longBreak.SetText(strconv.Itoa(config.LongBreakSeconds))
	prefs.status.SetText("")
}

func (prefs *Window) handleSave() {
	config := prefs.config
	var invalid []string

	assign := func(target *int, entry *widget.Entry, name string) {
		if value, ok := parsePositiveInt(entry.Text); ok {
			*target = value
			return
		}
		invalid = append(invalid, name)
	}
	assign(&config.PomosBeforeLongBreak, prefs.count, "pomodoros")
	assign(&config.WorkSeconds, prefs.work, "work")
	assign(&config.ShortBreakSeconds, prefs.shortBreak, "short break")
	assign(&config.LongBreakSeconds, prefs.longBreak, "long break")

	if len(invalid) > 0 {
		prefs.status.SetText("Enter a positive whole number for: " + strings.Join(invalid, ", "))
		return
	}

	prefs.config = config
	prefs.status.SetText("")
	if prefs.onSave != nil {
		prefs.onSave(config)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
