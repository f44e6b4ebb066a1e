package window

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

func findButton(t *testing.T, view *Window, text string) *widget.Button {
	t.Helper()
	var found *widget.Button
	var walk func(object fyne.CanvasObject)
	walk = func(object fyne.CanvasObject) {
		if found != nil {
			return
		}
		switch typed := object.(type) {
		case *widget.Button:
			if typed.Text == text {
				found = typed
			}
		case *fyne.Container:
			for _, child := range typed.Objects {
				walk(child)
			}
		}
	}
	walk(view.window.Content())
	if found == nil {
		t.Fatalf("button %q not found", text)
	}
	return found
}
