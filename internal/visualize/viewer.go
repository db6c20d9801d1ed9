package visualize

import (
	"errors"
	"sync/atomic"

	"dataload/internal/tensor"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppID      = "com.dataload.viewer"
	WindowName = "dataload"
)

// Viewer is a window holding the two-panel image display.
type Viewer struct {
	app     fyne.App
	window  fyne.Window
	display *ImageDisplay
}

func NewViewer(a fyne.App, size fyne.Size) *Viewer {
	window := a.NewWindow(WindowName)
	window.SetMaster()

	display := NewImageDisplay()
	window.SetContent(display.GetContainer())
	window.Resize(size)
	window.CenterOnScreen()

	return &Viewer{app: a, window: window, display: display}
}

func (v *Viewer) Window() fyne.Window { return v.window }

func (v *Viewer) Display() *ImageDisplay { return v.display }

// SetData places img in the left panel and mask in the right one.
func (v *Viewer) SetData(img, mask *tensor.Tensor) error {
	left, right, err := Panels(img, mask)
	if err != nil {
		return err
	}

	v.display.SetInputImage(left)
	v.display.SetMaskImage(right)
	v.window.SetTitle(WindowName + " - " + img.String())
	return nil
}

// Show displays the pair and blocks until the window is closed.
func (v *Viewer) Show(img, mask *tensor.Tensor) error {
	if err := v.SetData(img, mask); err != nil {
		return err
	}
	v.window.ShowAndRun()
	return nil
}

// ErrViewerUsed is returned by VisualizeData after the first window has
// been shown; fyne cannot restart its event loop within one process.
var ErrViewerUsed = errors.New("viewer already shown in this process")

var viewerShown atomic.Bool

// VisualizeData opens a window with img and mask side by side and returns
// once the user closes it. It can be called once per process; later calls
// return ErrViewerUsed. Use Figure to render further pairs.
func VisualizeData(img, mask *tensor.Tensor) error {
	if _, _, err := Panels(img, mask); err != nil {
		return err
	}

	if !viewerShown.CompareAndSwap(false, true) {
		return ErrViewerUsed
	}

	a := app.NewWithID(AppID)
	return NewViewer(a, fyne.NewSize(1000, 500)).Show(img, mask)
}
