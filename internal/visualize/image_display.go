package visualize

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	ImageAreaWidth  = 400
	ImageAreaHeight = 400
)

type ImageDisplay struct {
	container  fyne.CanvasObject
	inputImage *canvas.Image
	maskImage  *canvas.Image
	splitView  *container.Split
}

func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents()
	display.setupLayout()
	return display
}

func (id *ImageDisplay) createComponents() {
	id.inputImage = newPanelImage(canvas.ImageScaleSmooth)
	// Nearest-neighbour keeps mask edges hard when zoomed.
	id.maskImage = newPanelImage(canvas.ImageScalePixels)
}

func newPanelImage(scale canvas.ImageScale) *canvas.Image {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = scale
	img.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))
	return img
}

func (id *ImageDisplay) setupLayout() {
	inputContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**"+ImageTitle+"**"),
		nil, nil, nil,
		id.inputImage,
	)

	maskContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**"+MaskTitle+"**"),
		nil, nil, nil,
		id.maskImage,
	)

	id.splitView = container.NewHSplit(inputContainer, maskContainer)
	id.splitView.SetOffset(0.5)
	id.container = id.splitView
}

func (id *ImageDisplay) GetContainer() fyne.CanvasObject {
	return id.container
}

func (id *ImageDisplay) SetInputImage(img image.Image) {
	id.inputImage.Image = img
	id.inputImage.Refresh()
}

func (id *ImageDisplay) SetMaskImage(img image.Image) {
	id.maskImage.Image = img
	id.maskImage.Refresh()
}

func (id *ImageDisplay) InputImage() *canvas.Image { return id.inputImage }
func (id *ImageDisplay) MaskImage() *canvas.Image  { return id.maskImage }

func (id *ImageDisplay) GetSplitView() *container.Split {
	return id.splitView
}
