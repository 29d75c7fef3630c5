package iconview

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"

	"github.com/alexballas/xiconview/iconcontainer"
)

// marquee draws the band selection rectangle and the stretch handles, in
// canvas coordinates.
type marquee struct {
	band    *canvas.Rectangle
	handles [4]*canvas.Rectangle
}

func newMarquee() *marquee {
	m := &marquee{band: canvas.NewRectangle(color.Transparent)}
	m.band.StrokeColor = theme.Color(theme.ColorNamePrimary)
	m.band.StrokeWidth = 1
	r, g, b, _ := theme.Color(theme.ColorNameFocus).RGBA()
	m.band.FillColor = color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 64}
	m.band.Hide()

	for i := range m.handles {
		h := canvas.NewRectangle(theme.Color(theme.ColorNameBackground))
		h.StrokeColor = theme.Color(theme.ColorNamePrimary)
		h.StrokeWidth = 1
		h.Hide()
		m.handles[i] = h
	}
	return m
}

func (m *marquee) objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{m.band}
	for _, h := range m.handles {
		objs = append(objs, h)
	}
	return objs
}

func (m *marquee) setBand(r iconcontainer.Rect, ok bool) {
	if !ok || r.IsEmpty() {
		if m.band.Visible() {
			m.band.Hide()
		}
		return
	}
	m.band.Move(r.Min())
	m.band.Resize(r.Size())
	m.band.Show()
	m.band.Refresh()
}

// setHandles puts the four handles inside the corners of the image rect r.
func (m *marquee) setHandles(r iconcontainer.Rect, size float32, ok bool) {
	if !ok {
		for _, h := range m.handles {
			h.Hide()
		}
		return
	}
	corners := [4]fyne.Position{
		iconcontainer.CornerTopLeft:     fyne.NewPos(r.X0, r.Y0),
		iconcontainer.CornerTopRight:    fyne.NewPos(r.X1-size, r.Y0),
		iconcontainer.CornerBottomLeft:  fyne.NewPos(r.X0, r.Y1-size),
		iconcontainer.CornerBottomRight: fyne.NewPos(r.X1-size, r.Y1-size),
	}
	for i, h := range m.handles {
		h.Move(corners[i])
		h.Resize(fyne.NewSquareSize(size))
		h.Show()
		h.Refresh()
	}
}
