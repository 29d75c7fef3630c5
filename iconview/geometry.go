package iconview

import (
	"math"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/alexballas/xiconview/iconcontainer"
)

const (
	labelGap        = 2
	labelLines      = 2
	wholeLabelLines = 5
)

// geometry measures icons as the item widgets draw them: a square image
// whose edge follows the container's icon size and scale, with a wrapped
// label centered below it or beside it.
type geometry struct {
	v *View

	measure func(text string) fyne.Size
}

func newGeometry(v *View) *geometry {
	return &geometry{v: v, measure: measureLabelText}
}

func measureLabelText(text string) fyne.Size {
	return fyne.MeasureText(text, theme.TextSize(), fyne.TextStyle{})
}

func (g *geometry) metrics() iconcontainer.Metrics {
	return g.v.icons.Metrics()
}

func (g *geometry) imageSize(icon *iconcontainer.Icon) float32 {
	m := g.metrics()
	return fyne.Max(m.IconSize*icon.Scale(), m.SmallestIconSize)
}

func (g *geometry) IconRect(icon *iconcontainer.Icon) iconcontainer.Rect {
	s := g.imageSize(icon)
	return iconcontainer.NewRect(icon.Position(), fyne.NewSquareSize(s))
}

// labelWidth is the widest a label may grow, padding included.
func (g *geometry) labelWidth() float32 {
	m := g.metrics()
	if g.v.icons.LabelPosition() == iconcontainer.LabelBeside {
		return m.GridWidth
	}
	return m.GridWidth - m.IconPadLeft - m.IconPadRight
}

// labelSize wraps text into at most maxLines lines of the label width.
func (g *geometry) labelSize(text string, maxLines int) fyne.Size {
	pad := theme.InnerPadding()
	full := g.measure(text)
	avail := g.labelWidth() - 2*pad

	w := full.Width
	lines := 1
	if avail > 0 && w > avail {
		lines = int(math.Ceil(float64(w / avail)))
		w = avail
	}
	if lines > maxLines {
		lines = maxLines
	}
	return fyne.NewSize(w+2*pad, float32(lines)*full.Height+2*pad)
}

func (g *geometry) TextRect(icon *iconcontainer.Icon, wholeText bool) iconcontainer.Rect {
	text := g.v.labelText(icon)
	if text == "" {
		return iconcontainer.Rect{}
	}
	lines := labelLines
	if wholeText || icon.ShowsWholeText() {
		lines = wholeLabelLines
	}
	size := g.labelSize(text, lines)
	ir := g.IconRect(icon)

	if g.v.icons.LabelPosition() == iconcontainer.LabelBeside {
		pos := fyne.NewPos(ir.X1+labelGap, ir.Y0+(ir.Height()-size.Height)/2)
		return iconcontainer.NewRect(pos, size)
	}
	pos := fyne.NewPos(ir.X0+(ir.Width()-size.Width)/2, ir.Y1+labelGap)
	return iconcontainer.NewRect(pos, size)
}

func (g *geometry) Bounds(icon *iconcontainer.Icon, usage iconcontainer.BoundsUsage) iconcontainer.Rect {
	r := g.IconRect(icon)
	if tr := g.TextRect(icon, usage == iconcontainer.BoundsEntireItem); !tr.IsEmpty() {
		r = r.Union(tr)
	}
	return r
}

var _ iconcontainer.GeometryProvider = (*geometry)(nil)

// ellipsizeName shortens name to fit limit by cutting the middle of the
// base name and keeping the extension.
func ellipsizeName(name string, limit float32, measure func(string) float32) string {
	if measure(name) <= limit {
		return name
	}
	ext := filepath.Ext(name)
	const dots = ".."
	head := limit - measure(dots) - measure(ext)
	if head <= 0 {
		return dots + ext
	}

	base := []rune(name[:len(name)-len(ext)])
	low, high, best := 0, len(base), 0
	for low <= high {
		mid := (low + high) / 2
		if measure(string(base[:mid])) <= head {
			best = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return string(base[:best]) + dots + ext
}
