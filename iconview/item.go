package iconview

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/FyshOS/fancyfs"

	"github.com/alexballas/xiconview/iconcontainer"
)

// iconItem draws one icon of the view: its image, label and selection
// highlight. It covers the display bounds of the icon.
type iconItem struct {
	widget.BaseWidget
	view *View
	icon *iconcontainer.Icon

	fileIcon   *widget.FileIcon
	customIcon *widget.Icon
	thumbnail  *canvas.Image
	label      *widget.Label
	bg         *canvas.Rectangle

	wholeText      bool
	thumbRequested bool
}

func newIconItem(v *View, icon *iconcontainer.Icon) *iconItem {
	i := &iconItem{
		view:       v,
		icon:       icon,
		fileIcon:   widget.NewFileIcon(icon.URI),
		customIcon: widget.NewIcon(nil),
		thumbnail:  canvas.NewImageFromImage(nil),
		label:      widget.NewLabel(""),
		bg:         canvas.NewRectangle(theme.Color(theme.ColorNameSelection)),
	}
	i.thumbnail.FillMode = canvas.ImageFillContain
	i.thumbnail.Hide()
	i.customIcon.Hide()
	i.bg.CornerRadius = theme.SelectionRadiusSize()
	i.bg.Hide()
	i.label.Alignment = fyne.TextAlignCenter
	i.label.Wrapping = fyne.TextWrapWord
	i.label.Truncation = fyne.TextTruncateClip
	i.ExtendBaseWidget(i)

	i.updateLabel()
	i.loadFolderDetails()
	return i
}

func (i *iconItem) CreateRenderer() fyne.WidgetRenderer {
	return &iconItemRenderer{item: i}
}

func (i *iconItem) updateLabel() {
	i.wholeText = i.icon.ShowsWholeText()
	if i.view.icons.LabelPosition() == iconcontainer.LabelBeside {
		i.label.Alignment = fyne.TextAlignLeading
	} else {
		i.label.Alignment = fyne.TextAlignCenter
	}

	name := i.view.labelText(i.icon)
	if !i.wholeText {
		limit := (i.view.geometry.labelWidth() - 2*theme.InnerPadding()) * (labelLines - 0.4)
		name = ellipsizeName(name, limit, func(s string) float32 {
			return i.view.geometry.measure(s).Width
		})
	}
	i.label.SetText(name)
}

func (i *iconItem) setSelected(selected bool) {
	if selected == i.bg.Visible() {
		return
	}
	if selected {
		i.bg.Show()
	} else {
		i.bg.Hide()
	}
	i.bg.Refresh()
}

// loadFolderDetails shows a folder's custom icon or background image when
// it has one.
func (i *iconItem) loadFolderDetails() {
	u := i.icon.URI
	if isDir, _ := storage.CanList(u); !isDir {
		return
	}
	details, err := fancyfs.DetailsForFolder(u)
	if err != nil || details == nil {
		return
	}
	if details.BackgroundURI != nil {
		i.thumbnail.File = details.BackgroundURI.Path()
		i.thumbnail.FillMode = details.BackgroundFill
		i.showThumbnail()
		i.thumbRequested = true
		return
	}
	if details.BackgroundResource != nil {
		i.customIcon.SetResource(details.BackgroundResource)
		i.fileIcon.Hide()
		i.customIcon.Show()
	}
}

// requestThumbnail asks for a thumbnail once the icon has been on screen.
func (i *iconItem) requestThumbnail(thumbs *ThumbnailManager) {
	if i.thumbRequested || thumbs == nil || !i.icon.Visible() {
		return
	}
	i.thumbRequested = true
	if img := thumbs.Cached(i.icon.URI); img != nil {
		i.setThumbnail(img)
		return
	}
	u := i.icon.URI
	i.icon.Monitored = thumbs.Load(u, func(img image.Image) {
		fyne.Do(func() { i.thumbnailLoaded(img) })
	})
}

// thumbnailLoaded shows img unless the item left the view while it loaded.
func (i *iconItem) thumbnailLoaded(img image.Image) {
	if i.view.items[i.icon] != i {
		return
	}
	i.setThumbnail(img)
}

func (i *iconItem) setThumbnail(img image.Image) {
	i.thumbnail.Image = img
	i.showThumbnail()
}

func (i *iconItem) showThumbnail() {
	i.fileIcon.Hide()
	i.customIcon.Hide()
	i.thumbnail.Show()
	i.thumbnail.Refresh()
}

var (
	_ desktop.Mouseable = (*iconItem)(nil)
	_ fyne.Draggable    = (*iconItem)(nil)
)

func (i *iconItem) MouseDown(e *desktop.MouseEvent) {
	i.view.itemPressed(i, e)
}

func (i *iconItem) MouseUp(e *desktop.MouseEvent) {
	i.view.itemReleased(i, e)
}

func (i *iconItem) Dragged(e *fyne.DragEvent) {
	i.view.itemDragged(i, e)
}

func (i *iconItem) DragEnd() {
	i.view.itemDragEnded(i)
}

type iconItemRenderer struct {
	item *iconItem
}

func (r *iconItemRenderer) Layout(size fyne.Size) {
	i := r.item
	g := i.view.geometry
	origin := i.Position()
	i.bg.Resize(size)

	ir := g.IconRect(i.icon)
	imgPos := ir.Min().Subtract(origin)
	for _, o := range []fyne.CanvasObject{i.fileIcon, i.customIcon, i.thumbnail} {
		o.Move(imgPos)
		o.Resize(ir.Size())
	}

	tr := g.TextRect(i.icon, false)
	if tr.IsEmpty() {
		i.label.Hide()
		return
	}
	i.label.Show()
	i.label.Move(tr.Min().Subtract(origin))
	i.label.Resize(tr.Size())
}

func (r *iconItemRenderer) MinSize() fyne.Size {
	return r.item.view.geometry.Bounds(r.item.icon, iconcontainer.BoundsDisplay).Size()
}

func (r *iconItemRenderer) Refresh() {
	i := r.item
	if i.wholeText != i.icon.ShowsWholeText() {
		i.updateLabel()
	}
	r.Layout(i.Size())
	i.bg.FillColor = theme.Color(theme.ColorNameSelection)
	i.bg.Refresh()
	i.fileIcon.Refresh()
	i.customIcon.Refresh()
	i.thumbnail.Refresh()
	i.label.Refresh()
}

func (r *iconItemRenderer) Objects() []fyne.CanvasObject {
	i := r.item
	return []fyne.CanvasObject{i.bg, i.fileIcon, i.customIcon, i.thumbnail, i.label}
}

func (r *iconItemRenderer) Destroy() {}
