package gift

import (
	"image"
	"image/color"

	"github.com/illusionman1212/gift/block"
	"github.com/illusionman1212/gift/oops"
	"golang.org/x/image/draw"
)

// canvas is the screen that frames are drawn onto. Blank pixels are the
// ones no frame has covered, or that a disposal cleared.
type canvas interface {
	clear(r image.Rectangle)
	snapshot() interface{}
	restore(s interface{})
	// draw paints the frame, leaving pixels equal to transparent (when
	// non-negative) untouched.
	draw(frame *image.Paletted, transparent int) error
	render(palette color.Palette, control block.GraphicControlExtension) image.Image
}

type rgbaCanvas struct {
	img *image.RGBA
}

func newRGBACanvas(screen image.Rectangle) *rgbaCanvas {
	return &rgbaCanvas{img: image.NewRGBA(screen)}
}

func (c *rgbaCanvas) clear(r image.Rectangle) {
	draw.Draw(c.img, r, image.Transparent, image.Point{}, draw.Src)
}

func (c *rgbaCanvas) snapshot() interface{} {
	return append([]uint8(nil), c.img.Pix...)
}

func (c *rgbaCanvas) restore(s interface{}) {
	copy(c.img.Pix, s.([]uint8))
}

func (c *rgbaCanvas) draw(frame *image.Paletted, transparent int) error {
	src := *frame
	if transparent >= 0 {
		n := len(frame.Palette)
		if transparent >= n {
			n = transparent + 1
		}
		src.Palette = make(color.Palette, n)
		copy(src.Palette, frame.Palette)
		for i := len(frame.Palette); i < n; i++ {
			src.Palette[i] = color.RGBA{}
		}
		src.Palette[transparent] = color.RGBA{}
	}
	draw.Draw(c.img, src.Rect, &src, src.Rect.Min, draw.Over)
	return nil
}

func (c *rgbaCanvas) render(color.Palette, block.GraphicControlExtension) image.Image {
	img := *c.img
	img.Pix = append([]uint8(nil), c.img.Pix...)
	return &img
}

// indexedCanvas stores palette indices, -1 for blank. Every stored index
// refers to palette, the table of the last frame drawn.
type indexedCanvas struct {
	rect       image.Rectangle
	pix        []int16
	palette    color.Palette
	background byte
}

type indexedSnapshot struct {
	pix     []int16
	palette color.Palette
}

func newIndexedCanvas(screen image.Rectangle, background byte) *indexedCanvas {
	c := &indexedCanvas{
		rect:       screen,
		pix:        make([]int16, screen.Dx()*screen.Dy()),
		background: background,
	}
	c.clear(screen)
	return c
}

func (c *indexedCanvas) offset(x, y int) int {
	return (y-c.rect.Min.Y)*c.rect.Dx() + (x - c.rect.Min.X)
}

func (c *indexedCanvas) clear(r image.Rectangle) {
	r = r.Intersect(c.rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := c.pix[c.offset(r.Min.X, y):c.offset(r.Max.X, y)]
		for i := range row {
			row[i] = -1
		}
	}
}

func (c *indexedCanvas) snapshot() interface{} {
	return indexedSnapshot{
		pix:     append([]int16(nil), c.pix...),
		palette: c.palette,
	}
}

func (c *indexedCanvas) restore(s interface{}) {
	saved := s.(indexedSnapshot)
	copy(c.pix, saved.pix)
	c.palette = saved.palette
}

type rgbaKey [4]uint32

func keyOf(c color.Color) rgbaKey {
	r, g, b, a := c.RGBA()
	return rgbaKey{r, g, b, a}
}

func samePalette(a, b color.Palette) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if keyOf(a[i]) != keyOf(b[i]) {
			return false
		}
	}
	return true
}

// translate rewrites the pixels that stay visible under frame so they index
// the frame's palette. A color the new palette lacks is an error.
func (c *indexedCanvas) translate(frame *image.Paletted, transparent int) error {
	lookup := make(map[rgbaKey]int16, len(frame.Palette))
	for i := len(frame.Palette) - 1; i >= 0; i-- {
		lookup[keyOf(frame.Palette[i])] = int16(i)
	}
	moved := make(map[int16]int16)

	for y := c.rect.Min.Y; y < c.rect.Max.Y; y++ {
		for x := c.rect.Min.X; x < c.rect.Max.X; x++ {
			i := c.offset(x, y)
			old := c.pix[i]
			if old < 0 {
				continue
			}
			p := image.Pt(x, y)
			if p.In(frame.Rect) && int(frame.Pix[frame.PixOffset(x, y)]) != transparent {
				continue
			}
			idx, ok := moved[old]
			if !ok {
				if int(old) >= len(c.palette) {
					return oops.New(oops.ErrInvalidColorIndex, "canvas index %d with %d colors", old, len(c.palette))
				}
				want := c.palette[old]
				if idx, ok = lookup[keyOf(want)]; !ok {
					return oops.New(oops.ErrInvalidColorIndex, "color %v at %v is missing from the new palette", want, p)
				}
				moved[old] = idx
			}
			c.pix[i] = idx
		}
	}
	return nil
}

func (c *indexedCanvas) draw(frame *image.Paletted, transparent int) error {
	if c.palette != nil && !samePalette(c.palette, frame.Palette) {
		if err := c.translate(frame, transparent); err != nil {
			return err
		}
	}
	c.palette = frame.Palette

	r := frame.Rect
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := frame.Pix[frame.PixOffset(r.Min.X, y):frame.PixOffset(r.Max.X, y)]
		dst := c.pix[c.offset(r.Min.X, y):c.offset(r.Max.X, y)]
		for i, idx := range src {
			if int(idx) == transparent {
				continue
			}
			dst[i] = int16(idx)
		}
	}
	return nil
}

// render resolves blank pixels to the transparent index of the step when
// it has one, otherwise to the screen background.
func (c *indexedCanvas) render(palette color.Palette, control block.GraphicControlExtension) image.Image {
	blank := c.background
	if t, ok := control.Transparent(); ok {
		blank = t
	}
	if int(blank) >= len(palette) {
		blank = 0
	}
	img := image.NewPaletted(c.rect, palette)
	for i, idx := range c.pix {
		if idx < 0 {
			img.Pix[i] = blank
		} else {
			img.Pix[i] = uint8(idx)
		}
	}
	return img
}

// compositor applies disposal and transparency rules while drawing frames
// onto its canvas.
type compositor struct {
	screen  image.Rectangle
	canvas  canvas
	dispose block.DisposalMethod
	area    image.Rectangle
	saved   interface{}
}

func newCompositor(p *Preamble, format PixelFormat) *compositor {
	screen := image.Rect(0, 0, p.Width(), p.Height())
	c := &compositor{screen: screen}
	if format == FormatIndexed {
		c.canvas = newIndexedCanvas(screen, p.Screen.BackgroundIndex)
	} else {
		c.canvas = newRGBACanvas(screen)
	}
	return c
}

func (c *compositor) compose(f *Frame, global block.Palette, defaultDisposal block.DisposalMethod) (Step, error) {
	d := f.Descriptor
	if d.Interlaced() {
		return Step{}, oops.New(oops.ErrInterlaced, "image at %v", d.Bounds())
	}
	rect := d.Bounds()
	if !rect.In(c.screen) {
		return Step{}, oops.New(oops.ErrInvalidFrameDimensions, "image %v on screen %v", rect, c.screen)
	}
	palette := f.Palette(global)
	if len(palette) == 0 {
		return Step{}, oops.New(oops.ErrMissingColorTable, "image at %v", rect)
	}

	var control block.GraphicControlExtension
	if f.GraphicControl != nil {
		control = *f.GraphicControl
	} else {
		control.SetDisposal(defaultDisposal)
	}
	transparent := -1
	if t, ok := control.Transparent(); ok {
		transparent = int(t)
	}
	for _, idx := range f.ImageData.Indices {
		if int(idx) >= len(palette) && int(idx) != transparent {
			return Step{}, oops.New(oops.ErrInvalidColorIndex, "index %d with %d colors", idx, len(palette))
		}
	}

	switch c.dispose {
	case block.RestoreBackground:
		c.canvas.clear(c.area)
	case block.RestorePrevious:
		if c.saved != nil {
			c.canvas.restore(c.saved)
		}
	}
	c.saved = nil
	if control.Disposal() == block.RestorePrevious {
		c.saved = c.canvas.snapshot()
	}

	colors := palette.Colors()
	frame := &image.Paletted{
		Pix:     f.ImageData.Indices,
		Stride:  rect.Dx(),
		Rect:    rect,
		Palette: colors,
	}
	if err := c.canvas.draw(frame, transparent); err != nil {
		return Step{}, err
	}
	c.dispose = control.Disposal()
	c.area = rect

	return Step{
		raster:  c.canvas.render(colors, control),
		palette: colors,
		control: control,
	}, nil
}
