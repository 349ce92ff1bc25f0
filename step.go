package gift

import (
	"image"
	"image/color"
	"time"

	"github.com/illusionman1212/gift/block"
)

// Step is one animation frame as it should be displayed: the full screen
// raster, the palette in force and the graphic control state. A Step is a
// value; the With methods return modified copies and leave the receiver
// alone. Rasters are shared between copies, use Clone before drawing on
// one.
type Step struct {
	raster  image.Image
	palette color.Palette
	control block.GraphicControlExtension
}

// NewStep wraps an indexed raster for encoding. The raster's palette is
// used as the step's palette.
func NewStep(img *image.Paletted) Step {
	return Step{
		raster:  img,
		palette: img.Palette,
	}
}

func (s Step) Image() image.Image {
	return s.raster
}

// Paletted returns the raster when the step is indexed.
func (s Step) Paletted() (*image.Paletted, bool) {
	p, ok := s.raster.(*image.Paletted)
	return p, ok
}

func (s Step) Palette() color.Palette {
	return s.palette
}

// Control returns the graphic control state. The zero value means the step
// needs no graphic control extension.
func (s Step) Control() block.GraphicControlExtension {
	return s.control
}

func (s Step) Disposal() block.DisposalMethod {
	return s.control.Disposal()
}

// DelayCentiseconds is the delay as stored in the file.
func (s Step) DelayCentiseconds() uint16 {
	return s.control.Delay
}

func (s Step) Delay() time.Duration {
	return time.Duration(s.control.Delay) * 10 * time.Millisecond
}

func (s Step) TransparentIndex() (byte, bool) {
	return s.control.Transparent()
}

func (s Step) UserInput() bool {
	return s.control.UserInput()
}

func (s Step) WithDisposal(d block.DisposalMethod) Step {
	s.control.SetDisposal(d)
	return s
}

func (s Step) WithDelayCentiseconds(cs uint16) Step {
	s.control.Delay = cs
	return s
}

// WithDelay rounds d down to hundredths of a second.
func (s Step) WithDelay(d time.Duration) Step {
	cs := d / (10 * time.Millisecond)
	if cs > 0xffff {
		cs = 0xffff
	}
	return s.WithDelayCentiseconds(uint16(cs))
}

func (s Step) WithTransparent(index byte) Step {
	s.control.SetTransparent(index)
	return s
}

func (s Step) WithoutTransparent() Step {
	s.control.ClearTransparent()
	return s
}

func (s Step) WithUserInput(on bool) Step {
	s.control.SetUserInput(on)
	return s
}

func (s Step) WithControl(g block.GraphicControlExtension) Step {
	s.control = g
	return s
}

// Clone returns a step that shares no memory with s.
func (s Step) Clone() Step {
	s.palette = append(color.Palette(nil), s.palette...)
	switch img := s.raster.(type) {
	case *image.Paletted:
		c := *img
		c.Pix = append([]uint8(nil), img.Pix...)
		c.Palette = s.palette
		s.raster = &c
	case *image.RGBA:
		c := *img
		c.Pix = append([]uint8(nil), img.Pix...)
		s.raster = &c
	}
	return s
}
