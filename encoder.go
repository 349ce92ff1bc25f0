package gift

import (
	"image"
	"io"

	"github.com/illusionman1212/gift/block"
	"github.com/illusionman1212/gift/oops"
)

// Encoder mirrors Decoder: it hands its sink to exactly one of the block,
// frame or step writers.
type Encoder struct {
	w     io.Writer
	taken bool
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) take(view string) error {
	if e.taken {
		return oops.New(oops.ErrDecoderConsumed, "cannot open %s writer", view)
	}
	e.taken = true
	return nil
}

func (e *Encoder) Blocks() *block.Writer {
	if err := e.take("block"); err != nil {
		return block.FailedWriter(err)
	}
	return block.NewWriter(e.w)
}

func (e *Encoder) Frames() *FrameEncoder {
	if err := e.take("frame"); err != nil {
		return &FrameEncoder{w: block.FailedWriter(err), err: err}
	}
	return &FrameEncoder{w: block.NewWriter(e.w)}
}

func (e *Encoder) Steps() *StepEncoder {
	return &StepEncoder{frames: e.Frames()}
}

// FrameEncoder writes a Preamble followed by raw frames.
type FrameEncoder struct {
	w             *block.Writer
	wrotePreamble bool
	closed        bool
	err           error
}

func (e *FrameEncoder) write(blocks ...block.Block) error {
	if e.err != nil {
		return e.err
	}
	for _, b := range blocks {
		if err := e.w.Write(b); err != nil {
			e.err = err
			return err
		}
	}
	return nil
}

func (e *FrameEncoder) fail(err error) error {
	if e.err == nil {
		e.err = err
	}
	return e.err
}

// WritePreamble writes the document metadata. It must be called once,
// before the first frame. Color table flags of the screen descriptor are
// adjusted to match GlobalColorTable.
func (e *FrameEncoder) WritePreamble(p *Preamble) error {
	if e.err != nil {
		return e.err
	}
	if e.wrotePreamble {
		return e.fail(oops.New(oops.ErrInvalidBlockSequence, "preamble written twice"))
	}
	if p.Screen == nil {
		return e.fail(oops.New(oops.ErrInvalidBlockSequence, "preamble without a logical screen descriptor"))
	}
	e.wrotePreamble = true

	header := p.Header
	if header == nil {
		header = block.NewHeader()
	}
	screen := *p.Screen
	blocks := []block.Block{header, &screen}
	if p.GlobalColorTable != nil {
		if n := len(p.GlobalColorTable.Palette); screen.GlobalColorTableLen() != block.TableLen(block.TableSizeBits(n)) {
			screen.SetGlobalColorTable(n)
		}
		blocks = append(blocks, p.GlobalColorTable)
	} else {
		screen.SetGlobalColorTable(0)
	}
	if p.LoopExtension != nil {
		blocks = append(blocks, p.LoopExtension)
	}
	// a lone graphic control block only stays in the preamble when
	// something other than an image follows it
	if p.GraphicControl != nil && len(p.Comments)+len(p.Extensions) > 0 {
		blocks = append(blocks, p.GraphicControl)
	}
	for _, c := range p.Comments {
		blocks = append(blocks, c)
	}
	blocks = append(blocks, p.Extensions...)
	return e.write(blocks...)
}

// WriteFrame writes one image. Local color table flags of the descriptor
// are adjusted to match LocalColorTable.
func (e *FrameEncoder) WriteFrame(f *Frame) error {
	if e.err != nil {
		return e.err
	}
	if !e.wrotePreamble || e.closed {
		return e.fail(oops.New(oops.ErrInvalidBlockSequence, "frame outside of a document"))
	}
	if f.Descriptor == nil || f.ImageData == nil {
		return e.fail(oops.New(oops.ErrInvalidBlockSequence, "frame without descriptor or image data"))
	}
	if got, want := len(f.ImageData.Indices), f.Descriptor.PixelCount(); got != want {
		return e.fail(oops.New(oops.ErrIncompleteImageData, "%d of %d pixels", got, want))
	}

	var blocks []block.Block
	if f.GraphicControl != nil {
		blocks = append(blocks, f.GraphicControl)
	}
	d := *f.Descriptor
	blocks = append(blocks, &d)
	if f.LocalColorTable != nil {
		if n := len(f.LocalColorTable.Palette); d.LocalColorTableLen() != block.TableLen(block.TableSizeBits(n)) {
			d.SetLocalColorTable(n)
		}
		blocks = append(blocks, f.LocalColorTable)
	} else {
		d.SetLocalColorTable(0)
	}
	blocks = append(blocks, f.ImageData)
	return e.write(blocks...)
}

// Close writes the Trailer and flushes. It does not close the sink.
func (e *FrameEncoder) Close() error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return nil
	}
	if !e.wrotePreamble {
		return e.fail(oops.New(oops.ErrInvalidBlockSequence, "closing a document without a preamble"))
	}
	e.closed = true
	if err := e.write(&block.Trailer{}); err != nil {
		return err
	}
	if err := e.w.Flush(); err != nil {
		return e.fail(err)
	}
	return nil
}

// StepEncoder writes indexed steps. Without SetPreamble the preamble is
// derived from the first step: a GIF89a header, a screen covering the
// step's bounds and the step's palette as the global color table.
type StepEncoder struct {
	frames   *FrameEncoder
	preamble *Preamble
	loop     *uint16
	global   block.Palette
	screen   image.Rectangle
	started  bool
}

func (e *StepEncoder) SetPreamble(p *Preamble) error {
	if e.started {
		return oops.New(oops.ErrInvalidBlockSequence, "preamble set after the first step")
	}
	e.preamble = p
	return nil
}

// SetLoopCount asks for count extra passes over the animation, 0 meaning
// forever.
func (e *StepEncoder) SetLoopCount(count uint16) error {
	if e.started {
		return oops.New(oops.ErrInvalidBlockSequence, "loop count set after the first step")
	}
	e.loop = &count
	return nil
}

func (e *StepEncoder) start(p *Preamble) error {
	e.started = true
	if e.loop != nil {
		withLoop := *p
		withLoop.LoopExtension = block.NewLoopExtension(*e.loop)
		p = &withLoop
	}
	e.global = p.GlobalPalette()
	e.screen = image.Rect(0, 0, p.Width(), p.Height())
	return e.frames.WritePreamble(p)
}

func derivePreamble(bounds image.Rectangle, palette block.Palette) *Preamble {
	screen := &block.LogicalScreenDescriptor{
		Width:  uint16(bounds.Max.X),
		Height: uint16(bounds.Max.Y),
	}
	screen.SetGlobalColorTable(len(palette))
	return &Preamble{
		Header:           block.NewHeader(),
		Screen:           screen,
		GlobalColorTable: &block.GlobalColorTable{Palette: palette},
	}
}

func (e *StepEncoder) Encode(s Step) error {
	img, ok := s.Paletted()
	if !ok {
		return e.frames.fail(oops.New(oops.ErrNotIndexed, "%T", s.Image()))
	}
	palette := block.PaletteFromColors(s.Palette())
	if len(palette) == 0 {
		return e.frames.fail(oops.New(oops.ErrMissingColorTable, "step without a palette"))
	}
	if len(palette) > block.MaxPaletteLen {
		return e.frames.fail(oops.New(oops.ErrInvalidColorTableSize, "%d colors", len(palette)))
	}
	bounds := img.Bounds()
	if bounds.Min.X < 0 || bounds.Min.Y < 0 || bounds.Max.X > 0xffff || bounds.Max.Y > 0xffff {
		return e.frames.fail(oops.New(oops.ErrInvalidFrameDimensions, "bounds %v", bounds))
	}

	if !e.started {
		p := e.preamble
		if p == nil {
			p = derivePreamble(bounds, palette)
		}
		if err := e.start(p); err != nil {
			return err
		}
	}
	if !bounds.In(e.screen) {
		return e.frames.fail(oops.New(oops.ErrInvalidFrameDimensions, "step %v on screen %v", bounds, e.screen))
	}

	indices := make([]byte, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		i := img.PixOffset(bounds.Min.X, y)
		indices = append(indices, img.Pix[i:i+bounds.Dx()]...)
	}
	limit := block.TableLen(block.TableSizeBits(len(palette)))
	for _, idx := range indices {
		if int(idx) >= limit {
			return e.frames.fail(oops.New(oops.ErrInvalidColorIndex, "index %d with %d colors", idx, len(palette)))
		}
	}

	frame := &Frame{
		Descriptor: &block.ImageDescriptor{
			Left:   uint16(bounds.Min.X),
			Top:    uint16(bounds.Min.Y),
			Width:  uint16(bounds.Dx()),
			Height: uint16(bounds.Dy()),
		},
		ImageData: block.NewImageData(len(palette), indices),
	}
	if control := s.Control(); control != (block.GraphicControlExtension{}) {
		frame.GraphicControl = &control
	}
	if !palette.Equal(e.global) {
		frame.LocalColorTable = &block.LocalColorTable{Palette: palette}
	}
	return e.frames.WriteFrame(frame)
}

// Close writes the Trailer. A document needs at least one step or a
// preamble set with SetPreamble.
func (e *StepEncoder) Close() error {
	if !e.started && e.preamble != nil {
		if err := e.start(e.preamble); err != nil {
			return err
		}
	}
	return e.frames.Close()
}

// Encode writes steps as a single document.
func Encode(w io.Writer, steps ...Step) error {
	enc := NewEncoder(w).Steps()
	for _, s := range steps {
		if err := enc.Encode(s); err != nil {
			return err
		}
	}
	return enc.Close()
}
