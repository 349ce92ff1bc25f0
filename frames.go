package gift

import (
	"io"

	"github.com/illusionman1212/gift/block"
	"github.com/illusionman1212/gift/logging"
	"github.com/illusionman1212/gift/oops"
)

// Preamble is the document metadata that precedes the first image.
type Preamble struct {
	Header           *block.Header
	Screen           *block.LogicalScreenDescriptor
	GlobalColorTable *block.GlobalColorTable
	LoopExtension    *block.ApplicationExtension
	Comments         []*block.CommentExtension
	// Other extensions seen before the first image, in stream order.
	Extensions []block.Block
	// A graphic control extension that was not followed by an image.
	GraphicControl *block.GraphicControlExtension
}

func (p *Preamble) Width() int {
	if p.Screen == nil {
		return 0
	}
	return int(p.Screen.Width)
}

func (p *Preamble) Height() int {
	if p.Screen == nil {
		return 0
	}
	return int(p.Screen.Height)
}

// LoopCount reports the number of extra passes requested by the animation,
// 0 meaning forever. It reports false when the document does not loop.
func (p *Preamble) LoopCount() (uint16, bool) {
	if p.LoopExtension == nil {
		return 0, false
	}
	return p.LoopExtension.LoopCount()
}

func (p *Preamble) GlobalPalette() block.Palette {
	if p.GlobalColorTable == nil {
		return nil
	}
	return p.GlobalColorTable.Palette
}

// Frame is one image exactly as stored: no compositing has been applied.
type Frame struct {
	GraphicControl  *block.GraphicControlExtension
	Descriptor      *block.ImageDescriptor
	LocalColorTable *block.LocalColorTable
	ImageData       *block.ImageData
}

// Palette returns the local color table if there is one, else global.
func (f *Frame) Palette(global block.Palette) block.Palette {
	if f.LocalColorTable != nil {
		return f.LocalColorTable.Palette
	}
	return global
}

type frameState int

const (
	statePreamble frameState = iota
	stateAwaitingImage
	stateInImage
	stateDone
	stateFailed
)

// Frames groups the block stream into a Preamble and one Frame per image.
type Frames struct {
	blocks   *block.Reader
	state    frameState
	preamble Preamble
	pending  *block.GraphicControlExtension
	frame    *Frame
	err      error
}

func newFrames(blocks *block.Reader) *Frames {
	return &Frames{
		blocks: blocks,
	}
}

func failedFrames(err error) *Frames {
	return &Frames{
		blocks: block.FailedReader(err),
		state:  stateFailed,
		err:    err,
	}
}

func (f *Frames) fail(err error) error {
	f.state = stateFailed
	f.err = err
	return err
}

// Preamble reads up to the first image (or the end of a document without
// images) and returns the document metadata.
func (f *Frames) Preamble() (*Preamble, error) {
	for f.state == statePreamble {
		if _, err := f.step(); err != nil && err != io.EOF {
			return nil, err
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &f.preamble, nil
}

// Next returns the next image. It returns io.EOF after the Trailer.
func (f *Frames) Next() (*Frame, error) {
	for {
		frame, err := f.step()
		if err != nil || frame != nil {
			return frame, err
		}
	}
}

// step consumes one block and returns a frame when that block completed
// one.
func (f *Frames) step() (*Frame, error) {
	switch f.state {
	case stateFailed:
		return nil, f.err
	case stateDone:
		return nil, io.EOF
	}

	b, err := f.blocks.Next()
	if err == io.EOF {
		return nil, f.fail(oops.New(oops.ErrUnexpectedEndOfStream, "block stream ended without a trailer"))
	}
	if err != nil {
		return nil, f.fail(err)
	}

	if f.state == stateInImage {
		switch b := b.(type) {
		case *block.LocalColorTable:
			f.frame.LocalColorTable = b
			return nil, nil
		case *block.ImageData:
			frame := f.frame
			frame.ImageData = b
			f.frame = nil
			f.state = stateAwaitingImage
			return frame, nil
		}
		return nil, f.fail(oops.New(oops.ErrInvalidBlockSequence, "%T inside an image", b))
	}

	if gce, ok := b.(*block.GraphicControlExtension); ok {
		if f.pending != nil {
			return nil, f.fail(oops.New(oops.ErrInvalidBlockSequence, "two graphic control extensions in a row"))
		}
		f.pending = gce
		return nil, nil
	}
	if d, ok := b.(*block.ImageDescriptor); ok {
		f.frame = &Frame{GraphicControl: f.pending, Descriptor: d}
		f.pending = nil
		f.state = stateInImage
		return nil, nil
	}

	if f.pending != nil {
		if f.state == statePreamble {
			f.preamble.GraphicControl = f.pending
		} else {
			logging.Debug().Msgf("dropping graphic control extension followed by %T", b)
		}
		f.pending = nil
	}

	switch b := b.(type) {
	case *block.Trailer:
		f.state = stateDone
		return nil, io.EOF
	case *block.Header, *block.LogicalScreenDescriptor, *block.GlobalColorTable:
		if f.state != statePreamble {
			return nil, f.fail(oops.New(oops.ErrInvalidBlockSequence, "%T after the first image", b))
		}
		f.addToPreamble(b)
	default:
		if f.state == statePreamble {
			f.addToPreamble(b)
		}
	}
	return nil, nil
}

func (f *Frames) addToPreamble(b block.Block) {
	p := &f.preamble
	switch b := b.(type) {
	case *block.Header:
		p.Header = b
	case *block.LogicalScreenDescriptor:
		p.Screen = b
	case *block.GlobalColorTable:
		p.GlobalColorTable = b
	case *block.CommentExtension:
		p.Comments = append(p.Comments, b)
	case *block.ApplicationExtension:
		if _, ok := b.LoopCount(); ok && p.LoopExtension == nil {
			p.LoopExtension = b
			return
		}
		p.Extensions = append(p.Extensions, b)
	default:
		p.Extensions = append(p.Extensions, b)
	}
}
