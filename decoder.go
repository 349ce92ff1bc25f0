// Package gift decodes and encodes GIF images and animations.
//
// A Decoder offers three views of one document. Blocks yields the raw
// blocks of the file, Frames groups them into a Preamble and one Frame per
// image, and Steps composites each image onto the logical screen. A
// Decoder hands its source to exactly one view; the higher views own the
// lower ones privately. An Encoder offers the same three levels for
// writing.
package gift

import (
	"io"

	"github.com/illusionman1212/gift/block"
	"github.com/illusionman1212/gift/oops"
)

type Decoder struct {
	r     io.Reader
	cfg   Config
	taken bool
}

func NewDecoder(r io.Reader, cfg Config) *Decoder {
	return &Decoder{
		r:   r,
		cfg: cfg,
	}
}

func (d *Decoder) take(view string) error {
	if d.taken {
		return oops.New(oops.ErrDecoderConsumed, "cannot open %s view", view)
	}
	d.taken = true
	return nil
}

// Blocks returns the raw block view.
func (d *Decoder) Blocks() *block.Reader {
	if err := d.take("block"); err != nil {
		return block.FailedReader(err)
	}
	return block.NewReader(d.r, d.cfg.MaxPixels)
}

// Frames returns the per-image view.
func (d *Decoder) Frames() *Frames {
	if err := d.take("frame"); err != nil {
		return failedFrames(err)
	}
	return newFrames(block.NewReader(d.r, d.cfg.MaxPixels))
}

// Steps returns the composited view. With ReplaySeek the source must be an
// io.Seeker; replays start over from the position the source had when
// Steps was called.
func (d *Decoder) Steps() *Steps {
	if err := d.take("step"); err != nil {
		return failedSteps(err)
	}
	frames := newFrames(block.NewReader(d.r, d.cfg.MaxPixels))
	if d.cfg.Replay != ReplaySeek {
		return newSteps(frames, d.cfg, nil)
	}

	rs, ok := d.r.(io.ReadSeeker)
	if !ok {
		return failedSteps(oops.New(oops.ErrNotSeekable, "source %T", d.r))
	}
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return failedSteps(oops.IO(err, "finding start of source"))
	}
	reopen := func() (*Frames, error) {
		if _, err := rs.Seek(start, io.SeekStart); err != nil {
			return nil, oops.IO(err, "rewinding source")
		}
		return newFrames(block.NewReader(rs, d.cfg.MaxPixels)), nil
	}
	return newSteps(frames, d.cfg, reopen)
}

// Decode returns the first step of a document, or io.EOF when it has no
// images.
func Decode(r io.Reader) (Step, error) {
	return NewDecoder(r, DefaultConfig()).Steps().Next()
}

// DecodeAll reads a whole document in a single pass.
func DecodeAll(r io.Reader) (*Preamble, []Step, error) {
	steps := NewDecoder(r, DefaultConfig()).Steps()
	preamble, err := steps.Preamble()
	if err != nil {
		return nil, nil, err
	}
	var all []Step
	for {
		step, err := steps.Next()
		if err == io.EOF {
			return preamble, all, nil
		}
		if err != nil {
			return nil, nil, err
		}
		all = append(all, step)
	}
}
