package gift

import (
	"io"

	"github.com/illusionman1212/gift/logging"
)

// Steps composites each image onto the logical screen and yields the
// result, following the document's loop count when Config.Replay allows.
type Steps struct {
	frames   *Frames
	cfg      Config
	reopen   func() (*Frames, error)
	preamble *Preamble
	comp     *compositor

	cache     []Step
	replaying bool
	pos       int
	passes    int
	yielded   int // steps produced in the current pass

	err error
}

func newSteps(frames *Frames, cfg Config, reopen func() (*Frames, error)) *Steps {
	return &Steps{
		frames: frames,
		cfg:    cfg,
		reopen: reopen,
	}
}

func failedSteps(err error) *Steps {
	return &Steps{
		frames: failedFrames(err),
		err:    err,
	}
}

func (s *Steps) fail(err error) error {
	s.err = err
	return err
}

// Preamble returns the document metadata, reading it if no step has been
// requested yet.
func (s *Steps) Preamble() (*Preamble, error) {
	if s.preamble != nil {
		return s.preamble, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	p, err := s.frames.Preamble()
	if err != nil {
		return nil, s.fail(err)
	}
	s.preamble = p
	s.comp = newCompositor(p, s.cfg.Format)
	return p, nil
}

// Next returns the next step, or io.EOF when the animation is over. Every
// step returned is owned by the caller.
func (s *Steps) Next() (Step, error) {
	if s.err != nil {
		return Step{}, s.err
	}
	if s.replaying {
		return s.nextCached()
	}
	if _, err := s.Preamble(); err != nil {
		return Step{}, err
	}

	for {
		f, err := s.frames.Next()
		if err == io.EOF {
			if !s.another() {
				return Step{}, s.fail(io.EOF)
			}
			if s.cfg.Replay == ReplayCached {
				s.replaying = true
				return s.nextCached()
			}
			if err := s.rewind(); err != nil {
				return Step{}, s.fail(err)
			}
			continue
		}
		if err != nil {
			return Step{}, s.fail(err)
		}

		step, err := s.comp.compose(f, s.preamble.GlobalPalette(), s.cfg.DefaultDisposal)
		if err != nil {
			return Step{}, s.fail(err)
		}
		s.yielded++
		if s.cfg.Replay == ReplayCached && s.loops() {
			s.cache = append(s.cache, step.Clone())
		}
		return step, nil
	}
}

func (s *Steps) loops() bool {
	_, ok := s.preamble.LoopCount()
	return ok
}

// another is called at the end of each pass and reports whether a new one
// should start.
func (s *Steps) another() bool {
	if s.cfg.Replay == ReplayOnce || s.yielded == 0 {
		return false
	}
	count, ok := s.preamble.LoopCount()
	if !ok {
		return false
	}
	s.passes++
	s.yielded = 0
	more := count == 0 || s.passes <= int(count)
	if more {
		logging.Debug().Int("pass", s.passes+1).Uint16("loop_count", count).Msg("replaying animation")
	}
	return more
}

func (s *Steps) nextCached() (Step, error) {
	if s.pos == len(s.cache) {
		if !s.another() {
			return Step{}, s.fail(io.EOF)
		}
		s.pos = 0
	}
	step := s.cache[s.pos].Clone()
	s.pos++
	s.yielded++
	return step, nil
}

func (s *Steps) rewind() error {
	frames, err := s.reopen()
	if err != nil {
		return err
	}
	if _, err := frames.Preamble(); err != nil {
		return err
	}
	s.frames = frames
	s.comp = newCompositor(s.preamble, s.cfg.Format)
	return nil
}
