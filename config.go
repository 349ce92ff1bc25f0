package gift

import (
	"github.com/illusionman1212/gift/block"
)

type PixelFormat int

const (
	// FormatRGBA composites every step onto an *image.RGBA screen.
	FormatRGBA PixelFormat = iota
	// FormatIndexed keeps palette indices and yields *image.Paletted steps.
	FormatIndexed
)

func (f PixelFormat) String() string {
	if f == FormatIndexed {
		return "indexed"
	}
	return "rgba"
}

// ReplayPolicy decides what Steps does at the end of a looping animation.
type ReplayPolicy int

const (
	// ReplayOnce yields every step a single time whatever the loop count.
	ReplayOnce ReplayPolicy = iota
	// ReplayCached keeps a copy of each step and replays the copies.
	ReplayCached
	// ReplaySeek rewinds the source and decodes it again. The source must
	// implement io.Seeker.
	ReplaySeek
)

const DefaultMaxPixels = 1 << 25

type Config struct {
	// Largest pixel count accepted for the logical screen or any image.
	MaxPixels int
	Format    PixelFormat
	// Disposal used for images without a graphic control extension.
	DefaultDisposal block.DisposalMethod
	Replay          ReplayPolicy
}

func DefaultConfig() Config {
	return Config{
		MaxPixels:       DefaultMaxPixels,
		Format:          FormatRGBA,
		DefaultDisposal: block.NoAction,
		Replay:          ReplayOnce,
	}
}
