package oops

import "errors"

// Failure kinds. Compare with errors.Is; every error produced by the codec
// wraps exactly one of these.
var (
	ErrMalformedHeader            = errors.New("malformed header")
	ErrUnsupportedVersion         = errors.New("unsupported version")
	ErrUnexpectedEndOfStream      = errors.New("unexpected end of stream")
	ErrInvalidBlockTag            = errors.New("invalid block tag")
	ErrInvalidBlockSequence       = errors.New("invalid block sequence")
	ErrInvalidColorTableSize      = errors.New("invalid color table size")
	ErrInvalidCodeSize            = errors.New("invalid lzw code size")
	ErrMalformedExtension         = errors.New("malformed extension")
	ErrLzwCodeOutOfRange          = errors.New("lzw code out of range")
	ErrLzwMissingEndOfInformation = errors.New("lzw data missing end of information code")
	ErrImageTooLarge              = errors.New("image too large")
	ErrIncompleteImageData        = errors.New("incomplete image data")
	ErrMissingColorTable          = errors.New("missing color table")
	ErrInvalidColorIndex          = errors.New("invalid color index")
	ErrInvalidFrameDimensions     = errors.New("frame outside of logical screen")
	ErrInterlaced                 = errors.New("interlaced images are not supported")
	ErrNotIndexed                 = errors.New("step is not indexed")
	ErrNotSeekable                = errors.New("source is not seekable")
	ErrDecoderConsumed            = errors.New("decoder source already handed to a view")
	ErrIO                         = errors.New("i/o failure")
)
