package gift

import "github.com/illusionman1212/gift/oops"

// Error kinds reported by this module. Every error returned wraps one of
// them; test with errors.Is.
var (
	ErrMalformedHeader            = oops.ErrMalformedHeader
	ErrUnsupportedVersion         = oops.ErrUnsupportedVersion
	ErrUnexpectedEndOfStream      = oops.ErrUnexpectedEndOfStream
	ErrInvalidBlockTag            = oops.ErrInvalidBlockTag
	ErrInvalidBlockSequence       = oops.ErrInvalidBlockSequence
	ErrInvalidColorTableSize      = oops.ErrInvalidColorTableSize
	ErrInvalidCodeSize            = oops.ErrInvalidCodeSize
	ErrMalformedExtension         = oops.ErrMalformedExtension
	ErrLzwCodeOutOfRange          = oops.ErrLzwCodeOutOfRange
	ErrLzwMissingEndOfInformation = oops.ErrLzwMissingEndOfInformation
	ErrImageTooLarge              = oops.ErrImageTooLarge
	ErrIncompleteImageData        = oops.ErrIncompleteImageData
	ErrMissingColorTable          = oops.ErrMissingColorTable
	ErrInvalidColorIndex          = oops.ErrInvalidColorIndex
	ErrInvalidFrameDimensions     = oops.ErrInvalidFrameDimensions
	ErrInterlaced                 = oops.ErrInterlaced
	ErrNotIndexed                 = oops.ErrNotIndexed
	ErrNotSeekable                = oops.ErrNotSeekable
	ErrDecoderConsumed            = oops.ErrDecoderConsumed
	ErrIO                         = oops.ErrIO
)
