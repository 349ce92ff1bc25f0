// Package lzw implements the variable-width LZW variant used by GIF image
// data: codes are packed least-significant bit first, start one bit wider
// than the minimum code size and grow to at most 12 bits.
package lzw

import (
	"github.com/illusionman1212/gift/oops"
)

const (
	// MaxCodeBits is the widest code GIF allows.
	MaxCodeBits = 12
	// MaxCodes is the dictionary capacity at MaxCodeBits.
	MaxCodes = 1 << MaxCodeBits

	MinCodeSizeLow  = 2
	MinCodeSizeHigh = 8
)

// MinCodeSize returns the minimum code size needed to represent every index
// of a palette with n entries: ceil(log2(n)), clamped to [2, 8].
func MinCodeSize(n int) int {
	size := MinCodeSizeLow
	for size < MinCodeSizeHigh && 1<<size < n {
		size++
	}
	return size
}

func checkCodeSize(minCodeSize int) error {
	if minCodeSize < MinCodeSizeLow || minCodeSize > MinCodeSizeHigh {
		return oops.New(oops.ErrInvalidCodeSize, "minimum code size %d", minCodeSize)
	}
	return nil
}

// codeBits tracks the current code width. Both directions grow it when the
// next code to be assigned no longer fits; that shared rule is what keeps an
// encoder and a decoder in step without ever transmitting the width.
type codeBits struct {
	initial uint
	width   uint
}

func newCodeBits(minCodeSize int) codeBits {
	return codeBits{
		initial: uint(minCodeSize) + 1,
		width:   uint(minCodeSize) + 1,
	}
}

func (b *codeBits) reset() {
	b.width = b.initial
}

// grow widens the code when nextCode would overflow the current width.
func (b *codeBits) grow(nextCode int) {
	if nextCode == 1<<b.width && b.width < MaxCodeBits {
		b.width++
	}
}

func (b codeBits) mask() uint32 {
	return 1<<b.width - 1
}

// Compress encodes indices with the given minimum code size.
func Compress(minCodeSize int, indices []byte) ([]byte, error) {
	c, err := NewCompressor(minCodeSize)
	if err != nil {
		return nil, err
	}
	return c.Compress(nil, indices)
}

// Decompress decodes a complete LZW stream. At most limit indices are kept
// when limit is positive.
func Decompress(minCodeSize int, data []byte, limit int) ([]byte, error) {
	d, err := NewDecompressor(minCodeSize, limit)
	if err != nil {
		return nil, err
	}
	var out []byte
	if limit > 0 {
		out = make([]byte, 0, limit)
	}
	out, err = d.Decompress(out, data)
	if err != nil {
		return nil, err
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return out, nil
}
