package lzw

import (
	"github.com/illusionman1212/gift/oops"
)

// Compressor encodes palette indices into a GIF LZW bitstream using greedy
// longest-match parsing.
type Compressor struct {
	minCodeSize int
	clear       int
	eoi         int
	bits        codeBits
	hi          int
	table       map[uint32]uint16

	acc  uint32
	nacc uint
}

func NewCompressor(minCodeSize int) (*Compressor, error) {
	if err := checkCodeSize(minCodeSize); err != nil {
		return nil, err
	}
	clear := 1 << minCodeSize
	return &Compressor{
		minCodeSize: minCodeSize,
		clear:       clear,
		eoi:         clear + 1,
		bits:        newCodeBits(minCodeSize),
		hi:          clear + 1,
		table:       make(map[uint32]uint16),
	}, nil
}

// Compress appends the complete stream for indices to dst: a leading clear
// code, the data, and exactly one end-of-information code. The Compressor
// may be reused afterwards.
func (c *Compressor) Compress(dst, indices []byte) ([]byte, error) {
	c.resetTable()
	c.acc, c.nacc = 0, 0

	dst = c.put(dst, c.clear)
	saved := -1
	for _, idx := range indices {
		if int(idx) >= c.clear {
			return nil, oops.New(oops.ErrLzwCodeOutOfRange, "index %d with minimum code size %d", idx, c.minCodeSize)
		}
		if saved < 0 {
			saved = int(idx)
			continue
		}
		key := uint32(saved)<<8 | uint32(idx)
		if code, ok := c.table[key]; ok {
			saved = int(code)
			continue
		}
		dst = c.put(dst, saved)
		saved = int(idx)

		var assigned bool
		dst, assigned = c.incHi(dst)
		if assigned {
			c.table[key] = uint16(c.hi)
		}
	}
	if saved >= 0 {
		dst = c.put(dst, saved)
		dst, _ = c.incHi(dst)
	}
	dst = c.put(dst, c.eoi)
	if c.nacc > 0 {
		dst = append(dst, byte(c.acc))
		c.acc, c.nacc = 0, 0
	}
	return dst, nil
}

// incHi assigns the next code. When the dictionary is full a clear code is
// written instead and no code is assigned.
func (c *Compressor) incHi(dst []byte) ([]byte, bool) {
	c.hi++
	c.bits.grow(c.hi)
	if c.hi == MaxCodes-1 {
		dst = c.put(dst, c.clear)
		c.resetTable()
		return dst, false
	}
	return dst, true
}

func (c *Compressor) resetTable() {
	for k := range c.table {
		delete(c.table, k)
	}
	c.bits.reset()
	c.hi = c.eoi
}

func (c *Compressor) put(dst []byte, code int) []byte {
	c.acc |= uint32(code) << c.nacc
	c.nacc += c.bits.width
	for c.nacc >= 8 {
		dst = append(dst, byte(c.acc))
		c.acc >>= 8
		c.nacc -= 8
	}
	return dst
}
