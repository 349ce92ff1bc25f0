package lzw

import (
	"github.com/illusionman1212/gift/oops"
)

// entry is one dictionary string, stored as a link to its prefix code plus
// the index appended to it. first and length let a string be written in
// place without walking its chain twice.
type entry struct {
	prefix uint16
	suffix byte
	first  byte
	length uint16
}

// Decompressor turns a GIF LZW bitstream back into palette indices. Input
// may arrive in arbitrary pieces (typically one sub-block at a time).
type Decompressor struct {
	clear int
	eoi   int
	bits  codeBits
	arena []entry
	prev  int

	acc  uint32
	nacc uint

	limit     int
	produced  int
	discarded int
	done      bool
	err       error
}

// NewDecompressor returns a Decompressor for the given minimum code size.
// When limit is positive, indices beyond the first limit are counted but
// not kept.
func NewDecompressor(minCodeSize int, limit int) (*Decompressor, error) {
	if err := checkCodeSize(minCodeSize); err != nil {
		return nil, err
	}
	clear := 1 << minCodeSize
	d := &Decompressor{
		clear: clear,
		eoi:   clear + 1,
		bits:  newCodeBits(minCodeSize),
		arena: make([]entry, 0, MaxCodes),
		prev:  -1,
		limit: limit,
	}
	for i := 0; i < clear; i++ {
		d.arena = append(d.arena, entry{suffix: byte(i), first: byte(i), length: 1})
	}
	// clear and end-of-information codes never expand
	d.arena = append(d.arena, entry{}, entry{})
	return d, nil
}

func (d *Decompressor) reset() {
	d.arena = d.arena[:d.eoi+1]
	d.bits.reset()
	d.prev = -1
}

// Decompress decodes src and appends the resulting indices to dst. Bytes
// following the end-of-information code are ignored.
func (d *Decompressor) Decompress(dst, src []byte) ([]byte, error) {
	if d.err != nil {
		return dst, d.err
	}
	for _, b := range src {
		if d.done {
			break
		}
		d.acc |= uint32(b) << d.nacc
		d.nacc += 8
		for !d.done && d.nacc >= d.bits.width {
			code := int(d.acc & d.bits.mask())
			d.acc >>= d.bits.width
			d.nacc -= d.bits.width

			var err error
			dst, err = d.decode(dst, code)
			if err != nil {
				d.err = err
				return dst, err
			}
		}
	}
	return dst, nil
}

func (d *Decompressor) decode(dst []byte, code int) ([]byte, error) {
	switch code {
	case d.clear:
		d.reset()
		return dst, nil
	case d.eoi:
		d.done = true
		return dst, nil
	}

	next := len(d.arena)
	if code > next || (code == next && d.prev < 0) {
		return dst, oops.New(oops.ErrLzwCodeOutOfRange, "code %d with %d codes defined", code, next)
	}

	var first byte
	if code < next {
		first = d.arena[code].first
	} else {
		first = d.arena[d.prev].first
	}
	if d.prev >= 0 && next < MaxCodes {
		p := d.arena[d.prev]
		d.arena = append(d.arena, entry{
			prefix: uint16(d.prev),
			suffix: first,
			first:  p.first,
			length: p.length + 1,
		})
	}

	dst = d.emit(dst, code)
	d.prev = code
	d.bits.grow(len(d.arena))
	return dst, nil
}

func (d *Decompressor) emit(dst []byte, code int) []byte {
	n := int(d.arena[code].length)
	keep := n
	if d.limit > 0 && d.produced+n > d.limit {
		keep = d.limit - d.produced
		if keep < 0 {
			keep = 0
		}
		d.discarded += n - keep
	}
	d.produced += keep
	if keep == 0 {
		return dst
	}

	start := len(dst)
	dst = grow(dst, keep)
	c := code
	for i := n - 1; i >= 0; i-- {
		e := d.arena[c]
		if i < keep {
			dst[start+i] = e.suffix
		}
		c = int(e.prefix)
	}
	return dst
}

// Finish reports whether the stream ended properly.
func (d *Decompressor) Finish() error {
	if d.err != nil {
		return d.err
	}
	if !d.done {
		return oops.New(oops.ErrLzwMissingEndOfInformation, "after %d indices", d.produced)
	}
	return nil
}

// Done reports whether the end-of-information code has been read.
func (d *Decompressor) Done() bool {
	return d.done
}

// Discarded returns the number of indices dropped because of the limit.
func (d *Decompressor) Discarded() int {
	return d.discarded
}

func grow(b []byte, n int) []byte {
	if cap(b)-len(b) >= n {
		return b[:len(b)+n]
	}
	nb := make([]byte, len(b)+n, 2*cap(b)+n)
	copy(nb, b)
	return nb
}
