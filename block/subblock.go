package block

import (
	"bufio"
	"io"
)

const maxSubBlockLen = 255

// subBlockReader walks a run of length-prefixed sub-blocks. next returns
// io.EOF once the zero-length terminator has been read.
type subBlockReader struct {
	buf [maxSubBlockLen]byte
	r   *bufio.Reader
}

func newSubBlockReader(r *bufio.Reader) *subBlockReader {
	return &subBlockReader{
		r: r,
	}
}

// next returns the following sub-block. The slice is only valid until the
// next call.
func (v *subBlockReader) next() ([]byte, error) {
	blockSize, err := v.r.ReadByte()
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, err
	}
	if blockSize == 0 {
		return nil, io.EOF
	}
	_, err = io.ReadFull(v.r, v.buf[:blockSize])
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, err
	}
	return v.buf[:blockSize], nil
}

// all collects every remaining sub-block.
func (v *subBlockReader) all() ([][]byte, error) {
	var out [][]byte
	for {
		b, err := v.next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, append([]byte(nil), b...))
	}
}

// skip discards every remaining sub-block and reports how many there were.
func (v *subBlockReader) skip() (int, error) {
	n := 0
	for {
		_, err := v.next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}

// appendSubBlocks splits each chunk into sub-blocks of at most 255 bytes and
// ends the run with a terminator. Empty chunks are skipped since a zero
// length would end the run early.
func appendSubBlocks(dst []byte, chunks ...[]byte) []byte {
	for _, chunk := range chunks {
		for len(chunk) > 0 {
			n := len(chunk)
			if n > maxSubBlockLen {
				n = maxSubBlockLen
			}
			dst = append(dst, byte(n))
			dst = append(dst, chunk[:n]...)
			chunk = chunk[n:]
		}
	}
	return append(dst, 0)
}
