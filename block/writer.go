package block

import (
	"bufio"
	"io"

	"github.com/illusionman1212/gift/lzw"
	"github.com/illusionman1212/gift/oops"
)

// Writer encodes Blocks in their canonical byte form. It does not check
// that blocks arrive in a valid order; that is the caller's concern.
type Writer struct {
	w   *bufio.Writer
	buf []byte
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w: bufio.NewWriter(w),
	}
}

// FailedWriter returns a Writer whose every call returns err.
func FailedWriter(err error) *Writer {
	return &Writer{err: err}
}

// Write encodes b. After the first failure every call returns that error.
func (w *Writer) Write(b Block) error {
	if w.err != nil {
		return w.err
	}
	data, err := w.encode(w.buf[:0], b)
	if err != nil {
		w.err = err
		return err
	}
	w.buf = data
	if _, err := w.w.Write(data); err != nil {
		w.err = oops.IO(err, "writing block")
		return w.err
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.w.Flush(); err != nil {
		w.err = oops.IO(err, "flushing blocks")
		return w.err
	}
	return nil
}

func appendUint16(dst []byte, v uint16) []byte {
	return append(dst, byte(v), byte(v>>8))
}

func (w *Writer) encode(dst []byte, b Block) ([]byte, error) {
	switch b := b.(type) {
	case *Header:
		if b.Version != Version87a && b.Version != Version89a {
			return nil, oops.New(oops.ErrUnsupportedVersion, "version %q", b.Version[:])
		}
		dst = append(dst, Signature...)
		return append(dst, b.Version[:]...), nil

	case *LogicalScreenDescriptor:
		dst = appendUint16(dst, b.Width)
		dst = appendUint16(dst, b.Height)
		return append(dst, b.Flags, b.BackgroundIndex, b.AspectRatio), nil

	case *GlobalColorTable:
		return appendTable(dst, b.Palette)

	case *LocalColorTable:
		return appendTable(dst, b.Palette)

	case *GraphicControlExtension:
		dst = append(dst, EXTENSION_BLOCK, GRAPHICS_CONTROL_BLOCK, GRAPHICS_CONTROL_BLOCK_SIZE, b.Flags)
		dst = appendUint16(dst, b.Delay)
		return append(dst, b.TransparentIndex, 0), nil

	case *CommentExtension:
		dst = append(dst, EXTENSION_BLOCK, COMMENT_BLOCK)
		return appendSubBlocks(dst, b.Comments...), nil

	case *ApplicationExtension:
		dst = append(dst, EXTENSION_BLOCK, APPLICATION_BLOCK, APPLICATION_BLOCK_SIZE)
		dst = append(dst, b.ID[:]...)
		dst = append(dst, b.AuthCode[:]...)
		return appendSubBlocks(dst, b.Data...), nil

	case *PlainTextExtension:
		g := b.Grid
		dst = append(dst, EXTENSION_BLOCK, PLAINTEXT_BLOCK, PLAINTEXT_BLOCK_SIZE)
		dst = appendUint16(dst, g.Left)
		dst = appendUint16(dst, g.Top)
		dst = appendUint16(dst, g.Width)
		dst = appendUint16(dst, g.Height)
		dst = append(dst, g.CellWidth, g.CellHeight, g.Foreground, g.Background)
		return appendSubBlocks(dst, b.Text...), nil

	case *UnknownExtension:
		dst = append(dst, EXTENSION_BLOCK, b.Label)
		return appendSubBlocks(dst, b.Data...), nil

	case *ImageDescriptor:
		dst = append(dst, IMAGE_DESCRIPTOR)
		dst = appendUint16(dst, b.Left)
		dst = appendUint16(dst, b.Top)
		dst = appendUint16(dst, b.Width)
		dst = appendUint16(dst, b.Height)
		return append(dst, b.Flags), nil

	case *ImageData:
		data, err := lzw.Compress(int(b.MinCodeSize), b.Indices)
		if err != nil {
			return nil, err
		}
		dst = append(dst, b.MinCodeSize)
		return appendSubBlocks(dst, data), nil

	case *Trailer:
		return append(dst, TRAILER), nil
	}
	return nil, oops.New(oops.ErrInvalidBlockTag, "cannot encode %T", b)
}

func appendTable(dst []byte, p Palette) ([]byte, error) {
	data, err := p.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(dst, data...), nil
}
