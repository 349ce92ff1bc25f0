package block

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"

	"github.com/illusionman1212/gift/logging"
	"github.com/illusionman1212/gift/lzw"
	"github.com/illusionman1212/gift/oops"
)

type expect int

const (
	expectHeader expect = iota
	expectScreen
	expectGlobalColorTable
	expectTagged
	expectLocalColorTable
	expectImageData
	expectNothing
)

// Reader decodes a GIF stream one Block at a time.
type Reader struct {
	r         *bufio.Reader
	sub       *subBlockReader
	maxPixels int

	next     expect
	tableLen int
	image    *ImageDescriptor

	err error
}

// NewReader returns a Reader over r. Screens and images with more than
// maxPixels pixels are rejected before anything is allocated for them; a
// maxPixels of zero or less disables the check.
func NewReader(r io.Reader, maxPixels int) *Reader {
	br := bufio.NewReader(r)
	return &Reader{
		r:         br,
		sub:       newSubBlockReader(br),
		maxPixels: maxPixels,
	}
}

// FailedReader returns a Reader whose every call to Next returns err.
func FailedReader(err error) *Reader {
	return &Reader{err: err}
}

// Next returns the next block. It returns io.EOF after the Trailer. Any
// other error ends the stream: every later call returns the same error.
func (r *Reader) Next() (Block, error) {
	if r.err != nil {
		return nil, r.err
	}
	b, err := r.readBlock()
	if err != nil {
		r.err = err
		if err != io.EOF {
			logging.Debug().Err(err).Msg("gif block stream failed")
		}
		return nil, err
	}
	return b, nil
}

func wrapRead(err error, what string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return oops.New(oops.ErrUnexpectedEndOfStream, "reading %s", what)
	}
	return oops.IO(err, "reading %s", what)
}

func (r *Reader) readFixed(what string, data interface{}) error {
	if err := binary.Read(r.r, binary.LittleEndian, data); err != nil {
		return wrapRead(err, what)
	}
	return nil
}

func (r *Reader) readBlock() (Block, error) {
	switch r.next {
	case expectHeader:
		return r.readHeader()
	case expectScreen:
		return r.readScreen()
	case expectGlobalColorTable:
		palette, err := r.readTable("global color table")
		if err != nil {
			return nil, err
		}
		r.next = expectTagged
		return &GlobalColorTable{Palette: palette}, nil
	case expectLocalColorTable:
		palette, err := r.readTable("local color table")
		if err != nil {
			return nil, err
		}
		r.next = expectImageData
		return &LocalColorTable{Palette: palette}, nil
	case expectImageData:
		return r.readImageData()
	case expectNothing:
		return nil, io.EOF
	}

	tag, err := r.r.ReadByte()
	if err != nil {
		return nil, wrapRead(err, "block tag")
	}
	switch tag {
	case EXTENSION_BLOCK:
		return r.readExtension()
	case IMAGE_DESCRIPTOR:
		return r.readImageDescriptor()
	case TRAILER:
		r.next = expectNothing
		return &Trailer{}, nil
	}
	return nil, oops.New(oops.ErrInvalidBlockTag, "tag 0x%02x", tag)
}

func (r *Reader) readHeader() (Block, error) {
	var buf [6]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return nil, wrapRead(err, "header")
	}
	if string(buf[:3]) != Signature {
		return nil, oops.New(oops.ErrMalformedHeader, "signature %q", buf[:3])
	}
	h := &Header{}
	copy(h.Version[:], buf[3:])
	if h.Version != Version87a && h.Version != Version89a {
		return nil, oops.New(oops.ErrUnsupportedVersion, "version %q", h.Version[:])
	}
	r.next = expectScreen
	return h, nil
}

func (r *Reader) readScreen() (Block, error) {
	s := &LogicalScreenDescriptor{}
	if err := r.readFixed("logical screen descriptor", s); err != nil {
		return nil, err
	}
	if r.maxPixels > 0 && s.PixelCount() > r.maxPixels {
		return nil, oops.New(oops.ErrImageTooLarge, "logical screen %dx%d", s.Width, s.Height)
	}
	r.next = expectTagged
	if s.HasGlobalColorTable() {
		r.tableLen = s.GlobalColorTableLen()
		r.next = expectGlobalColorTable
	}
	return s, nil
}

func (r *Reader) readTable(what string) (Palette, error) {
	data := make([]byte, r.tableLen*3)
	if _, err := io.ReadFull(r.r, data); err != nil {
		return nil, wrapRead(err, what)
	}
	palette := make(Palette, r.tableLen)
	if err := palette.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return palette, nil
}

func (r *Reader) readImageDescriptor() (Block, error) {
	d := &ImageDescriptor{}
	if err := r.readFixed("image descriptor", d); err != nil {
		return nil, err
	}
	if r.maxPixels > 0 && d.PixelCount() > r.maxPixels {
		return nil, oops.New(oops.ErrImageTooLarge, "image descriptor %dx%d", d.Width, d.Height)
	}
	r.image = d
	r.next = expectImageData
	if d.HasLocalColorTable() {
		r.tableLen = d.LocalColorTableLen()
		r.next = expectLocalColorTable
	}
	return d, nil
}

func (r *Reader) readImageData() (Block, error) {
	minCodeSize, err := r.r.ReadByte()
	if err != nil {
		return nil, wrapRead(err, "lzw minimum code size")
	}
	pixels := r.image.PixelCount()
	limit := pixels
	if limit == 0 {
		// an empty image still carries a stream; keep one index so the
		// decompressor enforces a limit, then drop it below
		limit = 1
	}
	dec, err := lzw.NewDecompressor(int(minCodeSize), limit)
	if err != nil {
		return nil, err
	}

	indices := make([]byte, 0, limit)
	for {
		chunk, err := r.sub.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapRead(err, "image data")
		}
		if dec.Done() {
			continue
		}
		if indices, err = dec.Decompress(indices, chunk); err != nil {
			return nil, err
		}
	}
	if err := dec.Finish(); err != nil {
		return nil, err
	}
	if len(indices) < pixels {
		return nil, oops.New(oops.ErrIncompleteImageData, "%d of %d pixels", len(indices), pixels)
	}
	extra := dec.Discarded() + len(indices) - pixels
	indices = indices[:pixels]
	if extra > 0 {
		logging.Warn().
			Int("width", int(r.image.Width)).
			Int("height", int(r.image.Height)).
			Int("extra", extra).
			Msg("discarding surplus image data")
	}

	r.image = nil
	r.next = expectTagged
	return &ImageData{MinCodeSize: minCodeSize, Indices: indices}, nil
}

func (r *Reader) readExtension() (Block, error) {
	label, err := r.r.ReadByte()
	if err != nil {
		return nil, wrapRead(err, "extension label")
	}

	switch label {
	case GRAPHICS_CONTROL_BLOCK:
		return r.readGraphicControl()
	case COMMENT_BLOCK:
		comments, err := r.sub.all()
		if err != nil {
			return nil, wrapRead(err, "comment extension")
		}
		return &CommentExtension{Comments: comments}, nil
	case APPLICATION_BLOCK:
		return r.readApplication()
	case PLAINTEXT_BLOCK:
		return r.readPlainText()
	}

	data, err := r.sub.all()
	if err != nil {
		return nil, wrapRead(err, "extension")
	}
	logging.Debug().Hex("label", []byte{label}).Msg("keeping unknown extension")
	return &UnknownExtension{Label: label, Data: data}, nil
}

func (r *Reader) readGraphicControl() (Block, error) {
	size, err := r.r.ReadByte()
	if err != nil {
		return nil, wrapRead(err, "graphic control extension")
	}
	if size != GRAPHICS_CONTROL_BLOCK_SIZE {
		return nil, oops.New(oops.ErrMalformedExtension, "graphic control block size %d", size)
	}
	g := &GraphicControlExtension{}
	if err := r.readFixed("graphic control extension", g); err != nil {
		return nil, err
	}
	if n, err := r.sub.skip(); err != nil {
		return nil, wrapRead(err, "graphic control extension")
	} else if n > 0 {
		logging.Debug().Int("sub_blocks", n).Msg("ignoring trailing graphic control data")
	}
	return g, nil
}

func (r *Reader) readApplication() (Block, error) {
	size, err := r.r.ReadByte()
	if err != nil {
		return nil, wrapRead(err, "application extension")
	}
	if size != APPLICATION_BLOCK_SIZE {
		return nil, oops.New(oops.ErrMalformedExtension, "application block size %d", size)
	}
	a := &ApplicationExtension{}
	if _, err := io.ReadFull(r.r, a.ID[:]); err != nil {
		return nil, wrapRead(err, "application identifier")
	}
	if _, err := io.ReadFull(r.r, a.AuthCode[:]); err != nil {
		return nil, wrapRead(err, "application authentication code")
	}
	if a.Data, err = r.sub.all(); err != nil {
		return nil, wrapRead(err, "application data")
	}
	return a, nil
}

func (r *Reader) readPlainText() (Block, error) {
	size, err := r.r.ReadByte()
	if err != nil {
		return nil, wrapRead(err, "plain text extension")
	}
	if size != PLAINTEXT_BLOCK_SIZE {
		return nil, oops.New(oops.ErrMalformedExtension, "plain text block size %d", size)
	}
	p := &PlainTextExtension{}
	if err := r.readFixed("plain text grid", &p.Grid); err != nil {
		return nil, err
	}
	if p.Text, err = r.sub.all(); err != nil {
		return nil, wrapRead(err, "plain text data")
	}
	return p, nil
}
