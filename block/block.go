// Package block reads and writes the typed blocks of the GIF87a/GIF89a
// grammar. It is the lowest layer of the codec: a Reader turns bytes into a
// lazy sequence of Blocks and a Writer turns Blocks back into bytes.
package block

import (
	"image"

	"github.com/illusionman1212/gift/lzw"
)

const (
	EXTENSION_BLOCK = 0x21

	GRAPHICS_CONTROL_BLOCK      = 0xF9
	GRAPHICS_CONTROL_BLOCK_SIZE = 0x04

	PLAINTEXT_BLOCK      = 0x01
	PLAINTEXT_BLOCK_SIZE = 0x0C

	APPLICATION_BLOCK      = 0xFF
	APPLICATION_BLOCK_SIZE = 0x0B

	COMMENT_BLOCK    = 0xFE
	IMAGE_DESCRIPTOR = 0x2C
	TRAILER          = 0x3B
)

const Signature = "GIF"

var (
	Version87a = [3]byte{'8', '7', 'a'}
	Version89a = [3]byte{'8', '9', 'a'}
)

// Block is one of the pointer types declared in this file.
type Block interface {
	isBlock()
}

func (*Header) isBlock()                  {}
func (*LogicalScreenDescriptor) isBlock() {}
func (*GlobalColorTable) isBlock()        {}
func (*GraphicControlExtension) isBlock() {}
func (*CommentExtension) isBlock()        {}
func (*ApplicationExtension) isBlock()    {}
func (*PlainTextExtension) isBlock()      {}
func (*UnknownExtension) isBlock()        {}
func (*ImageDescriptor) isBlock()         {}
func (*LocalColorTable) isBlock()         {}
func (*ImageData) isBlock()               {}
func (*Trailer) isBlock()                 {}

type Header struct {
	Version [3]byte // "87a" or "89a"
}

func NewHeader() *Header {
	return &Header{Version: Version89a}
}

func (h *Header) String() string {
	return Signature + string(h.Version[:])
}

/*
LogicalScreenDescriptor.Flags {
	0-2: 	GlobalColorTableSize
	  3: 	ColorTableSortFlag   | Only valid under 89a, 87a always sets it to 0
	4-6:	ColorResolution
	  7:	GlobalColorTableFlag
}
*/

type LogicalScreenDescriptor struct {
	Width           uint16
	Height          uint16
	Flags           byte
	BackgroundIndex byte // unused if GlobalColorTableFlag is unset
	AspectRatio     byte
}

func (s *LogicalScreenDescriptor) HasGlobalColorTable() bool {
	return s.Flags&0x80 != 0
}

// GlobalColorTableLen is the number of entries of the table that follows
// the descriptor, or 0 when there is none.
func (s *LogicalScreenDescriptor) GlobalColorTableLen() int {
	if !s.HasGlobalColorTable() {
		return 0
	}
	return TableLen(s.Flags & 7)
}

func (s *LogicalScreenDescriptor) ColorResolution() int {
	return int(s.Flags>>4&7) + 1
}

func (s *LogicalScreenDescriptor) Sorted() bool {
	return s.Flags&0x08 != 0
}

// SetGlobalColorTable declares a table large enough for entries colors.
// Zero entries clears the flag.
func (s *LogicalScreenDescriptor) SetGlobalColorTable(entries int) {
	s.Flags &^= 0xF7
	if entries <= 0 {
		return
	}
	bits := TableSizeBits(entries)
	s.Flags |= 0x80 | bits<<4 | bits
}

func (s *LogicalScreenDescriptor) PixelCount() int {
	return int(s.Width) * int(s.Height)
}

type GlobalColorTable struct {
	Palette Palette
}

type LocalColorTable struct {
	Palette Palette
}

/*
GraphicControlExtension.Flags {
	0:   TransparentColorFlag
	1:   UserInputFlag
	2-4: DisposalMethod
	5-7: Reserved
}
*/

type DisposalMethod byte

const (
	NoAction DisposalMethod = iota
	DoNotDispose
	RestoreBackground
	RestorePrevious
)

func (d DisposalMethod) String() string {
	switch d {
	case NoAction:
		return "none"
	case DoNotDispose:
		return "keep"
	case RestoreBackground:
		return "background"
	case RestorePrevious:
		return "previous"
	}
	return "reserved"
}

// Only available on 89a and comes before the image (or plain text) it
// controls
type GraphicControlExtension struct {
	Flags            byte
	Delay            uint16 // hundredths of a second
	TransparentIndex byte   // only meaningful when TransparentColorFlag is set
}

func (g *GraphicControlExtension) Disposal() DisposalMethod {
	return DisposalMethod(g.Flags >> 2 & 7)
}

func (g *GraphicControlExtension) SetDisposal(d DisposalMethod) {
	g.Flags = g.Flags&^0x1C | byte(d&7)<<2
}

func (g *GraphicControlExtension) UserInput() bool {
	return g.Flags&0x02 != 0
}

func (g *GraphicControlExtension) SetUserInput(on bool) {
	if on {
		g.Flags |= 0x02
	} else {
		g.Flags &^= 0x02
	}
}

// Transparent returns the transparent color index. The stored index is
// ignored unless the transparency flag is set.
func (g *GraphicControlExtension) Transparent() (byte, bool) {
	if g.Flags&0x01 == 0 {
		return 0, false
	}
	return g.TransparentIndex, true
}

func (g *GraphicControlExtension) SetTransparent(index byte) {
	g.Flags |= 0x01
	g.TransparentIndex = index
}

func (g *GraphicControlExtension) ClearTransparent() {
	g.Flags &^= 0x01
	g.TransparentIndex = 0
}

type CommentExtension struct {
	Comments [][]byte
}

const (
	netscapeID = "NETSCAPE"
	animextsID = "ANIMEXTS"
	loopAuth   = "2.0"
	animAuth   = "1.0"
)

type ApplicationExtension struct {
	ID       [8]byte // application identifier
	AuthCode [3]byte // application authentication code
	Data     [][]byte
}

// NewLoopExtension returns a NETSCAPE2.0 block asking for count extra
// passes over the animation, 0 meaning forever.
func NewLoopExtension(count uint16) *ApplicationExtension {
	a := &ApplicationExtension{
		Data: [][]byte{{1, byte(count), byte(count >> 8)}},
	}
	copy(a.ID[:], netscapeID)
	copy(a.AuthCode[:], loopAuth)
	return a
}

func (a *ApplicationExtension) isLooping() bool {
	id, auth := string(a.ID[:]), string(a.AuthCode[:])
	return (id == netscapeID && auth == loopAuth) || (id == animextsID && auth == animAuth)
}

// LoopCount reports the loop count of a NETSCAPE2.0 (or ANIMEXTS1.0)
// extension. Other application extensions report false.
func (a *ApplicationExtension) LoopCount() (uint16, bool) {
	if !a.isLooping() || len(a.Data) == 0 {
		return 0, false
	}
	d := a.Data[0]
	if len(d) != 3 || d[0] != 1 {
		return 0, false
	}
	return uint16(d[1]) | uint16(d[2])<<8, true
}

func (a *ApplicationExtension) Identifier() string {
	return string(a.ID[:]) + string(a.AuthCode[:])
}

type TextGrid struct {
	Left       uint16 // X position of text grid in pixels
	Top        uint16 // Y position of the text grid in pixels
	Width      uint16 // width of text grid in pixels
	Height     uint16 // height of text grid in pixels
	CellWidth  byte   // width of grid cell in pixels
	CellHeight byte   // height of grid cell in pixels
	Foreground byte   // text foreground color index value
	Background byte   // text background color index value
}

type PlainTextExtension struct {
	Grid TextGrid
	Text [][]byte
}

// UnknownExtension keeps an extension with an unrecognized label verbatim.
type UnknownExtension struct {
	Label byte
	Data  [][]byte
}

/*
ImageDescriptor.Flags {
	0-2: LocalColorTableSize
	3-4: Reserved
	5:   SortFlag            | this flag is set (1) if the color table is sorted by importance (frequency of occurrence). only available on 89a
	6:   InterlaceFlag       | this flag is set (1) if the image is interlaced
	7:   LocalColorTableFlag | this flag is set (1) if the image contains a local color table
}
*/

type ImageDescriptor struct {
	Left   uint16 // X position of image
	Top    uint16 // Y position of image
	Width  uint16 // width of image in pixels
	Height uint16 // height of image in pixels
	Flags  byte
}

func (d *ImageDescriptor) HasLocalColorTable() bool {
	return d.Flags&0x80 != 0
}

func (d *ImageDescriptor) LocalColorTableLen() int {
	if !d.HasLocalColorTable() {
		return 0
	}
	return TableLen(d.Flags & 7)
}

// SetLocalColorTable declares a table large enough for entries colors.
// Zero entries clears the flag.
func (d *ImageDescriptor) SetLocalColorTable(entries int) {
	d.Flags &^= 0xA7
	if entries <= 0 {
		return
	}
	d.Flags |= 0x80 | TableSizeBits(entries)
}

func (d *ImageDescriptor) Interlaced() bool {
	return d.Flags&0x40 != 0
}

func (d *ImageDescriptor) SetInterlaced(on bool) {
	if on {
		d.Flags |= 0x40
	} else {
		d.Flags &^= 0x40
	}
}

func (d *ImageDescriptor) Sorted() bool {
	return d.Flags&0x20 != 0
}

func (d *ImageDescriptor) PixelCount() int {
	return int(d.Width) * int(d.Height)
}

// Bounds is the image rectangle in logical screen coordinates.
func (d *ImageDescriptor) Bounds() image.Rectangle {
	return image.Rect(int(d.Left), int(d.Top), int(d.Left)+int(d.Width), int(d.Top)+int(d.Height))
}

// ImageData holds the decoded palette indices of one image, one per pixel
// in row order, and the LZW minimum code size used on the wire.
type ImageData struct {
	MinCodeSize byte
	Indices     []byte
}

// NewImageData picks the minimum code size for a palette of paletteLen
// entries.
func NewImageData(paletteLen int, indices []byte) *ImageData {
	return &ImageData{
		MinCodeSize: byte(lzw.MinCodeSize(paletteLen)),
		Indices:     indices,
	}
}

type Trailer struct{}
