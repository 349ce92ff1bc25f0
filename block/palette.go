package block

import (
	"image/color"

	"github.com/illusionman1212/gift/oops"
)

// Size of color table is always a power of 2, with a max of 256 entries in the table
// ColorTableEntries = 1 << ((Packed & 7) + 1)
// ColorTableSize = 3 * (1 << ((Packed & 7) + 1))
type RGB struct {
	Red   byte
	Green byte
	Blue  byte
}

// RGBA makes RGB a color.Color. Table entries are always opaque.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.Red, G: c.Green, B: c.Blue, A: 0xff}.RGBA()
}

type Palette []RGB

const MaxPaletteLen = 256

// TableLen is the number of entries declared by the 3-bit size field of a
// descriptor.
func TableLen(bits byte) int {
	return 1 << (bits&7 + 1)
}

// TableSizeBits is the smallest size field whose table holds entries
// colors.
func TableSizeBits(entries int) byte {
	var bits byte
	for bits < 7 && TableLen(bits) < entries {
		bits++
	}
	return bits
}

func (v Palette) UnmarshalBinary(data []byte) error {
	if len(v)*3 != len(data) {
		return oops.New(oops.ErrInvalidColorTableSize, "len is not valid. required: %d, actual: %d", len(v)*3, len(data))
	}
	for i := 0; i < len(v); i++ {
		v[i].Red = data[i*3]
		v[i].Green = data[i*3+1]
		v[i].Blue = data[i*3+2]
	}
	return nil
}

// MarshalBinary returns the wire form of the table, padded with black to
// the power of two its descriptor will declare.
func (v Palette) MarshalBinary() ([]byte, error) {
	if len(v) == 0 || len(v) > MaxPaletteLen {
		return nil, oops.New(oops.ErrInvalidColorTableSize, "%d colors", len(v))
	}
	data := make([]byte, TableLen(TableSizeBits(len(v)))*3)

	for i := 0; i < len(v); i++ {
		data[i*3] = v[i].Red
		data[i*3+1] = v[i].Green
		data[i*3+2] = v[i].Blue
	}

	return data, nil
}

// Colors converts the table for use with image.Paletted.
func (v Palette) Colors() color.Palette {
	p := make(color.Palette, len(v))
	for i, c := range v {
		p[i] = color.RGBA{R: c.Red, G: c.Green, B: c.Blue, A: 0xff}
	}
	return p
}

// PaletteFromColors converts an image palette to table entries. Alpha is
// dropped; GIF expresses transparency through the graphic control block.
func PaletteFromColors(p color.Palette) Palette {
	v := make(Palette, len(p))
	for i, c := range p {
		rgba := color.RGBAModel.Convert(c).(color.RGBA)
		v[i] = RGB{Red: rgba.R, Green: rgba.G, Blue: rgba.B}
	}
	return v
}

func (v Palette) Equal(other Palette) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i] != other[i] {
			return false
		}
	}
	return true
}
