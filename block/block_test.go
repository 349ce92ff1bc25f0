package block

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableSizeBits(t *testing.T) {
	cases := []struct {
		entries int
		bits    byte
	}{
		{0, 0}, {2, 0}, {3, 1}, {4, 1}, {7, 2}, {16, 3}, {17, 4}, {64, 5}, {65, 6}, {130, 7}, {256, 7},
	}
	for _, c := range cases {
		assert.Equal(t, c.bits, TableSizeBits(c.entries), "entries: %d", c.entries)
	}
	assert.Equal(t, 2, TableLen(0))
	assert.Equal(t, 256, TableLen(7))
}

func TestScreenFlags(t *testing.T) {
	s := &LogicalScreenDescriptor{Flags: 0x08}
	assert.False(t, s.HasGlobalColorTable())
	assert.Equal(t, 0, s.GlobalColorTableLen())

	s.SetGlobalColorTable(5)
	assert.True(t, s.HasGlobalColorTable())
	assert.Equal(t, 8, s.GlobalColorTableLen())
	assert.Equal(t, 3, s.ColorResolution())
	assert.True(t, s.Sorted(), "sort flag is left alone")

	s.SetGlobalColorTable(0)
	assert.False(t, s.HasGlobalColorTable())
}

func TestImageDescriptorFlags(t *testing.T) {
	d := &ImageDescriptor{Left: 3, Top: 4, Width: 10, Height: 20}
	assert.Equal(t, image.Rect(3, 4, 13, 24), d.Bounds())
	assert.Equal(t, 200, d.PixelCount())

	d.SetInterlaced(true)
	d.SetLocalColorTable(256)
	assert.True(t, d.Interlaced())
	assert.True(t, d.HasLocalColorTable())
	assert.Equal(t, 256, d.LocalColorTableLen())
	assert.Equal(t, byte(0xC7), d.Flags)

	d.SetLocalColorTable(0)
	d.SetInterlaced(false)
	assert.Equal(t, byte(0), d.Flags)
}

func TestGraphicControl(t *testing.T) {
	t.Run("transparency flag cleared", func(t *testing.T) {
		g := &GraphicControlExtension{Flags: 0x08, TransparentIndex: 7}
		_, ok := g.Transparent()
		assert.False(t, ok, "stored index must be ignored without the flag")
		assert.Equal(t, RestoreBackground, g.Disposal())
	})
	t.Run("transparency flag set", func(t *testing.T) {
		g := &GraphicControlExtension{Flags: 0x09, TransparentIndex: 7}
		idx, ok := g.Transparent()
		assert.True(t, ok)
		assert.Equal(t, byte(7), idx)
	})
	t.Run("setters", func(t *testing.T) {
		g := &GraphicControlExtension{}
		g.SetDisposal(RestorePrevious)
		g.SetUserInput(true)
		g.SetTransparent(3)
		assert.Equal(t, byte(0x0F), g.Flags)
		assert.Equal(t, RestorePrevious, g.Disposal())
		assert.True(t, g.UserInput())

		g.ClearTransparent()
		g.SetUserInput(false)
		g.SetDisposal(DoNotDispose)
		assert.Equal(t, byte(0x04), g.Flags)
		_, ok := g.Transparent()
		assert.False(t, ok)
	})
	t.Run("reserved disposal", func(t *testing.T) {
		g := &GraphicControlExtension{Flags: 6 << 2}
		assert.Equal(t, DisposalMethod(6), g.Disposal())
		assert.Equal(t, "reserved", g.Disposal().String())
	})
}

func TestLoopCount(t *testing.T) {
	_, ok := (&ApplicationExtension{}).LoopCount()
	assert.False(t, ok)

	for _, n := range []uint16{0, 4, 0x1234} {
		count, ok := NewLoopExtension(n).LoopCount()
		assert.True(t, ok)
		assert.Equal(t, n, count)
	}

	a := NewLoopExtension(2)
	assert.Equal(t, "NETSCAPE2.0", a.Identifier())
	assert.Equal(t, []byte{1, 2, 0}, a.Data[0])

	copy(a.ID[:], "ANIMEXTS")
	copy(a.AuthCode[:], "1.0")
	count, ok := a.LoopCount()
	assert.True(t, ok)
	assert.Equal(t, uint16(2), count)

	copy(a.ID[:], "XMP Data")
	copy(a.AuthCode[:], "XMP")
	_, ok = a.LoopCount()
	assert.False(t, ok)
}

func TestPalette(t *testing.T) {
	p := Palette{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}

	data, err := p.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 0, 0}, data)

	back := make(Palette, 4)
	require.NoError(t, back.UnmarshalBinary(data))
	assert.Equal(t, append(p, RGB{}), back)

	assert.Error(t, back.UnmarshalBinary(data[:5]))

	_, err = Palette{}.MarshalBinary()
	assert.Error(t, err)
	_, err = make(Palette, 257).MarshalBinary()
	assert.Error(t, err)

	colors := p.Colors()
	assert.Equal(t, color.RGBA{R: 4, G: 5, B: 6, A: 0xff}, colors[1])
	assert.True(t, p.Equal(PaletteFromColors(colors)))
	assert.False(t, p.Equal(p[:2]))
}
