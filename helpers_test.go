package gift

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/illusionman1212/gift/block"
	"github.com/stretchr/testify/require"
)

var twoByTwo = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61,
	0x02, 0x00, 0x02, 0x00, 0x80, 0x01, 0x00,
	0x00, 0x00, 0x00, 0xff, 0xff, 0xff,
	0x2c, 0x00, 0x00, 0x00, 0x00, 0x02, 0x00, 0x02, 0x00, 0x00,
	0x02, 0x03, 0x0c, 0x10, 0x05, 0x00,
	0x3b,
}

var tenByTen = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x0A, 0x00,
	0x0A, 0x00, 0x91, 0x00, 0x00, 0xFF, 0xFF, 0xFF,
	0xFF, 0x00, 0x00, 0x00, 0x00, 0xFF, 0x00, 0x00,
	0x00, 0x21, 0xF9, 0x04, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x2C, 0x00, 0x00, 0x00, 0x00, 0x0A, 0x00,
	0x0A, 0x00, 0x00, 0x02, 0x16, 0x8C, 0x2D, 0x99,
	0x87, 0x2A, 0x1C, 0xDC, 0x33, 0xA0, 0x02, 0x75,
	0xEC, 0x95, 0xFA, 0xA8, 0xDE, 0x60, 0x8C, 0x04,
	0x91, 0x4C, 0x01, 0x00, 0x3B,
}

var tenByTenIndices = []byte{
	1, 1, 1, 1, 1, 2, 2, 2, 2, 2,
	1, 1, 1, 1, 1, 2, 2, 2, 2, 2,
	1, 1, 1, 1, 1, 2, 2, 2, 2, 2,
	1, 1, 1, 0, 0, 0, 0, 2, 2, 2,
	1, 1, 1, 0, 0, 0, 0, 2, 2, 2,
	2, 2, 2, 0, 0, 0, 0, 1, 1, 1,
	2, 2, 2, 0, 0, 0, 0, 1, 1, 1,
	2, 2, 2, 2, 2, 1, 1, 1, 1, 1,
	2, 2, 2, 2, 2, 1, 1, 1, 1, 1,
	2, 2, 2, 2, 2, 1, 1, 1, 1, 1,
}

var (
	red    = color.RGBA{R: 0xff, A: 0xff}
	green  = color.RGBA{G: 0xff, A: 0xff}
	blue   = color.RGBA{B: 0xff, A: 0xff}
	white  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black  = color.RGBA{A: 0xff}
	yellow = color.RGBA{R: 0xff, G: 0xff, A: 0xff}
	none   = color.RGBA{}

	rgbw = color.Palette{red, green, blue, white}
)

func encodeBlocks(t *testing.T, blocks ...block.Block) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := block.NewWriter(&buf)
	for _, b := range blocks {
		require.NoError(t, w.Write(b))
	}
	require.NoError(t, w.Flush())
	return buf.Bytes()
}

func screen(w, h uint16, palette color.Palette) []block.Block {
	s := &block.LogicalScreenDescriptor{Width: w, Height: h}
	blocks := []block.Block{block.NewHeader(), s}
	if palette != nil {
		s.SetGlobalColorTable(len(palette))
		blocks = append(blocks, &block.GlobalColorTable{Palette: block.PaletteFromColors(palette)})
	}
	return blocks
}

func control(d block.DisposalMethod, transparent int) *block.GraphicControlExtension {
	g := &block.GraphicControlExtension{}
	g.SetDisposal(d)
	if transparent >= 0 {
		g.SetTransparent(byte(transparent))
	}
	return g
}

func imageBlocks(x, y, w, h uint16, indices ...byte) []block.Block {
	return []block.Block{
		&block.ImageDescriptor{Left: x, Top: y, Width: w, Height: h},
		block.NewImageData(4, indices),
	}
}

func document(parts ...[]block.Block) []block.Block {
	var all []block.Block
	for _, p := range parts {
		all = append(all, p...)
	}
	return append(all, &block.Trailer{})
}

func one(b block.Block) []block.Block {
	return []block.Block{b}
}

func collect(t *testing.T, steps *Steps, n int) []Step {
	t.Helper()
	var out []Step
	for i := 0; i < n; i++ {
		s, err := steps.Next()
		require.NoError(t, err, "step %d", i)
		out = append(out, s)
	}
	return out
}

func drain(steps *Steps) ([]Step, error) {
	var out []Step
	for {
		s, err := steps.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
}

func paletted(t *testing.T, s Step) *image.Paletted {
	t.Helper()
	p, ok := s.Paletted()
	require.True(t, ok, "step is %T", s.Image())
	return p
}

func rgba(t *testing.T, s Step) *image.RGBA {
	t.Helper()
	img, ok := s.Image().(*image.RGBA)
	require.True(t, ok, "step is %T", s.Image())
	return img
}

func indexedConfig() Config {
	cfg := DefaultConfig()
	cfg.Format = FormatIndexed
	return cfg
}
