package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fcolor "github.com/fatih/color"
	"github.com/illusionman1212/gift"
	"github.com/illusionman1212/gift/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
	blue  = color.RGBA{B: 0xff, A: 0xff}
)

func animation(t *testing.T) []byte {
	t.Helper()
	palette := color.Palette{red, green, blue}

	first := image.NewPaletted(image.Rect(0, 0, 2, 2), palette)
	second := image.NewPaletted(image.Rect(0, 0, 2, 2), palette)
	for i := range second.Pix {
		second.Pix[i] = 1
	}
	second.Pix[3] = 2

	var buf bytes.Buffer
	enc := gift.NewEncoder(&buf).Steps()
	require.NoError(t, enc.SetLoopCount(0))
	require.NoError(t, enc.Encode(gift.NewStep(first).WithDelayCentiseconds(10)))
	require.NoError(t, enc.Encode(gift.NewStep(second).WithDelayCentiseconds(20).WithDisposal(block.RestoreBackground)))
	require.NoError(t, enc.Close())
	return buf.Bytes()
}

func TestExtractFrames(t *testing.T) {
	dir := t.TempDir()
	n, err := extractFrames(bytes.NewReader(animation(t)), dir, "anim", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := os.Open(filepath.Join(dir, "anim-2.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 6, 6), img.Bounds())
	assert.Equal(t, green, color.RGBAModel.Convert(img.At(0, 0)))
	assert.Equal(t, blue, color.RGBAModel.Convert(img.At(5, 5)))
	assert.Equal(t, blue, color.RGBAModel.Convert(img.At(3, 3)))

	_, err = os.Stat(filepath.Join(dir, "anim-3.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractRejectsScale(t *testing.T) {
	_, err := extractFrames(bytes.NewReader(animation(t)), t.TempDir(), "anim", 0)
	assert.Error(t, err)
}

func TestListBlocks(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, listBlocks(&out, bytes.NewReader(animation(t))))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "header GIF89a", lines[0])
	assert.Equal(t, "screen 2x2 background=0 aspect=0 global-table=4", lines[1])
	assert.Equal(t, "global color table (4 colors)", lines[2])
	assert.Equal(t, `application "NETSCAPE2.0" (3 bytes) loop=0`, lines[3])
	assert.Equal(t, "graphic control disposal=none delay=10cs", lines[4])
	assert.Equal(t, "image 2x2 at 0,0", lines[5])
	assert.Equal(t, "image data min-code-size=2 pixels=4", lines[6])
	assert.Equal(t, "graphic control disposal=background delay=20cs", lines[7])
	assert.Equal(t, "trailer", lines[10])
}

func TestShowSummary(t *testing.T) {
	fcolor.NoColor = true
	var out bytes.Buffer
	require.NoError(t, showSummary(&out, bytes.NewReader(animation(t))))

	s := out.String()
	assert.Contains(t, s, "Version:    GIF89a")
	assert.Contains(t, s, "Screen:     2x2")
	assert.Contains(t, s, "Loop:       forever")
	assert.Regexp(t, `(?m)^2\s+2x2\s+0,0\s+200ms\s+background\s+4\s+-$`, s)
}

func TestPrintPalettes(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printPalettes(&out, bytes.NewReader(animation(t))))

	s := out.String()
	assert.True(t, strings.HasPrefix(s, "global color table:\n"))
	assert.Contains(t, s, "hsl(0, 100%, 50%)")
	assert.Contains(t, s, "hsl(120, 100%, 50%)")
	assert.NotContains(t, s, "local color table")
}
