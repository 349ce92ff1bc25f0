package block

import (
	"bytes"
	"errors"
	"testing"

	"github.com/illusionman1212/gift/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAll(t *testing.T, blocks ...Block) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, b := range blocks {
		require.NoError(t, w.Write(b))
	}
	require.NoError(t, w.Flush())
	return buf.Bytes()
}

func TestSubBlockChunking(t *testing.T) {
	payload := make([]byte, 256)
	for i := range payload {
		payload[i] = byte(i)
	}

	out := appendSubBlocks(nil, payload)
	require.Len(t, out, 259)
	assert.Equal(t, byte(255), out[0])
	assert.Equal(t, payload[:255], out[1:256])
	assert.Equal(t, byte(1), out[256])
	assert.Equal(t, byte(255), out[257])
	assert.Equal(t, byte(0), out[258])

	assert.Equal(t, []byte{0}, appendSubBlocks(nil))
	assert.Equal(t, []byte{1, 'a', 0}, appendSubBlocks(nil, nil, []byte("a"), []byte{}))
}

func TestWriteTwoByTwo(t *testing.T) {
	screen := &LogicalScreenDescriptor{Width: 2, Height: 2, BackgroundIndex: 1}
	screen.SetGlobalColorTable(2)

	out := writeAll(t,
		NewHeader(),
		screen,
		&GlobalColorTable{Palette: Palette{{0, 0, 0}, {0xff, 0xff, 0xff}}},
		&ImageDescriptor{Width: 2, Height: 2},
		NewImageData(2, []byte{1, 0, 0, 1}),
		&Trailer{},
	)
	assert.Equal(t, twoByTwo, out)
}

func TestWriteReadRoundTrip(t *testing.T) {
	screen := &LogicalScreenDescriptor{Width: 3, Height: 2, BackgroundIndex: 2, AspectRatio: 49}
	screen.SetGlobalColorTable(4)

	gce := &GraphicControlExtension{Delay: 250}
	gce.SetDisposal(RestorePrevious)
	gce.SetTransparent(3)

	image := &ImageDescriptor{Left: 1, Top: 0, Width: 2, Height: 2}
	image.SetLocalColorTable(2)

	blocks := []Block{
		&Header{Version: Version87a},
		screen,
		&GlobalColorTable{Palette: Palette{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}, {4, 4, 4}}},
		NewLoopExtension(3),
		&CommentExtension{Comments: [][]byte{[]byte("made by hand")}},
		gce,
		&PlainTextExtension{
			Grid: TextGrid{Width: 8, Height: 8, CellWidth: 8, CellHeight: 8, Foreground: 1},
			Text: [][]byte{[]byte("x")},
		},
		&UnknownExtension{Label: 0x99, Data: [][]byte{{1, 2, 3}}},
		image,
		&LocalColorTable{Palette: Palette{{9, 9, 9}, {8, 8, 8}}},
		NewImageData(2, []byte{0, 1, 1, 0}),
		&Trailer{},
	}

	assert.Equal(t, blocks, readAll(t, writeAll(t, blocks...)))
}

func TestWriteLargeImageData(t *testing.T) {
	indices := make([]byte, 300*200)
	for i := range indices {
		indices[i] = byte(i * 7 % 251)
	}

	blocks := []Block{
		NewHeader(),
		&LogicalScreenDescriptor{Width: 300, Height: 200},
		&ImageDescriptor{Width: 300, Height: 200},
		NewImageData(256, indices),
		&Trailer{},
	}
	back := readAll(t, writeAll(t, blocks...))
	require.Len(t, back, 5)
	assert.Equal(t, byte(8), back[3].(*ImageData).MinCodeSize)
	assert.Equal(t, indices, back[3].(*ImageData).Indices)
}

func TestWriteErrors(t *testing.T) {
	t.Run("version", func(t *testing.T) {
		w := NewWriter(&bytes.Buffer{})
		err := w.Write(&Header{Version: [3]byte{'9', '9', 'a'}})
		assert.ErrorIs(t, err, oops.ErrUnsupportedVersion)
		assert.Equal(t, err, w.Write(&Trailer{}), "errors are sticky")
	})
	t.Run("table size", func(t *testing.T) {
		w := NewWriter(&bytes.Buffer{})
		err := w.Write(&GlobalColorTable{Palette: make(Palette, 300)})
		assert.ErrorIs(t, err, oops.ErrInvalidColorTableSize)
	})
	t.Run("index out of range", func(t *testing.T) {
		w := NewWriter(&bytes.Buffer{})
		err := w.Write(&ImageData{MinCodeSize: 2, Indices: []byte{0, 9}})
		assert.ErrorIs(t, err, oops.ErrLzwCodeOutOfRange)
	})
	t.Run("sink failure", func(t *testing.T) {
		boom := errors.New("pipe closed")
		w := NewWriter(failingWriter{boom})
		require.NoError(t, w.Write(&Trailer{}))
		err := w.Flush()
		assert.ErrorIs(t, err, oops.ErrIO)
		assert.ErrorIs(t, err, boom)
	})
}

type failingWriter struct {
	err error
}

func (f failingWriter) Write([]byte) (int, error) {
	return 0, f.err
}
