package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/illusionman1212/gift"
	"github.com/illusionman1212/gift/logging"
	"github.com/illusionman1212/gift/oops"
	"github.com/spf13/cobra"
	"golang.org/x/image/draw"
)

func init() {
	var outDir string
	var scale int

	extractCommand := &cobra.Command{
		Use:   "extract [file]",
		Short: "Write every composited frame of a GIF as a PNG file",
		Long: `Extract composites each image of the GIF onto the logical screen, applying
disposal and transparency, and writes the result of every step to
DIR/NAME-N.png. DIR defaults to the file name without its extension.`,
		Run: func(cmd *cobra.Command, args []string) {
			f, ok := requireFile(cmd, args)
			if !ok {
				os.Exit(1)
			}
			defer f.Close()

			name := strings.TrimSuffix(filepath.Base(f.Name()), filepath.Ext(f.Name()))
			dir := outDir
			if dir == "" {
				dir = name
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				logging.Error().Err(err).Str("dir", dir).Msg("failed to create output directory")
				os.Exit(1)
			}

			logging.Info().Str("file", f.Name()).Str("dir", dir).Msg("Beginning extraction of gif frames")
			n, err := extractFrames(f, dir, name, scale)
			if err != nil {
				logging.Error().Err(err).Int("written", n).Msg("extraction failed")
				os.Exit(1)
			}
			fmt.Printf("Extracted %d frames from gif successfully!\n", n)
		},
	}
	extractCommand.Flags().StringVarP(&outDir, "output", "o", "", "output directory")
	extractCommand.Flags().IntVar(&scale, "scale", 1, "integer upscaling factor (nearest neighbor)")
	RootCommand.AddCommand(extractCommand)
}

// extractFrames writes dir/name-N.png for each step, numbered from 1, and
// returns the number of files written.
func extractFrames(r io.Reader, dir, name string, scale int) (int, error) {
	if scale < 1 {
		return 0, oops.New(nil, "scale must be at least 1, got %d", scale)
	}

	steps := gift.NewDecoder(r, gift.DefaultConfig()).Steps()
	p, err := steps.Preamble()
	if err != nil {
		return 0, err
	}
	logging.Debug().
		Str("version", p.Header.String()).
		Int("width", p.Width()).
		Int("height", p.Height()).
		Msg("read preamble")

	counter := 0
	for {
		step, err := steps.Next()
		if err == io.EOF {
			return counter, nil
		}
		if err != nil {
			return counter, err
		}
		counter++

		img := step.Image()
		if scale > 1 {
			img = upscale(img, scale)
		}
		fileName := filepath.Join(dir, fmt.Sprintf("%s-%v.png", name, counter))
		if err := writePNG(fileName, img); err != nil {
			return counter - 1, err
		}
		logging.Debug().
			Str("file", fileName).
			Stringer("disposal", step.Disposal()).
			Dur("delay", step.Delay()).
			Msg("wrote frame")
	}
}

func upscale(src image.Image, scale int) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func writePNG(fileName string, img image.Image) error {
	f, err := os.Create(fileName)
	if err != nil {
		return oops.IO(err, "creating %s", fileName)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return oops.IO(err, "encoding %s", fileName)
	}
	if err := f.Close(); err != nil {
		return oops.IO(err, "closing %s", fileName)
	}
	return nil
}
