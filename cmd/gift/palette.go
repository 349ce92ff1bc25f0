package main

import (
	"fmt"
	"io"
	"os"

	"github.com/illusionman1212/gift"
	"github.com/illusionman1212/gift/block"
	"github.com/illusionman1212/gift/logging"
	"github.com/spf13/cobra"
	"github.com/teacat/noire"
)

func init() {
	paletteCommand := &cobra.Command{
		Use:   "palette [file]",
		Short: "Print the color tables of a GIF file",
		Run: func(cmd *cobra.Command, args []string) {
			f, ok := requireFile(cmd, args)
			if !ok {
				os.Exit(1)
			}
			defer f.Close()

			if err := printPalettes(os.Stdout, f); err != nil {
				logging.Error().Err(err).Msg("failed to read color tables")
				os.Exit(1)
			}
		},
	}
	RootCommand.AddCommand(paletteCommand)
}

func printPalettes(out io.Writer, r io.Reader) error {
	blocks := gift.NewDecoder(r, gift.DefaultConfig()).Blocks()
	images := 0
	for {
		b, err := blocks.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch b := b.(type) {
		case *block.GlobalColorTable:
			fmt.Fprintf(out, "global color table:\n")
			printPalette(out, b.Palette)
		case *block.ImageDescriptor:
			images++
		case *block.LocalColorTable:
			fmt.Fprintf(out, "local color table of image %d:\n", images)
			printPalette(out, b.Palette)
		}
	}
}

func printPalette(out io.Writer, p block.Palette) {
	for i, c := range p {
		hex, h, s, l := describeColor(c)
		fmt.Fprintf(out, "  %3d  %s  hsl(%.0f, %.0f%%, %.0f%%)\n", i, hex, h, s, l)
	}
}

func describeColor(c block.RGB) (string, float64, float64, float64) {
	color := noire.NewHex(fmt.Sprintf("%02x%02x%02x", c.Red, c.Green, c.Blue))
	h, s, l, _ := color.HSLA()
	return color.HTML(), h, s, l
}
