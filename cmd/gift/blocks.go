package main

import (
	"fmt"
	"io"
	"os"

	"github.com/illusionman1212/gift"
	"github.com/illusionman1212/gift/block"
	"github.com/illusionman1212/gift/logging"
	"github.com/spf13/cobra"
)

func init() {
	blocksCommand := &cobra.Command{
		Use:   "blocks [file]",
		Short: "List the raw blocks of a GIF file",
		Run: func(cmd *cobra.Command, args []string) {
			f, ok := requireFile(cmd, args)
			if !ok {
				os.Exit(1)
			}
			defer f.Close()

			if err := listBlocks(os.Stdout, f); err != nil {
				logging.Error().Err(err).Msg("failed to read blocks")
				os.Exit(1)
			}
		},
	}
	RootCommand.AddCommand(blocksCommand)
}

func listBlocks(out io.Writer, r io.Reader) error {
	blocks := gift.NewDecoder(r, gift.DefaultConfig()).Blocks()
	for {
		b, err := blocks.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, describeBlock(b))
	}
}

func describeBlock(b block.Block) string {
	switch b := b.(type) {
	case *block.Header:
		return fmt.Sprintf("header %s", b)
	case *block.LogicalScreenDescriptor:
		s := fmt.Sprintf("screen %dx%d background=%d aspect=%d", b.Width, b.Height, b.BackgroundIndex, b.AspectRatio)
		if b.HasGlobalColorTable() {
			s += fmt.Sprintf(" global-table=%d", b.GlobalColorTableLen())
		}
		return s
	case *block.GlobalColorTable:
		return fmt.Sprintf("global color table (%d colors)", len(b.Palette))
	case *block.GraphicControlExtension:
		s := fmt.Sprintf("graphic control disposal=%s delay=%dcs", b.Disposal(), b.Delay)
		if idx, ok := b.Transparent(); ok {
			s += fmt.Sprintf(" transparent=%d", idx)
		}
		if b.UserInput() {
			s += " user-input"
		}
		return s
	case *block.CommentExtension:
		return fmt.Sprintf("comment (%d bytes)", chunkLen(b.Comments))
	case *block.ApplicationExtension:
		s := fmt.Sprintf("application %q (%d bytes)", b.Identifier(), chunkLen(b.Data))
		if count, ok := b.LoopCount(); ok {
			s += fmt.Sprintf(" loop=%d", count)
		}
		return s
	case *block.PlainTextExtension:
		return fmt.Sprintf("plain text %dx%d at %d,%d (%d bytes)", b.Grid.Width, b.Grid.Height, b.Grid.Left, b.Grid.Top, chunkLen(b.Text))
	case *block.UnknownExtension:
		return fmt.Sprintf("extension 0x%02x (%d bytes)", b.Label, chunkLen(b.Data))
	case *block.ImageDescriptor:
		s := fmt.Sprintf("image %dx%d at %d,%d", b.Width, b.Height, b.Left, b.Top)
		if b.HasLocalColorTable() {
			s += fmt.Sprintf(" local-table=%d", b.LocalColorTableLen())
		}
		if b.Interlaced() {
			s += " interlaced"
		}
		return s
	case *block.LocalColorTable:
		return fmt.Sprintf("local color table (%d colors)", len(b.Palette))
	case *block.ImageData:
		return fmt.Sprintf("image data min-code-size=%d pixels=%d", b.MinCodeSize, len(b.Indices))
	case *block.Trailer:
		return "trailer"
	}
	return fmt.Sprintf("%T", b)
}

func chunkLen(chunks [][]byte) int {
	n := 0
	for _, c := range chunks {
		n += len(c)
	}
	return n
}
