package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/illusionman1212/gift"
	"github.com/illusionman1212/gift/logging"
	"github.com/spf13/cobra"
)

func init() {
	showCommand := &cobra.Command{
		Use:   "show [file]",
		Short: "Summarize a GIF file and its images",
		Run: func(cmd *cobra.Command, args []string) {
			f, ok := requireFile(cmd, args)
			if !ok {
				os.Exit(1)
			}
			defer f.Close()

			if err := showSummary(os.Stdout, f); err != nil {
				logging.Error().Err(err).Msg("failed to read gif")
				os.Exit(1)
			}
		},
	}
	RootCommand.AddCommand(showCommand)
}

func showSummary(out io.Writer, r io.Reader) error {
	frames := gift.NewDecoder(r, gift.DefaultConfig()).Frames()
	p, err := frames.Preamble()
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	field := func(name, format string, args ...interface{}) {
		fmt.Fprintf(out, "%s %s\n", cyan(fmt.Sprintf("%-11s", name+":")), fmt.Sprintf(format, args...))
	}

	field("Version", "%s", p.Header)
	field("Screen", "%dx%d", p.Width(), p.Height())
	if global := p.GlobalPalette(); global != nil {
		field("Colors", "%d (background %d)", len(global), p.Screen.BackgroundIndex)
	} else {
		field("Colors", "no global color table")
	}
	if count, ok := p.LoopCount(); ok {
		if count == 0 {
			field("Loop", "forever")
		} else {
			field("Loop", "%d extra passes", count)
		}
	}
	for _, c := range p.Comments {
		for _, chunk := range c.Comments {
			field("Comment", "%s", chunk)
		}
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSIZE\tOFFSET\tDELAY\tDISPOSAL\tCOLORS\tTRANSPARENT")
	for i := 1; ; i++ {
		frame, err := frames.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			tw.Flush()
			return err
		}

		d := frame.Descriptor
		delay, disposal, transparent := "-", "-", "-"
		if g := frame.GraphicControl; g != nil {
			delay = fmt.Sprintf("%dms", int(g.Delay)*10)
			disposal = g.Disposal().String()
			if idx, ok := g.Transparent(); ok {
				transparent = fmt.Sprint(idx)
			}
		}
		colors := fmt.Sprintf("%d", len(frame.Palette(p.GlobalPalette())))
		if frame.LocalColorTable != nil {
			colors += " (local)"
		}
		fmt.Fprintf(tw, "%d\t%dx%d\t%d,%d\t%s\t%s\t%s\t%s\n",
			i, d.Width, d.Height, d.Left, d.Top, delay, disposal, colors, transparent)
	}
	return tw.Flush()
}
