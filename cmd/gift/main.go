package main

import (
	"fmt"
	"os"

	"github.com/illusionman1212/gift/logging"
	"github.com/spf13/cobra"
)

var logLevel string

var RootCommand = &cobra.Command{
	Use:   "gift",
	Short: "Inspect and extract GIF files",
	Long: `gift reads GIF87a and GIF89a files. It can list their blocks, summarize
their images, print their color tables and extract composited frames as PNG.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.SetLevel(logLevel); err != nil {
			return err
		}
		logging.InstallGlobals()
		return nil
	},
	SilenceUsage: true,
}

func init() {
	RootCommand.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel.String(), "log level (trace, debug, info, warn, error)")
}

// requireFile is shared by every command that takes a single GIF path.
func requireFile(cmd *cobra.Command, args []string) (*os.File, bool) {
	if len(args) < 1 {
		fmt.Printf("You must provide a GIF file.\n\n")
		cmd.Usage()
		return nil, false
	}
	f, err := os.Open(args[0])
	if err != nil {
		logging.Error().Err(err).Str("path", args[0]).Msg("failed to open file")
		return nil, false
	}
	return f, true
}

func main() {
	if err := RootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
