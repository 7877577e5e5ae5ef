package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bilbywilby/IASIP-gifs/pkg/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("gifdex %s\n", buildinfo.Version())
		if mv := buildinfo.ModuleVersion(); mv != "" {
			cmd.Printf("module %s\n", mv)
		}
	},
}
