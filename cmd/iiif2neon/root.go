package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for iiif2neon.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iiif2neon",
		Short: "Convert IIIF manifests into Neon annotation manifests",
		Long: `iiif2neon converts a IIIF Presentation API 2 manifest into a Neon manifest.

Every canvas of the manifest's first sequence becomes one annotation whose
body is a placeholder MEI 4.0.0 document sized to the canvas, encoded as a
data URI. The result can be opened in Neon to start transcribing.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewConvertCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
