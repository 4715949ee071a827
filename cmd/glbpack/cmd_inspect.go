package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/skyline93/glbpack/internal/packer"
)

var cmdInspect = &cobra.Command{
	Use:   "inspect <input.glb>",
	Short: "Show the header and chunks of a container",
	Long: `
The "inspect" command decodes a binary glTF container and prints its version,
total length, a summary of the glTF asset and, for every chunk, type, offset, length and SHA-256 digest.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
	Args:              cobra.ExactArgs(1),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	cmdRoot.AddCommand(cmdInspect)
}

func runInspect(out io.Writer, input string) error {
	info, err := packer.Inspect(input)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: glTF version %d, %d bytes\n", info.Path, info.Version, info.Length)
	if a := info.Asset; a != nil {
		fmt.Fprintf(out, "  asset %s (%s): %d buffers, %d meshes, %d nodes\n",
			a.Version, a.Generator, a.Buffers, a.Meshes, a.Nodes)
	}
	for _, c := range info.Chunks {
		fmt.Fprintf(out, "  %-4s  offset %8d  length %8d  sha256 %s\n", c.Type, c.Offset, c.Length, c.SHA256)
	}
	return nil
}
