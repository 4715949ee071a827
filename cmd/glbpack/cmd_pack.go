package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/skyline93/glbpack/internal/packer"
)

var cmdPack = &cobra.Command{
	Use:   "pack <input.gltf> <output.glb>",
	Short: "Pack a glTF document and its external buffer into a container",
	Long: `
The "pack" command reads the glTF document, loads the binary file referenced
by its first buffer (relative to the document's directory) and writes both as
one binary glTF container. The first buffer's uri is replaced by null and its
byteLength set to the size of the binary file.

Object-shaped "buffers" as written by some glTF 1.0 exporters are accepted,
the first member is used.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
	Args:              cobra.ExactArgs(2),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPack(cmd.OutOrStdout(), args[0], args[1])
	},
}

func init() {
	cmdRoot.AddCommand(cmdPack)
}

func runPack(out io.Writer, input, output string) error {
	res, err := packer.Run(input, output)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "Packed %s -> %s, %d bytes\n", res.Input, res.Output, res.Size)
	return err
}
