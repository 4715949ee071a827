package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/skyline93/glbpack/internal/packer"
)

var cmdUnpack = &cobra.Command{
	Use:   "unpack <input.glb> <output.gltf>",
	Short: "Split a container into a glTF document and an external buffer",
	Long: `
The "unpack" command writes the JSON chunk of the container to the output
document and the binary chunk, without padding, to a .bin file with the same
name next to it. The first buffer's uri is set to that file.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
	Args:              cobra.ExactArgs(2),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUnpack(cmd.OutOrStdout(), args[0], args[1])
	},
}

func init() {
	cmdRoot.AddCommand(cmdUnpack)
}

func runUnpack(out io.Writer, input, output string) error {
	res, err := packer.Unpack(input, output)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "Unpacked %s -> %s + %s, %d bytes\n",
		res.Input, res.Output, packer.BinaryPath(res.Output), res.Size+res.ByteLength)
	return err
}
