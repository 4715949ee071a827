package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skyline93/glbpack/internal/debug"
)

var version = "0.1.0"

// cmdRoot is the base command when no other command has been specified.
var cmdRoot = &cobra.Command{
	Use:   "glbpack",
	Short: "Pack glTF assets into binary glTF containers",
	Long: `
glbpack merges a glTF 2.0 JSON document and the external binary buffer it
refers to into a single binary glTF (.glb) container, and splits such
containers again.
`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return debug.Setup(cmd.ErrOrStderr(), globalOptions.LogLevel)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(0)
	},
}

// GlobalOptions hold all global options for glbpack.
type GlobalOptions struct {
	LogLevel string
}

var globalOptions GlobalOptions

func init() {
	f := cmdRoot.PersistentFlags()
	f.StringVar(&globalOptions.LogLevel, "log-level", debug.LevelFromEnv(), "diagnostic log `level` (default: $"+debug.EnvLevel+" or "+debug.DefaultLevel+")")
}

func main() {
	if err := cmdRoot.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(1)
	}
}
