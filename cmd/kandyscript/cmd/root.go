package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "kandyscript",
	Short: "KandyScript interpreter",
	Long: `kandyscript is a Go implementation of the KandyScript scripting language.

KandyScript is a dynamically-typed scripting language with:
  - Optional type constraints on bindings (concrete, union, constant)
  - A reflective scope model exposing activation records as first-class
    Space values (Global, User, BuiltIn, Now, Prev, Private)
  - Classes with single inheritance and a host-provided standard library
    seeded onto the BuiltIn scope`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "kandy.yaml", "path to the project config file")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
