package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kyouko8/kandyscript/internal/config"
	"github.com/kyouko8/kandyscript/pkg/kandyscript"
	"github.com/spf13/cobra"
)

var (
	runEvalExpr string
	runTrace    bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a KandyScript file or expression",
	Long: `Execute a KandyScript program from a file or inline expression.

Examples:
  # Run a script file
  kandyscript run script.ks

  # Evaluate an inline expression
  kandyscript run -e "print('Hello, World!')"

  # Run with execution trace
  kandyscript run --trace script.ks`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEvalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "trace execution (for debugging)")
}

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := resolveInput(runEvalExpr, args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", configPath, err)
	}
	if filename != "<eval>" {
		dir := filepath.Dir(filename)
		cfg.LibraryPath = append([]string{dir}, cfg.LibraryPath...)
	}

	if runTrace {
		fmt.Fprintf(os.Stderr, "[Trace mode enabled - executing %s]\n", filename)
	}

	interp := kandyscript.NewFromConfig(filename, cfg, func(s string) { fmt.Print(s) })

	result, err := interp.Interpret(input)
	if err != nil {
		fmt.Fprint(os.Stderr, kandyscript.FormatError(err, input, filename, true))
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("execution failed")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Result: %s\n", kandyscript.Repr(result))
	}

	return nil
}
