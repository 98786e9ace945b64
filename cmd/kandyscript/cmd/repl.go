package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/kyouko8/kandyscript/internal/config"
	"github.com/kyouko8/kandyscript/internal/runtime"
	"github.com/kyouko8/kandyscript/pkg/kandyscript"
	"github.com/spf13/cobra"
)

const (
	replPrompt = "Kandy >> "
	replEnd    = "$end"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive KandyScript console",
	Long: `Read lines from stdin, evaluate each one against a persistent
interpreter, and print the value of any non-None result. Enter "` + replEnd + `"
to exit.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", configPath, err)
	}

	interp := kandyscript.NewFromConfig("<repl>", cfg, func(s string) { fmt.Print(s) })

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(replPrompt)
		if !scanner.Scan() {
			fmt.Println()
			return nil
		}
		line := scanner.Text()
		if line == replEnd {
			return nil
		}
		if line == "" {
			continue
		}

		result, err := interp.ReplStep(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, kandyscript.FormatError(err, line, "<repl>", true))
			continue
		}
		if _, isNone := result.(runtime.NoneType); !isNone {
			fmt.Println(kandyscript.Repr(result))
		}
	}
}
