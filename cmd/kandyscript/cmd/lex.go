package cmd

import (
	"fmt"
	"os"

	"github.com/kyouko8/kandyscript/internal/lexer"
	"github.com/kyouko8/kandyscript/pkg/token"
	"github.com/spf13/cobra"
)

var (
	lexEvalExpr  string
	lexShowPos   bool
	lexShowType  bool
	lexOnlyErrs  bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a KandyScript file or expression",
	Long: `Tokenize (lex) a KandyScript program and print the resulting tokens.

Examples:
  # Tokenize a script file
  kandyscript lex script.ks

  # Tokenize an inline expression
  kandyscript lex -e "x := 42"

  # Show token types and positions
  kandyscript lex --show-type --show-pos script.ks`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexShowType, "show-type", false, "show token kind names")
	lexCmd.Flags().BoolVar(&lexOnlyErrs, "only-errors", false, "show only illegal tokens")
}

func lexScript(_ *cobra.Command, args []string) error {
	input, _, err := resolveInput(lexEvalExpr, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	errorCount := 0
	for {
		tok, err := l.NextToken()
		if err != nil {
			errorCount++
			fmt.Printf("⚠️  ILLEGAL: %s\n", err)
			continue
		}
		if lexOnlyErrs {
			if tok.Kind == token.EOF {
				break
			}
			continue
		}
		printToken(tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("found %d illegal token(s)", errorCount)
	}
	return nil
}

func printToken(tok token.Token) {
	var out string
	if lexShowType {
		out = fmt.Sprintf("[%-14s]", tok.Kind)
	}
	if tok.Kind == token.EOF {
		out += " EOF"
	} else if tok.Literal == "" {
		out += fmt.Sprintf(" %s", tok.Kind)
	} else {
		out += fmt.Sprintf(" %q", tok.Literal)
	}
	if lexShowPos {
		out += fmt.Sprintf(" @%s", tok.Pos)
	}
	fmt.Println(out)
}

func resolveInput(evalExpr string, args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}
