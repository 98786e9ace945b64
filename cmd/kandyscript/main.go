package main

import (
	"fmt"
	"os"

	"github.com/kyouko8/kandyscript/cmd/kandyscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
