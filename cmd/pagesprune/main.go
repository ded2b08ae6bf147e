package main

import (
	"fmt"
	"os"

	"github.com/ameistad/pagesprune/internal/pagesprune"
)

func main() {
	rootCmd := pagesprune.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print error once, then exit
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
