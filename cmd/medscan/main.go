// Command medscan analyzes medical images from the terminal, streaming model
// output as it arrives.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "medscan",
		Short:        "Analyze medical images with a local vision model",
		SilenceUsage: true,
	}

	root.AddCommand(newAnalyzeCommand())
	root.AddCommand(newCategoriesCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}
