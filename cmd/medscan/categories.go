package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vantrel/medscan/internal/inference"
)

func newCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the supported analysis categories",
		Run: func(cmd *cobra.Command, args []string) {
			name := color.New(color.FgGreen)
			for _, category := range inference.Categories() {
				name.Fprintf(cmd.OutOrStdout(), "%-28s", category)
				fmt.Fprintln(cmd.OutOrStdout(), category.Prompt())
			}
		},
	}
}
