package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"consulta/internal/compositor"
)

var combineCmd = &cobra.Command{
	Use:   "combine <top.png> <bottom.png> <out.png>",
	Short: "Stack two PNG images of equal width",
	Args:  cobra.ExactArgs(3),
	RunE:  runCombine,
}

func runCombine(cmd *cobra.Command, args []string) error {
	if err := compositor.CombineFiles(args[2], args[0], args[1]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Saved %s\n", args[2])

	return nil
}
