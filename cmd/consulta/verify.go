package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"consulta/pkg/metadata"
)

var verifySource string

var verifyCmd = &cobra.Command{
	Use:   "verify <report.md>",
	Short: "Check a report's provenance block",
	Long: `Recomputes the hash of a generated report and compares it with its
metadata block. With --source, also checks that the survey file still
matches the hash recorded at signing time.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifySource, "source", "", "Survey file the report was built from")
}

func runVerify(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}

	meta, err := metadata.Verify(string(content))
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if verifySource != "" {
		if err := metadata.VerifySource(meta, verifySource); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ %s: dataset %s signed %s (validated: %t)\n",
		args[0], meta.Dataset, meta.LastModify.Format("2006-01-02 15:04"), meta.Validation)

	return nil
}
