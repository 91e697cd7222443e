package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"consulta/internal/pipeline"
)

// errJoinMismatch marks a check run with unmatched boundary names.
var errJoinMismatch = errors.New("boundary names without survey data")

var checkCmd = &cobra.Command{
	Use:   "check [dataset...]",
	Short: "Verify that every boundary matches a survey region",
	Long: `Loads and normalizes the named datasets, or every enabled dataset, and
lists boundary names the survey lacks and survey names no boundary uses.
Nothing is rendered.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	datasets, err := selectDatasets(cfg, args)
	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg.Theme, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	var errs []error

	for _, d := range datasets {
		res, err := p.Check(d)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if res.OK() {
			fmt.Fprintf(out, "✅ %s: %d features matched %d regions\n", res.Dataset, res.Features, res.Regions)
		} else {
			fmt.Fprintf(out, "❌ %s: %d of %d features unmatched: %s\n",
				res.Dataset, len(res.Unmatched), res.Features, strings.Join(res.Unmatched, ", "))
			errs = append(errs, fmt.Errorf("dataset %s: %w", res.Dataset, errJoinMismatch))
		}

		if len(res.Unused) > 0 {
			fmt.Fprintf(out, "⚠️  %s: survey regions without boundary: %s\n", res.Dataset, strings.Join(res.Unused, ", "))
		}
	}

	return errors.Join(errs...)
}
