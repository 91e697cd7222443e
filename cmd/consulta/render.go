package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"consulta/internal/pipeline"
)

var renderCmd = &cobra.Command{
	Use:   "render [dataset...]",
	Short: "Render maps, tables and reports",
	Long:  `Runs the full pipeline for the named datasets, or for every enabled dataset.`,
	RunE:  runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
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

	var errs []error

	for _, d := range datasets {
		res, err := p.Run(d)
		if err != nil {
			log.Error("Dataset failed", "error", err)
			errs = append(errs, err)

			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s: %d regions\n", res.Dataset, res.Regions)

		for _, f := range res.Files {
			fmt.Fprintf(cmd.OutOrStdout(), "   %s\n", f)
		}
	}

	return errors.Join(errs...)
}
