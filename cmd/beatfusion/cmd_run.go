package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/carbocation/ecgfusion/experiment"
	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every stage of a YAML experiment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := experiment.ParseConfigFromPath(configPath)
			if err != nil {
				return err
			}
			log.Infow("Loaded experiment", "config", cfg.ConfigPath, "name", cfg.Name, "models", len(cfg.Models))

			res, err := experiment.Run(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "kind\tname\tIjk\tIj\tkappa\taccuracy")
			for _, o := range res.Outcomes {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\t%s\t%.4f\n",
					o.Kind, o.Name,
					nullString(o.Measures.Ijk.Valid, o.Measures.Ijk.Float64),
					o.Measures.Ij,
					nullString(o.Measures.Kappa.Valid, o.Measures.Kappa.Float64),
					o.Measures.OverallAccuracy)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Experiment YAML file")
	cmd.MarkFlagRequired("config")

	return cmd
}

func nullString(valid bool, v float64) string {
	if !valid {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", v)
}
