package main

import (
	"github.com/carbocation/ecgfusion/experiment"
	"github.com/carbocation/ecgfusion/resultstore"
	"github.com/spf13/cobra"
)

func newSummarizeCommand() *cobra.Command {
	var (
		storePath string
		name      string
	)

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize the Ijk of stored runs",
		Long: `summarize reads the result store and prints, per experiment and method,
the number of runs and the mean, median, max and standard deviation of Ijk
as a tab-delimited table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := resultstore.Open(storePath)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), name)
			if err != nil {
				return err
			}
			log.Infow("Loaded records", "store", storePath, "experiment", name, "records", len(records))

			rows, err := experiment.Summarize(records)
			if err != nil {
				return err
			}

			return experiment.WriteSummary(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVar(&storePath, "store", "", "Result store (sqlite)")
	cmd.Flags().StringVar(&name, "experiment", "", "Only this experiment (default: all)")
	cmd.MarkFlagRequired("store")

	return cmd
}
