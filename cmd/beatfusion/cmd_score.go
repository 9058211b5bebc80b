package main

import (
	"github.com/carbocation/ecgfusion"
	"github.com/carbocation/ecgfusion/tabular"
	"github.com/spf13/cobra"
)

func newScoreCommand() *cobra.Command {
	var (
		predictions string
		report      reportOptions
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a prediction file against AAMI labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := ecgfusion.NewStorageClientIfNeeded(ctx, predictions)
			if err != nil {
				return err
			}
			if client != nil {
				defer client.Close()
			}

			preds, err := tabular.ReadLabelsFile(ctx, predictions, client)
			if err != nil {
				return err
			}

			return report.report(cmd, preds)
		},
	}

	cmd.Flags().StringVar(&predictions, "predictions", "", "Prediction file, one class per line")
	cmd.MarkFlagRequired("predictions")
	report.register(cmd, "predictions")
	cmd.MarkFlagRequired("labels")

	return cmd
}
