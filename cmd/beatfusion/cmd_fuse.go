package main

import (
	"fmt"

	"github.com/carbocation/ecgfusion"
	"github.com/carbocation/ecgfusion/fusion"
	"github.com/carbocation/ecgfusion/ovo"
	"github.com/carbocation/ecgfusion/tabular"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

func newFuseCommand() *cobra.Command {
	var (
		decisions []string
		rule      string
		out       string
		classes   int
		workers   int
		report    reportOptions
	)

	cmd := &cobra.Command{
		Use:   "fuse",
		Short: "Combine several one-vs-one classifiers with a basic rule",
		Long: `fuse votes on each decision matrix with sigmoid weighting, scales each
vote accumulator by the number of class pairs, and combines them with the
product, sum, min, max or rank rule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := fusion.ParseRule(rule)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client, err := ecgfusion.NewStorageClientIfNeeded(ctx, decisions...)
			if err != nil {
				return err
			}
			if client != nil {
				defer client.Close()
			}

			ensemble := make([]mat.Matrix, 0, len(decisions))
			for _, path := range decisions {
				m, err := tabular.ReadMatrixFile(ctx, path, client)
				if err != nil {
					return err
				}

				res, err := ovo.VoteParallel(ctx, m, classes, ovo.Sigmoid, workers)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				ensemble = append(ensemble, fusion.Scale(res.Votes, 1/float64(ovo.NumPairs(classes))))
			}

			res, err := fusion.Combine(ensemble, r)
			if err != nil {
				return err
			}
			log.Infow("Fused", "members", len(ensemble), "rule", r.String(), "instances", len(res.Predictions))

			if err := writePredictions(cmd, out, res.Predictions); err != nil {
				return err
			}

			return report.report(cmd, res.Predictions)
		},
	}

	cmd.Flags().StringArrayVar(&decisions, "decisions", nil, "Decision matrix of one ensemble member (repeat for each)")
	cmd.Flags().StringVar(&rule, "rule", fusion.Sum.String(), "Combination rule: "+fusion.RuleNames())
	cmd.Flags().StringVar(&out, "out", "-", "Where to write predictions, one per line")
	cmd.Flags().IntVar(&classes, "classes", 4, "Number of classes")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel workers (0 = GOMAXPROCS)")
	cmd.MarkFlagRequired("decisions")
	report.register(cmd, "fusion")

	return cmd
}
