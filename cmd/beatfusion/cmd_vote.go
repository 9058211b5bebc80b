package main

import (
	"github.com/carbocation/ecgfusion"
	"github.com/carbocation/ecgfusion/ovo"
	"github.com/carbocation/ecgfusion/tabular"
	"github.com/spf13/cobra"
)

func newVoteCommand() *cobra.Command {
	var (
		decisions string
		policy    string
		out       string
		votesOut  string
		classes   int
		workers   int
		report    reportOptions
	)

	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Turn a one-vs-one decision matrix into class predictions",
		Long: `vote reads a decision matrix with one row per beat and one column per
class pair (0,1), (0,2), ..., (n-2,n-1), and predicts the class with the most
votes under the chosen policy (binary, sigmoid, margin or centered).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ovo.ParsePolicy(policy)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client, err := ecgfusion.NewStorageClientIfNeeded(ctx, decisions)
			if err != nil {
				return err
			}
			if client != nil {
				defer client.Close()
			}

			m, err := tabular.ReadMatrixFile(ctx, decisions, client)
			if err != nil {
				return err
			}

			res, err := ovo.VoteParallel(ctx, m, classes, p, workers)
			if err != nil {
				return err
			}
			log.Infow("Voted", "decisions", decisions, "instances", len(res.Predictions), "classes", classes, "policy", p.String())

			if err := writePredictions(cmd, out, res.Predictions); err != nil {
				return err
			}

			if votesOut != "" {
				if err := writeMatrix(cmd, votesOut, res.Votes); err != nil {
					return err
				}
			}

			return report.report(cmd, res.Predictions)
		},
	}

	cmd.Flags().StringVar(&decisions, "decisions", "", "Decision matrix (local, gs://, optionally compressed)")
	cmd.Flags().StringVar(&policy, "policy", ovo.Binary.String(), "Voting policy: "+ovo.PolicyNames())
	cmd.Flags().StringVar(&out, "out", "-", "Where to write predictions, one per line")
	cmd.Flags().StringVar(&votesOut, "votes", "", "Optional file for the per-class vote accumulator")
	cmd.Flags().IntVar(&classes, "classes", 4, "Number of classes")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel workers (0 = GOMAXPROCS)")
	cmd.MarkFlagRequired("decisions")
	report.register(cmd, "ovo")

	return cmd
}
