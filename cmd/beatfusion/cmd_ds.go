package main

import (
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/ecgfusion"
	"github.com/carbocation/ecgfusion/dempster"
	"github.com/carbocation/ecgfusion/tabular"
	"github.com/spf13/cobra"
)

func newDSCommand() *cobra.Command {
	var (
		evidence     []string
		out          string
		skipConflict bool
		hist         bool
		bins         int
		workers      int
		report       reportOptions
	)

	cmd := &cobra.Command{
		Use:   "ds",
		Short: "Combine per-beat evidence with Dempster's rule",
		Long: `ds reads one N,S,V,F evidence table per modality, combines the
modalities beat by beat with Dempster's conjunctive rule, and predicts the
class with the highest pignistic probability.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := ecgfusion.NewStorageClientIfNeeded(ctx, evidence...)
			if err != nil {
				return err
			}
			if client != nil {
				defer client.Close()
			}

			modalities := make([][]dempster.MassFunction, 0, len(evidence))
			for _, path := range evidence {
				rows, err := tabular.ReadEvidenceFile(ctx, path, client)
				if err != nil {
					return err
				}

				ms, err := dempster.FromRows(tabular.EvidenceValues(rows))
				if err != nil {
					return err
				}
				modalities = append(modalities, ms)
			}

			batch, err := dempster.FuseBatch(ctx, modalities, dempster.Options{
				SkipConflict: skipConflict,
				Workers:      workers,
			})
			if err != nil {
				return err
			}

			stats := dempster.ConflictStats(batch.Conflict)
			log.Infow("Combined evidence",
				"modalities", len(modalities),
				"instances", len(batch.Decisions),
				"mean_conflict", stats.Mean,
				"sd_conflict", stats.SD,
				"max_conflict", stats.Max,
				"total_conflict", stats.Total,
				"skipped", batch.Skipped)

			if err := writePredictions(cmd, out, batch.Decisions); err != nil {
				return err
			}

			if hist && len(batch.Conflict) > 0 {
				if err := printConflictHistogram(cmd.ErrOrStderr(), batch.Conflict, bins); err != nil {
					return err
				}
			}

			return report.report(cmd, batch.Decisions)
		},
	}

	cmd.Flags().StringArrayVar(&evidence, "evidence", nil, "Evidence table of one modality (repeat for each)")
	cmd.Flags().StringVar(&out, "out", "-", "Where to write predictions, one per line (-1 marks a skipped beat)")
	cmd.Flags().BoolVar(&skipConflict, "skip-conflict", false, "Mark totally conflicting beats -1 instead of failing")
	cmd.Flags().BoolVar(&hist, "histogram", false, "Print a histogram of the per-beat conflict to stderr")
	cmd.Flags().IntVar(&bins, "bins", 20, "Histogram bins")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel workers (0 = GOMAXPROCS)")
	cmd.MarkFlagRequired("evidence")
	report.register(cmd, "DS_rule")

	return cmd
}

func printConflictHistogram(w io.Writer, conflict []float64, bins int) error {
	if bins < 1 {
		bins = 1
	}

	io.WriteString(w, "Conflict mass per beat:\n")
	return histogram.Fprint(w, histogram.Hist(bins, conflict), histogram.Linear(5))
}
