package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/carbocation/ecgfusion"
	"github.com/carbocation/ecgfusion/aami"
	"github.com/carbocation/ecgfusion/tabular"
	"github.com/carbocation/pfx"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

// withOutput runs fill against the named file, or the command's stdout when
// path is empty or "-".
func withOutput(cmd *cobra.Command, path string, fill func(io.Writer) error) error {
	if path == "" || path == "-" {
		return fill(cmd.OutOrStdout())
	}

	f, err := os.Create(ecgfusion.ExpandHome(path))
	if err != nil {
		return pfx.Err(err)
	}

	if err := fill(f); err != nil {
		f.Close()
		return err
	}

	return pfx.Err(f.Close())
}

func writePredictions(cmd *cobra.Command, path string, predictions []int) error {
	return withOutput(cmd, path, func(w io.Writer) error {
		return tabular.WritePredictions(w, predictions)
	})
}

// writeMatrix writes m tab-delimited, one row per line.
func writeMatrix(cmd *cobra.Command, path string, m mat.Matrix) error {
	return withOutput(cmd, path, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		r, c := m.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if j > 0 {
					bw.WriteByte('\t')
				}
				bw.WriteString(strconv.FormatFloat(m.At(i, j), 'g', -1, 64))
			}
			bw.WriteByte('\n')
		}
		return bw.Flush()
	})
}

// reportOptions are the flags shared by every command that can score its
// predictions.
type reportOptions struct {
	labels    string
	json      bool
	reportDir string
	prefix    string
}

func (o *reportOptions) register(cmd *cobra.Command, prefix string) {
	cmd.Flags().StringVar(&o.labels, "labels", "", "Ground-truth label file; when set, predictions are scored")
	cmd.Flags().BoolVar(&o.json, "json", false, "Print the report as JSON instead of text")
	cmd.Flags().StringVar(&o.reportDir, "report-dir", "", "Also write the text report to <prefix>_score_Ijk_<x.xx>.txt in this directory")
	cmd.Flags().StringVar(&o.prefix, "prefix", prefix, "Report file name prefix")
}

// report scores predictions against the label file and prints the result.
// It does nothing when no label file was given.
func (o reportOptions) report(cmd *cobra.Command, predictions []int) error {
	if o.labels == "" {
		return nil
	}

	ctx := cmd.Context()
	client, err := ecgfusion.NewStorageClientIfNeeded(ctx, o.labels)
	if err != nil {
		return err
	}
	if client != nil {
		defer client.Close()
	}

	labels, err := tabular.ReadLabelsFile(ctx, o.labels, client)
	if err != nil {
		return err
	}

	m, err := aami.Score(predictions, labels)
	if err != nil {
		return err
	}

	log.Infow("Scored", "instances", m.Confusion.Total(), "excluded", m.Confusion.Excluded(), "ijk", m.Ijk, "kappa", m.Kappa)

	out := cmd.OutOrStdout()
	if o.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			return pfx.Err(err)
		}
	} else {
		if err := aami.WriteReport(out, m); err != nil {
			return err
		}
		fmt.Fprintf(out, "Kappa strength: %s\n", aami.KappaStrength(m.Kappa))
	}

	if o.reportDir == "" {
		return nil
	}

	dir := ecgfusion.ExpandHome(o.reportDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return pfx.Err(err)
	}

	path := filepath.Join(dir, aami.ReportFileName(o.prefix, m))
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	if err := aami.WriteReport(f, m); err != nil {
		f.Close()
		return err
	}
	log.Infow("Wrote report", "path", path)

	return pfx.Err(f.Close())
}
