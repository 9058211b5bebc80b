package experiment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/ecgfusion"
	"github.com/carbocation/ecgfusion/aami"
	"github.com/carbocation/ecgfusion/dempster"
	"github.com/carbocation/ecgfusion/fusion"
	"github.com/carbocation/ecgfusion/ovo"
	"github.com/carbocation/ecgfusion/resultstore"
	"github.com/carbocation/ecgfusion/tabular"
	"github.com/carbocation/pfx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Stage names, also used as the Kind of stored records.
const (
	KindVote     = "vote"
	KindFusion   = "fusion"
	KindDempster = "ds"
)

// Outcome is the scored prediction of one model, fusion rule, or DS
// combination.
type Outcome struct {
	Kind        string
	Name        string
	Predictions []int
	Measures    aami.Measures

	// ReportPath is empty unless an output directory is configured.
	ReportPath string
}

// Prefix is the file name prefix used for this outcome's report.
func (o Outcome) Prefix() string {
	return o.Kind + "_" + strings.ReplaceAll(o.Name, string(filepath.Separator), "_")
}

// Results holds everything a run produced.
type Results struct {
	Outcomes []Outcome

	// Conflict is set when Dempster-Shafer fusion ran.
	Conflict *dempster.ConflictSummary
}

// Run executes cfg: vote on every model, fuse the models with each basic
// rule, combine the evidence files with Dempster's rule, and score every
// result against the labels. Reports are written to cfg.OutputDir and
// records to cfg.Store when those are set.
func Run(ctx context.Context, cfg Config, log *zap.SugaredLogger) (Results, error) {
	if err := cfg.Validate(); err != nil {
		return Results{}, err
	}

	client, err := ecgfusion.NewStorageClientIfNeeded(ctx, cfg.Paths()...)
	if err != nil {
		return Results{}, err
	}
	if client != nil {
		defer client.Close()
	}

	labels, err := tabular.ReadLabelsFile(ctx, cfg.Labels, client)
	if err != nil {
		return Results{}, err
	}
	log.Infow("Loaded labels", "path", cfg.Labels, "instances", len(labels))

	var out Results

	votes, err := runModels(ctx, cfg, client, labels, log, &out)
	if err != nil {
		return Results{}, err
	}

	if cfg.Fusion != nil {
		if err := runFusion(cfg, votes, labels, log, &out); err != nil {
			return Results{}, err
		}
	}

	if cfg.Dempster != nil {
		if err := runDempster(ctx, cfg, client, labels, log, &out); err != nil {
			return Results{}, err
		}
	}

	if err := persist(ctx, cfg, log, out.Outcomes); err != nil {
		return Results{}, err
	}

	return out, nil
}

// runModels votes on each model's decision matrix and returns, per model,
// the sigmoid vote accumulator scaled to [0, 1] for use by the fusion rules.
func runModels(ctx context.Context, cfg Config, client *storage.Client, labels []int, log *zap.SugaredLogger, out *Results) ([]mat.Matrix, error) {
	decisions := make([]*mat.Dense, len(cfg.Models))

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for i, m := range cfg.Models {
		i, m := i, m
		g.Go(func() error {
			d, err := tabular.ReadMatrixFile(gctx, m.Decisions, client)
			if err != nil {
				return err
			}
			decisions[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scaled := make([]mat.Matrix, len(cfg.Models))
	for i, m := range cfg.Models {
		rows, _ := decisions[i].Dims()
		if rows != len(labels) {
			return nil, fmt.Errorf("model %q: %d decision rows but %d labels", m.Name, rows, len(labels))
		}

		res, err := ovo.VoteParallel(ctx, decisions[i], cfg.Classes, m.policy, cfg.Workers)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", m.Name, err)
		}

		o, err := score(KindVote, m.Name, res.Predictions, labels)
		if err != nil {
			return nil, err
		}
		logOutcome(log, o)
		out.Outcomes = append(out.Outcomes, o)

		sig := res
		if m.policy != ovo.Sigmoid {
			sig, err = ovo.VoteParallel(ctx, decisions[i], cfg.Classes, ovo.Sigmoid, cfg.Workers)
			if err != nil {
				return nil, fmt.Errorf("model %q: %w", m.Name, err)
			}
		}
		scaled[i] = fusion.Scale(sig.Votes, 1/float64(ovo.NumPairs(cfg.Classes)))
	}

	return scaled, nil
}

func runFusion(cfg Config, ensemble []mat.Matrix, labels []int, log *zap.SugaredLogger, out *Results) error {
	for _, rule := range cfg.Fusion.rules {
		res, err := fusion.Combine(ensemble, rule)
		if err != nil {
			return fmt.Errorf("fusion %s: %w", rule, err)
		}

		o, err := score(KindFusion, rule.String()+"_rule", res.Predictions, labels)
		if err != nil {
			return err
		}
		logOutcome(log, o)
		out.Outcomes = append(out.Outcomes, o)
	}

	return nil
}

func runDempster(ctx context.Context, cfg Config, client *storage.Client, labels []int, log *zap.SugaredLogger, out *Results) error {
	modalities := make([][]dempster.MassFunction, len(cfg.Dempster.Evidence))

	for i, ev := range cfg.Dempster.Evidence {
		rows, err := tabular.ReadEvidenceFile(ctx, ev.Path, client)
		if err != nil {
			return err
		}
		if len(rows) != len(labels) {
			return fmt.Errorf("evidence %q: %d rows but %d labels", ev.Name, len(rows), len(labels))
		}

		ms, err := dempster.FromRows(tabular.EvidenceValues(rows))
		if err != nil {
			return fmt.Errorf("evidence %q: %w", ev.Name, err)
		}
		modalities[i] = ms
	}

	batch, err := dempster.FuseBatch(ctx, modalities, dempster.Options{
		SkipConflict: cfg.Dempster.SkipConflict,
		Workers:      cfg.Workers,
	})
	if err != nil {
		return fmt.Errorf("dempster %q: %w", cfg.Dempster.Name, err)
	}

	stats := dempster.ConflictStats(batch.Conflict)
	out.Conflict = &stats
	log.Infow("Combined evidence",
		"name", cfg.Dempster.Name,
		"modalities", len(modalities),
		"mean_conflict", stats.Mean,
		"sd_conflict", stats.SD,
		"total_conflict", stats.Total,
		"skipped", batch.Skipped)

	o, err := score(KindDempster, cfg.Dempster.Name, batch.Decisions, labels)
	if err != nil {
		return err
	}
	logOutcome(log, o)
	out.Outcomes = append(out.Outcomes, o)

	return nil
}

func score(kind, name string, predictions, labels []int) (Outcome, error) {
	m, err := aami.Score(predictions, labels)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s %q: %w", kind, name, err)
	}

	return Outcome{
		Kind:        kind,
		Name:        name,
		Predictions: predictions,
		Measures:    m,
	}, nil
}

func logOutcome(log *zap.SugaredLogger, o Outcome) {
	kappa := "NaN"
	if o.Measures.Kappa.Valid {
		kappa = fmt.Sprintf("%.4f", o.Measures.Kappa.Float64)
	}
	ijk := "NaN"
	if o.Measures.Ijk.Valid {
		ijk = fmt.Sprintf("%.4f", o.Measures.Ijk.Float64)
	}

	log.Infow("Scored",
		"kind", o.Kind,
		"name", o.Name,
		"ijk", ijk,
		"ij", o.Measures.Ij,
		"kappa", kappa,
		"accuracy", o.Measures.OverallAccuracy,
		"excluded", o.Measures.Confusion.Excluded())
}

// persist writes reports and prediction files, and stores records.
func persist(ctx context.Context, cfg Config, log *zap.SugaredLogger, outcomes []Outcome) error {
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return pfx.Err(err)
		}

		for i := range outcomes {
			path, err := writeOutcome(cfg.OutputDir, outcomes[i])
			if err != nil {
				return err
			}
			outcomes[i].ReportPath = path
			log.Debugw("Wrote report", "path", path)
		}
	}

	if cfg.Store == "" {
		return nil
	}

	store, err := resultstore.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, o := range outcomes {
		rec, err := resultstore.RecordFromMeasures(cfg.Name, o.Kind, o.Name, o.Measures)
		if err != nil {
			return err
		}
		if _, err := store.Insert(ctx, rec); err != nil {
			return err
		}
	}
	log.Infow("Stored results", "store", cfg.Store, "records", len(outcomes))

	return nil
}

func writeOutcome(dir string, o Outcome) (string, error) {
	predPath := filepath.Join(dir, o.Prefix()+"_predictions.txt")
	if err := writeFile(predPath, func(f *os.File) error {
		return tabular.WritePredictions(f, o.Predictions)
	}); err != nil {
		return "", err
	}

	reportPath := filepath.Join(dir, aami.ReportFileName(o.Prefix(), o.Measures))
	if err := writeFile(reportPath, func(f *os.File) error {
		return aami.WriteReport(f, o.Measures)
	}); err != nil {
		return "", err
	}

	return reportPath, nil
}

func writeFile(path string, fill func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	if err := fill(f); err != nil {
		f.Close()
		return pfx.Err(err)
	}

	if err := f.Close(); err != nil {
		return pfx.Err(err)
	}

	return nil
}
