// Package resultstore persists performance reports in a sqlite database so
// that repeated runs of an experiment can be compared.
package resultstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/carbocation/ecgfusion"
	"github.com/carbocation/ecgfusion/aami"
	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/guregu/null.v3"
)

const schema = `
CREATE TABLE IF NOT EXISTS report (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	experiment TEXT NOT NULL,
	kind TEXT NOT NULL,
	name TEXT NOT NULL,
	instances INTEGER NOT NULL,
	excluded INTEGER NOT NULL,
	overall_accuracy REAL NOT NULL,
	ij REAL NOT NULL,
	kappa REAL,
	ijk REAL,
	mean_fmeasure REAL NOT NULL,
	report TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS report_experiment ON report (experiment);
`

// Record is one stored performance report. Kind is the stage that produced
// the predictions (vote, fusion, ds) and Name the model or rule within it.
type Record struct {
	ID              int64      `db:"id"`
	Experiment      string     `db:"experiment"`
	Kind            string     `db:"kind"`
	Name            string     `db:"name"`
	Instances       int        `db:"instances"`
	Excluded        int        `db:"excluded"`
	OverallAccuracy float64    `db:"overall_accuracy"`
	Ij              float64    `db:"ij"`
	Kappa           null.Float `db:"kappa"`
	Ijk             null.Float `db:"ijk"`
	MeanFMeasure    float64    `db:"mean_fmeasure"`
	Report          string     `db:"report"`
	CreatedAt       time.Time  `db:"created_at"`
}

// RecordFromMeasures flattens m into a Record. The full measures are kept as
// JSON in Report.
func RecordFromMeasures(experiment, kind, name string, m aami.Measures) (Record, error) {
	report, err := json.Marshal(m)
	if err != nil {
		return Record{}, pfx.Err(err)
	}

	return Record{
		Experiment:      experiment,
		Kind:            kind,
		Name:            name,
		Instances:       int(m.Confusion.Total()),
		Excluded:        m.Confusion.Excluded(),
		OverallAccuracy: m.OverallAccuracy,
		Ij:              m.Ij,
		Kappa:           m.Kappa,
		Ijk:             m.Ijk,
		MeanFMeasure:    m.MeanFMeasure(),
		Report:          string(report),
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// Store is a handle on a result database.
type Store struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the sqlite database at path and makes
// sure the schema exists. ":memory:" gives a throwaway store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		path = ecgfusion.ExpandHome(path)
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	// sqlite allows a single writer; an in-memory database also lives on
	// exactly one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, pfx.Err(fmt.Errorf("creating schema in %s: %w", path, err))
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores r and returns its new ID.
func (s *Store) Insert(ctx context.Context, r Record) (int64, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.NamedExecContext(ctx, `INSERT INTO report
		(experiment, kind, name, instances, excluded, overall_accuracy, ij, kappa, ijk, mean_fmeasure, report, created_at)
		VALUES
		(:experiment, :kind, :name, :instances, :excluded, :overall_accuracy, :ij, :kappa, :ijk, :mean_fmeasure, :report, :created_at)`, r)
	if err != nil {
		return 0, pfx.Err(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, pfx.Err(err)
	}

	return id, nil
}

// List returns the records of one experiment in insertion order. An empty
// experiment name lists every record.
func (s *Store) List(ctx context.Context, experiment string) ([]Record, error) {
	out := []Record{}

	var err error
	if experiment == "" {
		err = s.db.SelectContext(ctx, &out, "SELECT * FROM report ORDER BY id")
	} else {
		err = s.db.SelectContext(ctx, &out, "SELECT * FROM report WHERE experiment=? ORDER BY id", experiment)
	}
	if err != nil {
		return nil, pfx.Err(err)
	}

	return out, nil
}

// Experiments lists the distinct experiment names in the store.
func (s *Store) Experiments(ctx context.Context) ([]string, error) {
	out := []string{}
	if err := s.db.SelectContext(ctx, &out, "SELECT DISTINCT experiment FROM report ORDER BY experiment"); err != nil {
		return nil, pfx.Err(err)
	}
	return out, nil
}
