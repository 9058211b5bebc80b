package dempster

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// InstanceError identifies the instance that made a batch fail.
type InstanceError struct {
	Index int
	Err   error
}

func (e *InstanceError) Error() string {
	return fmt.Sprintf("instance %d: %v", e.Index, e.Err)
}

func (e *InstanceError) Unwrap() error {
	return e.Err
}

// FromRows builds one singleton mass function per row, for example from a
// per-class probability table with columns N, S, V, F.
func FromRows(rows [][]float64) ([]MassFunction, error) {
	out := make([]MassFunction, len(rows))
	for i, row := range rows {
		mf, err := FromSingletons(row)
		if err != nil {
			return nil, &InstanceError{Index: i, Err: err}
		}
		out[i] = mf
	}
	return out, nil
}

// Options controls FuseBatch.
type Options struct {
	// SkipConflict marks totally conflicting instances with decision -1
	// instead of failing the batch.
	SkipConflict bool

	// Workers bounds the number of goroutines. Zero means GOMAXPROCS.
	Workers int
}

// Batch holds the outcome of fusing every instance.
type Batch struct {
	// Decisions is the fused class per instance, or -1 for a skipped
	// totally conflicting instance.
	Decisions []int

	// Conflict is the mass the unnormalized combination put on the empty
	// set for each instance.
	Conflict []float64

	// Skipped counts instances with decision -1.
	Skipped int
}

// FuseBatch combines, for each instance i, modalities[0][i] through
// modalities[K-1][i] and decides from the pignistic transform. All modalities
// must have the same number of instances.
func FuseBatch(ctx context.Context, modalities [][]MassFunction, opts Options) (Batch, error) {
	if len(modalities) == 0 {
		return Batch{}, fmt.Errorf("%w: no modalities", ErrEmptyFrame)
	}

	instances := len(modalities[0])
	for k, mod := range modalities {
		if len(mod) != instances {
			return Batch{}, fmt.Errorf("dempster: modality %d has %d instances, modality 0 has %d", k, len(mod), instances)
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := Batch{
		Decisions: make([]int, instances),
		Conflict:  make([]float64, instances),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	chunk := (instances + workers - 1) / workers
	if chunk < 1 {
		chunk = 1
	}

	for lo := 0; lo < instances; lo += chunk {
		lo, hi := lo, lo+chunk
		if hi > instances {
			hi = instances
		}

		g.Go(func() error {
			ms := make([]MassFunction, len(modalities))
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}

				for k := range modalities {
					ms[k] = modalities[k][i]
				}

				combined, _ := CombineAll(false, ms...)
				out.Conflict[i] = combined.Conflict()

				decision, err := combined.Decide()
				if errors.Is(err, ErrTotalConflict) && opts.SkipConflict {
					out.Decisions[i] = -1
					continue
				} else if err != nil {
					return &InstanceError{Index: i, Err: err}
				}
				out.Decisions[i] = decision
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Batch{}, err
	}

	for _, d := range out.Decisions {
		if d < 0 {
			out.Skipped++
		}
	}

	return out, nil
}
