package ovo

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// minRowsPerChunk is the smallest block of rows handed to one goroutine.
const minRowsPerChunk = 1024

// VoteParallel is Vote with the instance axis split across up to workers
// goroutines (GOMAXPROCS when workers <= 0). Every goroutine writes a disjoint
// block of rows of pre-sized buffers, so the result is identical to Vote.
func VoteParallel(ctx context.Context, decisions mat.Matrix, n int, p Policy, workers int) (Result, error) {
	if err := CheckShape(decisions, n); err != nil {
		return Result{}, err
	}
	if !p.valid() {
		return Result{}, fmt.Errorf("ovo: invalid policy %d", int(p))
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rows, _ := decisions.Dims()
	out := Result{
		Predictions: make([]int, rows),
		Votes:       mat.NewDense(rows, n, nil),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, chunk := range Chunks(rows, workers, minRowsPerChunk) {
		chunk := chunk
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			voteRows(decisions, n, p, chunk.Lo, chunk.Hi, out)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return out, nil
}

// Chunk is a half-open range of rows [Lo, Hi).
type Chunk struct {
	Lo, Hi int
}

// Chunks splits rows into at most parts contiguous ranges of at least
// minSize rows each (the last range may be shorter).
func Chunks(rows, parts, minSize int) []Chunk {
	if rows <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if minSize < 1 {
		minSize = 1
	}

	size := (rows + parts - 1) / parts
	if size < minSize {
		size = minSize
	}

	out := make([]Chunk, 0, (rows+size-1)/size)
	for lo := 0; lo < rows; lo += size {
		hi := lo + size
		if hi > rows {
			hi = rows
		}
		out = append(out, Chunk{Lo: lo, Hi: hi})
	}

	return out
}
