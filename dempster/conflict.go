package dempster

import (
	"github.com/carbocation/runningvariance"
)

// ConflictSummary describes the distribution of per-instance conflict.
type ConflictSummary struct {
	Count int
	Mean  float64
	SD    float64
	Max   float64

	// Total counts instances whose conflict reached 1.
	Total int
}

// ConflictStats summarizes conflict values such as Batch.Conflict.
func ConflictStats(conflict []float64) ConflictSummary {
	rs := runningvariance.NewRunningStat()

	var out ConflictSummary
	for _, k := range conflict {
		rs.Push(k)
		out.Count++
		if k > out.Max {
			out.Max = k
		}
		if k >= 1-massTolerance {
			out.Total++
		}
	}

	if out.Count > 0 {
		out.Mean = rs.Mean()
	}
	if out.Count > 1 {
		out.SD = rs.StandardDeviation()
	}

	return out
}
