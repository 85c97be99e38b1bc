// Package ranking aggregates raw benchmark results into per-resolver
// statistics, composite scores and a tie-aware ranking.
package ranking

import (
	"github.com/montanaflynn/stats"
)

// madScale converts a median absolute deviation into a robust estimate of
// the standard deviation for normally distributed data. MAD is used instead
// of stddev because latency distributions are heavy-tailed.
const madScale = 1.4826

// SetStats summarizes the queries of one (resolver, set) bucket.
// Percentiles use the nearest-rank method. When NOk is zero the percentile
// fields are zero and the set carries the full timeout penalty.
type SetStats struct {
	P50    float64
	P95    float64
	Mean   float64
	Stddev float64
	MAD    float64

	NOk      int
	NTimeout int
	NError   int

	TimeoutRate float64
	Score       float64
}

// Total reports how many queries the set statistics cover.
func (s SetStats) Total() int {
	return s.NOk + s.NTimeout + s.NError
}

// ScaledMAD is the robust per-set spread estimate used for tie detection.
func (s SetStats) ScaledMAD() float64 {
	if s.NOk == 0 {
		return 0
	}
	return s.MAD * madScale
}

// ComputeSetStats aggregates successful latencies (ms) and failure counts
// into per-set statistics including the set score:
//
//	score = p50 + 0.5*(p95-p50) + penalty*timeout_rate
//
// where penalty is the configured timeout in milliseconds. Protocol errors
// count against the denominator of the timeout rate but not as timeouts.
func ComputeSetStats(latencies []float64, nTimeout, nError int, penaltyMs float64) SetStats {
	s := SetStats{
		NOk:      len(latencies),
		NTimeout: nTimeout,
		NError:   nError,
	}
	if s.NOk == 0 {
		// No percentiles exist; score as if every query timed out.
		s.TimeoutRate = 1
		s.Score = penaltyMs
		return s
	}

	data := stats.Float64Data(latencies)
	s.P50, _ = stats.PercentileNearestRank(data, 50)
	s.P95, _ = stats.PercentileNearestRank(data, 95)
	s.Mean, _ = stats.Mean(data)
	s.Stddev, _ = stats.StdDevP(data)
	s.MAD, _ = stats.MedianAbsoluteDeviation(data)

	s.TimeoutRate = float64(nTimeout) / float64(s.Total())
	s.Score = setScore(s.P50, s.P95, s.TimeoutRate, penaltyMs)
	return s
}

func setScore(p50, p95, timeoutRate, penaltyMs float64) float64 {
	return p50 + 0.5*(p95-p50) + penaltyMs*timeoutRate
}
