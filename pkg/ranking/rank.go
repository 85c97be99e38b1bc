package ranking

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dnsrank/dnsrank/pkg/dnsbench"
)

// ResolverStats is the scored summary for a single resolver across sets.
// The TLD set is informational: it is reported but does not enter the
// overall score.
type ResolverStats struct {
	Resolver dnsbench.Resolver

	Warm SetStats
	Cold SetStats
	TLD  *SetStats

	OverallScore float64
	Uncertainty  float64
	SuccessRate  float64
}

// ScoredResolver pairs ResolverStats with its rank and tie group label.
// Resolvers whose score differences fall within their combined uncertainty
// bands share a tie label such as "1-3"; singletons carry their own rank.
type ScoredResolver struct {
	Rank     int
	TieGroup string
	Stats    ResolverStats
}

// BuildStats turns raw driver results into per-resolver statistics.
// penaltyMs is the configured timeout in milliseconds.
func BuildStats(results []*dnsbench.ResolverResult, penaltyMs float64) []ResolverStats {
	out := make([]ResolverStats, 0, len(results))
	for _, rr := range results {
		rs := ResolverStats{Resolver: rr.Resolver}

		rs.Warm = bucketStats(rr.Sets[dnsbench.SetWarm], penaltyMs)
		rs.Cold = bucketStats(rr.Sets[dnsbench.SetCold], penaltyMs)
		if tld, ok := rr.Sets[dnsbench.SetTLD]; ok && tld.Total() > 0 {
			s := bucketStats(tld, penaltyMs)
			rs.TLD = &s
		}

		rs.OverallScore = (rs.Warm.Score + rs.Cold.Score) / 2
		rs.Uncertainty = (rs.Warm.ScaledMAD() + rs.Cold.ScaledMAD()) / 2

		total := rs.Warm.Total() + rs.Cold.Total()
		ok := rs.Warm.NOk + rs.Cold.NOk
		if rs.TLD != nil {
			total += rs.TLD.Total()
			ok += rs.TLD.NOk
		}
		if total > 0 {
			rs.SuccessRate = float64(ok) / float64(total) * 100
		}

		out = append(out, rs)
	}
	return out
}

func bucketStats(b *dnsbench.SetBucket, penaltyMs float64) SetStats {
	if b == nil {
		return ComputeSetStats(nil, 0, 0, penaltyMs)
	}
	return ComputeSetStats(b.Latencies, b.NTimeout, b.NError, penaltyMs)
}

// Rank sorts resolvers by overall score ascending (lower is better),
// assigns ranks and labels tie groups.
func Rank(statsList []ResolverStats) []ScoredResolver {
	sorted := make([]ResolverStats, len(statsList))
	copy(sorted, statsList)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OverallScore < sorted[j].OverallScore
	})

	ranked := make([]ScoredResolver, len(sorted))
	for i, s := range sorted {
		ranked[i] = ScoredResolver{Rank: i + 1, Stats: s}
	}
	detectTies(ranked)
	return ranked
}

// detectTies walks the score-sorted list and groups resolvers whose score
// distance from the group head is within the sum of the two uncertainty
// bands.
func detectTies(ranked []ScoredResolver) {
	start := 0
	for i := 1; i <= len(ranked); i++ {
		if i < len(ranked) {
			delta := ranked[i].Stats.OverallScore - ranked[start].Stats.OverallScore
			if delta <= ranked[i].Stats.Uncertainty+ranked[start].Stats.Uncertainty {
				continue
			}
		}
		label := strconv.Itoa(start + 1)
		if i-start >= 2 {
			label = fmt.Sprintf("%d-%d", start+1, i)
		}
		for j := start; j < i; j++ {
			ranked[j].TieGroup = label
		}
		start = i
	}
}

// FilterSlow drops resolvers whose warm p50 exceeds maxWarmP50 and re-ranks
// the remainder densely. Resolvers with no warm successes are kept; they
// already carry the maximum penalty score.
func FilterSlow(ranked []ScoredResolver, maxWarmP50 float64) ([]ScoredResolver, int) {
	kept := make([]ResolverStats, 0, len(ranked))
	dropped := 0
	for _, r := range ranked {
		if r.Stats.Warm.NOk > 0 && r.Stats.Warm.P50 > maxWarmP50 {
			dropped++
			continue
		}
		kept = append(kept, r.Stats)
	}
	if dropped == 0 {
		return ranked, 0
	}
	return Rank(kept), dropped
}
