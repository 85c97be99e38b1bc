package cmd

import (
	"encoding/json"
	"io"

	"github.com/dnsrank/dnsrank/pkg/ranking"
)

type jsonSetStats struct {
	P50Ms       float64 `json:"p50Ms"`
	P95Ms       float64 `json:"p95Ms"`
	MeanMs      float64 `json:"meanMs"`
	StddevMs    float64 `json:"stddevMs"`
	MadMs       float64 `json:"madMs"`
	Ok          int     `json:"ok"`
	Timeout     int     `json:"timeout"`
	Error       int     `json:"error"`
	TimeoutRate float64 `json:"timeoutRate"`
	Score       float64 `json:"score"`
}

type jsonResolver struct {
	Rank               int           `json:"rank"`
	TieGroup           string        `json:"tieGroup"`
	Resolver           string        `json:"resolver"`
	Address            string        `json:"address"`
	OverallScore       float64       `json:"overallScore"`
	Uncertainty        float64       `json:"uncertainty"`
	SuccessRate        float64       `json:"successRate"`
	InterceptsNXDOMAIN bool          `json:"interceptsNxdomain"`
	Warm               jsonSetStats  `json:"warm"`
	Cold               jsonSetStats  `json:"cold"`
	TLD                *jsonSetStats `json:"tld,omitempty"`
}

// printJSONReport writes the ranked results as indented JSON.
func printJSONReport(w io.Writer, ranked []ranking.ScoredResolver) error {
	out := make([]jsonResolver, 0, len(ranked))
	for _, r := range ranked {
		s := r.Stats
		jr := jsonResolver{
			Rank:               r.Rank,
			TieGroup:           r.TieGroup,
			Resolver:           s.Resolver.Label,
			Address:            s.Resolver.Addr,
			OverallScore:       s.OverallScore,
			Uncertainty:        s.Uncertainty,
			SuccessRate:        s.SuccessRate,
			InterceptsNXDOMAIN: s.Resolver.InterceptsNXDOMAIN,
			Warm:               toJSONSet(s.Warm),
			Cold:               toJSONSet(s.Cold),
		}
		if s.TLD != nil {
			t := toJSONSet(*s.TLD)
			jr.TLD = &t
		}
		out = append(out, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toJSONSet(s ranking.SetStats) jsonSetStats {
	return jsonSetStats{
		P50Ms:       s.P50,
		P95Ms:       s.P95,
		MeanMs:      s.Mean,
		StddevMs:    s.Stddev,
		MadMs:       s.MAD,
		Ok:          s.NOk,
		Timeout:     s.NTimeout,
		Error:       s.NError,
		TimeoutRate: s.TimeoutRate,
		Score:       s.Score,
	}
}
