package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/dnsrank/dnsrank/pkg/ranking"
)

// writeCSV exports the ranked results, one row per resolver.
func writeCSV(path string, ranked []ranking.ScoredResolver) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"rank", "tie_group", "resolver", "address", "overall_score", "uncertainty", "success_rate", "intercepts_nxdomain"}
	for _, set := range []string{"warm", "cold", "tld"} {
		header = append(header,
			set+"_p50_ms", set+"_p95_ms", set+"_mean_ms", set+"_stddev_ms", set+"_mad_ms",
			set+"_ok", set+"_timeout", set+"_error", set+"_timeout_rate", set+"_score")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ranked {
		s := r.Stats
		row := []string{
			strconv.Itoa(r.Rank),
			r.TieGroup,
			s.Resolver.Label,
			s.Resolver.Addr,
			fmt.Sprintf("%.2f", s.OverallScore),
			fmt.Sprintf("%.2f", s.Uncertainty),
			fmt.Sprintf("%.1f", s.SuccessRate),
			strconv.FormatBool(s.Resolver.InterceptsNXDOMAIN),
		}
		row = append(row, setColumns(&s.Warm)...)
		row = append(row, setColumns(&s.Cold)...)
		row = append(row, setColumns(s.TLD)...)
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func setColumns(s *ranking.SetStats) []string {
	if s == nil {
		return []string{"", "", "", "", "", "", "", "", "", ""}
	}
	return []string{
		fmt.Sprintf("%.2f", s.P50),
		fmt.Sprintf("%.2f", s.P95),
		fmt.Sprintf("%.2f", s.Mean),
		fmt.Sprintf("%.2f", s.Stddev),
		fmt.Sprintf("%.2f", s.MAD),
		strconv.Itoa(s.NOk),
		strconv.Itoa(s.NTimeout),
		strconv.Itoa(s.NError),
		fmt.Sprintf("%.3f", s.TimeoutRate),
		fmt.Sprintf("%.2f", s.Score),
	}
}
