package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/olekukonko/tablewriter"

	"github.com/dnsrank/dnsrank/pkg/dnsbench"
	"github.com/dnsrank/dnsrank/pkg/printutils"
	"github.com/dnsrank/dnsrank/pkg/ranking"
)

func printConfigSummary(w io.Writer, b *dnsbench.Benchmark) {
	fmt.Fprintln(w, "DNS Benchmark Configuration")
	fmt.Fprintln(w, "===========================")
	fmt.Fprintf(w, "Resolvers:    %s\n", printutils.HighlightStr(len(b.Resolvers)))
	for _, r := range b.Resolvers {
		fmt.Fprintf(w, "  - %s (%s)\n", r.Label, r.Addr)
	}
	fmt.Fprintf(w, "Warm domains: %d\n", len(b.WarmDomains))
	fmt.Fprintf(w, "Cold domains: %d\n", len(b.ColdDomains))
	if b.TLD {
		fmt.Fprintf(w, "TLD domains:  %d\n", len(b.TLDDomains))
	}
	fmt.Fprintf(w, "Rounds:       %d\n", b.Rounds)
	fmt.Fprintf(w, "Timeout:      %d ms\n", b.Timeout.Milliseconds())
	fmt.Fprintf(w, "Concurrency:  %d\n", b.Concurrency)
	fmt.Fprintf(w, "Spacing:      %d ms\n", b.Spacing.Milliseconds())
	fmt.Fprintf(w, "Query AAAA:   %s\n", yesNo(b.AAAA))
	fmt.Fprintf(w, "DNSSEC:       %s\n", yesNo(b.DNSSEC))
	if b.Seed != 0 {
		fmt.Fprintf(w, "Seed:         %d\n", b.Seed)
	}
	fmt.Fprintln(w)
}

func printInterception(w io.Writer, resolvers []dnsbench.Resolver) {
	for _, r := range resolvers {
		if r.InterceptsNXDOMAIN {
			printutils.ErrPrint(w, "  %s (%s): INTERCEPTS NXDOMAIN\n", r.Label, r.Addr)
		} else {
			printutils.SuccessPrint(w, "  %s (%s): OK\n", r.Label, r.Addr)
		}
	}
	fmt.Fprintln(w)
}

func printResultsTable(w io.Writer, ranked []ranking.ScoredResolver, tld bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Benchmark Results")
	fmt.Fprintln(w, "=================")
	fmt.Fprintln(w)

	header := []string{"Rank", "Resolver", "Address", "Score", "Warm p50", "Warm p95", "Cold p50", "Cold p95"}
	if tld {
		header = append(header, "TLD p50")
	}
	header = append(header, "Success %", "NXDOMAIN")

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	for _, r := range ranked {
		s := r.Stats
		row := []string{
			r.TieGroup,
			s.Resolver.Label,
			s.Resolver.Addr,
			fmt.Sprintf("%.1f", s.OverallScore),
			fmtMs(s.Warm, s.Warm.P50),
			fmtMs(s.Warm, s.Warm.P95),
			fmtMs(s.Cold, s.Cold.P50),
			fmtMs(s.Cold, s.Cold.P95),
		}
		if tld {
			if s.TLD != nil {
				row = append(row, fmtMs(*s.TLD, s.TLD.P50))
			} else {
				row = append(row, "-")
			}
		}
		nx := "OK"
		if s.Resolver.InterceptsNXDOMAIN {
			nx = "Intercepts"
		}
		row = append(row, fmt.Sprintf("%.1f%%", s.SuccessRate), nx)
		table.Append(row)
	}
	table.Render()
}

// fmtMs renders a latency field, or a dash when the set had no successes.
func fmtMs(s ranking.SetStats, v float64) string {
	if s.NOk == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f ms", v)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// distBarWidth is the cell budget of the widest distribution bar.
const distBarWidth = 40

// printDistribution renders an aggregate histogram of all successful query
// latencies across resolvers and sets.
func printDistribution(w io.Writer, results []*dnsbench.ResolverResult) {
	hist := hdrhistogram.New(1, time.Minute.Nanoseconds(), 1)
	var n int64
	for _, rr := range results {
		for _, bucket := range rr.Sets {
			for _, ms := range bucket.Latencies {
				_ = hist.RecordValue(int64(ms * float64(time.Millisecond)))
				n++
			}
		}
	}
	if n < 2 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Latency distribution,", printutils.HighlightStr(n), "datapoints")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Latency", "Count", ""})
	table.SetBorder(false)
	table.AppendBulk(distributionRows(hist.Distribution()))
	table.Render()
}

// distributionRows turns histogram buckets into printable rows, keeping only
// the contiguous populated range of the histogram.
func distributionRows(bars []hdrhistogram.Bar) [][]string {
	first, last := -1, -1
	var max int64
	for i, b := range bars {
		if b.Count == 0 {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
		if b.Count > max {
			max = b.Count
		}
	}
	if first < 0 {
		return nil
	}

	rows := make([][]string, 0, last-first+1)
	for _, b := range bars[first : last+1] {
		mid := float64(b.From+b.To) / 2 / float64(time.Millisecond)
		rows = append(rows, []string{
			fmtLatency(mid),
			strconv.FormatInt(b.Count, 10),
			distBar(b.Count, max),
		})
	}
	return rows
}

// distBar scales a bucket count to at most distBarWidth cells; any
// populated bucket gets at least one cell so it stays visible.
func distBar(count, max int64) string {
	if count == 0 {
		return ""
	}
	cells := int(count * distBarWidth / max)
	if cells < 1 {
		cells = 1
	}
	return strings.Repeat(printutils.HighlightStr("█"), cells)
}

// fmtLatency picks a unit by magnitude so sub-millisecond buckets and
// multi-second stragglers both stay readable.
func fmtLatency(ms float64) string {
	switch {
	case ms < 1:
		return fmt.Sprintf("%.0fµs", ms*1000)
	case ms < 1000:
		return fmt.Sprintf("%.1fms", ms)
	default:
		return fmt.Sprintf("%.2fs", ms/1000)
	}
}
