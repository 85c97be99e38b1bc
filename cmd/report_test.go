package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsrank/dnsrank/pkg/dnsbench"
	"github.com/dnsrank/dnsrank/pkg/ranking"
)

func rankedFixture() []ranking.ScoredResolver {
	honest := &dnsbench.ResolverResult{
		Resolver: dnsbench.Resolver{Addr: "1.1.1.1:53", Label: "Cloudflare"},
		Sets: map[string]*dnsbench.SetBucket{
			dnsbench.SetWarm: {Latencies: []float64{10, 12}, NOk: 2},
			dnsbench.SetCold: {Latencies: []float64{40, 44}, NOk: 2},
		},
	}
	intercepting := &dnsbench.ResolverResult{
		Resolver: dnsbench.Resolver{Addr: "203.0.113.1:53", Label: "ISP", InterceptsNXDOMAIN: true},
		Sets: map[string]*dnsbench.SetBucket{
			dnsbench.SetWarm: {Latencies: []float64{100, 110}, NOk: 2, NTimeout: 1},
			dnsbench.SetCold: {Latencies: []float64{200}, NOk: 1, NError: 1},
		},
	}
	return ranking.Rank(ranking.BuildStats([]*dnsbench.ResolverResult{honest, intercepting}, 2000))
}

func TestPrintResultsTable(t *testing.T) {
	var buf bytes.Buffer
	printResultsTable(&buf, rankedFixture(), false)
	out := buf.String()

	assert.Contains(t, out, "Cloudflare")
	assert.Contains(t, out, "1.1.1.1:53")
	assert.Contains(t, out, "Intercepts")
	assert.Contains(t, out, "OK")
	// faster resolver is listed first
	assert.Less(t, strings.Index(out, "Cloudflare"), strings.Index(out, "ISP"))
}

func TestPrintResultsTable_sentinelWithoutSuccesses(t *testing.T) {
	dead := &dnsbench.ResolverResult{
		Resolver: dnsbench.Resolver{Addr: "192.0.2.1:53", Label: "dead"},
		Sets: map[string]*dnsbench.SetBucket{
			dnsbench.SetWarm: {NTimeout: 2},
			dnsbench.SetCold: {NTimeout: 2},
		},
	}
	ranked := ranking.Rank(ranking.BuildStats([]*dnsbench.ResolverResult{dead}, 2000))

	var buf bytes.Buffer
	printResultsTable(&buf, ranked, false)
	assert.Contains(t, buf.String(), "-")
}

func TestPrintConfigSummary(t *testing.T) {
	b := &dnsbench.Benchmark{
		Resolvers:   []dnsbench.Resolver{{Addr: "1.1.1.1:53", Label: "Cloudflare"}},
		WarmDomains: []string{"google.com"},
		ColdDomains: []string{"cern.ch"},
		Rounds:      3,
		Timeout:     2 * time.Second,
		Concurrency: 64,
		Spacing:     5 * time.Millisecond,
		Seed:        7,
	}

	var buf bytes.Buffer
	printConfigSummary(&buf, b)
	out := buf.String()

	assert.Contains(t, out, "Cloudflare")
	assert.Contains(t, out, "Rounds:       3")
	assert.Contains(t, out, "Timeout:      2000 ms")
	assert.Contains(t, out, "Seed:         7")
}

func TestPrintDistribution(t *testing.T) {
	results := []*dnsbench.ResolverResult{
		{
			Resolver: dnsbench.Resolver{Addr: "1.1.1.1:53"},
			Sets: map[string]*dnsbench.SetBucket{
				dnsbench.SetWarm: {Latencies: []float64{5, 10, 20, 40, 80}, NOk: 5},
			},
		},
	}

	var buf bytes.Buffer
	printDistribution(&buf, results)
	out := buf.String()

	require.Contains(t, out, "Latency distribution")
	assert.Contains(t, out, "5")
}

func TestFmtLatency(t *testing.T) {
	assert.Equal(t, "500µs", fmtLatency(0.5))
	assert.Equal(t, "12.3ms", fmtLatency(12.34))
	assert.Equal(t, "1.50s", fmtLatency(1500))
}

func TestDistBar(t *testing.T) {
	assert.Empty(t, distBar(0, 10))
	// the busiest bucket fills the whole budget
	assert.Equal(t, distBarWidth, strings.Count(distBar(10, 10), "█"))
	// a populated bucket never rounds down to nothing
	assert.Equal(t, 1, strings.Count(distBar(1, 1000), "█"))
}
