package cmd

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/dnsrank/dnsrank/pkg/dnsbench"
	"github.com/dnsrank/dnsrank/pkg/ranking"
)

// writePlots exports latency graphs for the finished benchmark: one
// histogram over all successful queries and one box plot per resolver in
// rank order.
func writePlots(dir string, ranked []ranking.ScoredResolver, results []*dnsbench.ResolverResult) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create plot directory %q: %w", dir, err)
	}

	samples := make(map[string][]float64, len(results))
	var all []float64
	for _, rr := range results {
		for _, bucket := range rr.Sets {
			samples[rr.Resolver.Addr] = append(samples[rr.Resolver.Addr], bucket.Latencies...)
			all = append(all, bucket.Latencies...)
		}
	}

	plotHistogramLatency(filepath.Join(dir, "latency-histogram.png"), all)
	plotBoxPlotLatency(filepath.Join(dir, "latency-boxplot.png"), ranked, samples)
	return nil
}

func plotHistogramLatency(file string, latencies []float64) {
	if len(latencies) == 0 {
		return
	}
	values := make(plotter.Values, len(latencies))
	copy(values, latencies)

	p := plot.New()
	p.Title.Text = "Latency histogram"
	p.X.Label.Text = "Latency (ms)"
	p.X.Tick.Marker = hplot.Ticks{N: 5, Format: "%.0f"}
	p.Y.Label.Text = "Queries"
	p.Y.Tick.Marker = hplot.Ticks{N: 4, Format: "%.0f"}

	hist, err := plotter.NewHist(values, histogramBins(len(values)))
	if err != nil {
		panic(err)
	}
	hist.FillColor = color.RGBA{R: 114, G: 158, B: 206, A: 255}
	p.Add(hist)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, file); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to save plot.", err)
	}
}

// histogramBins applies Sturges' rule so a quick run with a handful of
// samples stays readable while a large discovery run keeps detail.
func histogramBins(n int) int {
	bins := 1 + int(math.Log2(float64(n)))
	if bins < 4 {
		return 4
	}
	if bins > 32 {
		return 32
	}
	return bins
}

func plotBoxPlotLatency(file string, ranked []ranking.ScoredResolver, samples map[string][]float64) {
	if len(ranked) == 0 {
		return
	}
	p := plot.New()
	p.Title.Text = "Latency by resolver"
	p.Y.Label.Text = "Latency (ms)"
	p.Y.Tick.Marker = hplot.Ticks{N: 4, Format: "%.0f"}

	labels := make([]string, 0, len(ranked))
	for i, r := range ranked {
		labels = append(labels, r.Stats.Resolver.Label)
		var values plotter.Values
		for _, v := range samples[r.Stats.Resolver.Addr] {
			values = append(values, v)
		}
		if len(values) == 0 {
			continue
		}
		boxplot, err := plotter.NewBoxPlot(vg.Points(20), float64(i), values)
		if err != nil {
			panic(err)
		}
		boxplot.FillColor = color.RGBA{R: 114, G: 158, B: 206, A: 255}
		p.Add(boxplot)
	}
	p.NominalX(labels...)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, file); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to save plot.", err)
	}
}
