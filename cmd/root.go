package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/dnsrank/dnsrank/internal/sysutil"
	"github.com/dnsrank/dnsrank/pkg/dnsbench"
	"github.com/dnsrank/dnsrank/pkg/printutils"
	"github.com/dnsrank/dnsrank/pkg/ranking"
)

// Version is set during release of project during build process.
var Version = "development"

var (
	pApp = kingpin.New("dnsrank", "Benchmark and rank recursive DNS resolvers over UDP.")

	benchmark dnsbench.Benchmark

	pResolvers = pApp.Flag("resolver", "DNS resolver address to benchmark. Repeatable. Accepts 1.1.1.1, 8.8.8.8:5353, bare or bracketed IPv6.").
			Short('r').Strings()
	pResolverFile = pApp.Flag("resolver-file", "File containing resolver addresses, one per line. Inline '# Label' comments set display labels.").
			Short('f').PlaceHolder("/path/to/resolvers").String()
	pSystemResolvers = pApp.Flag("system-resolvers", "Include resolvers from the operating system configuration.").Bool()

	pWarmFile = pApp.Flag("warm-domains", "File overriding the warm (cached) domain set.").PlaceHolder("/path/to/file").String()
	pColdFile = pApp.Flag("cold-domains", "File overriding the cold (uncached) domain set.").PlaceHolder("/path/to/file").String()
	pTLDFile  = pApp.Flag("tld-domains", "File overriding the TLD-diverse domain set.").PlaceHolder("/path/to/file").String()
	pNXFile   = pApp.Flag("nxdomain-domains", "File overriding the NXDOMAIN interception probe names.").PlaceHolder("/path/to/file").String()
	pNoTLD    = pApp.Flag("no-tld", "Disable the TLD diversity measurement.").Bool()

	pTimeoutMs = pApp.Flag("timeout", "Per-query timeout in milliseconds.").
			Short('t').Default("2000").Int64()
	pSpacingMs = pApp.Flag("spacing", "Delay between task launches in milliseconds.").
			Default("5").Int64()

	pDiscover   = pApp.Flag("discover", "Force the discovery prefilter on.").Bool()
	pNoDiscover = pApp.Flag("no-discover", "Disable the discovery prefilter (benchmark all resolvers).").Bool()

	pOutput       = pApp.Flag("output", "Write results to a CSV file.").Short('o').PlaceHolder("/path/to/file.csv").String()
	pJSON         = pApp.Flag("json", "Report ranked results as JSON.").Bool()
	pPlotDir      = pApp.Flag("plot", "Plot benchmark results and export them to the directory.").PlaceHolder("/path/to/folder").String()
	pDistribution = pApp.Flag("distribution", "Display a distribution histogram of successful latencies.").Bool()
	pNoColor      = pApp.Flag("no-color", "Disable ANSI color output.").Bool()
)

func init() {
	pApp.Flag("rounds", "Number of benchmark rounds.").
		Short('n').Default("3").IntVar(&benchmark.Rounds)
	pApp.Flag("concurrency", "Maximum concurrent in-flight queries.").
		Short('c').Default("64").Int64Var(&benchmark.Concurrency)
	pApp.Flag("aaaa", "Also query AAAA records.").BoolVar(&benchmark.AAAA)
	pApp.Flag("dnssec", "Enable EDNS0 with the DO bit on all queries.").BoolVar(&benchmark.DNSSEC)
	pApp.Flag("top", "Number of top resolvers kept by discovery.").
		Default("50").IntVar(&benchmark.TopN)
	pApp.Flag("max-resolver-ms", "Drop resolvers with a warm p50 above this from the final ranking.").
		Default("1000").Float64Var(&benchmark.MaxResolverMs)
	pApp.Flag("seed", "RNG seed for reproducible task ordering. 0 picks a random seed.").
		Short('s').Default("0").Uint64Var(&benchmark.Seed)
	pApp.Flag("request-log", "Log every query result to the file.").
		PlaceHolder("/path/to/requests.log").StringVar(&benchmark.RequestLogPath)
	pApp.Flag("silent", "Suppress progress output.").BoolVar(&benchmark.Silent)
}

// Execute starts main logic of command.
func Execute() {
	pApp.Version(Version)
	kingpin.MustParse(pApp.Parse(os.Args[1:]))

	if *pNoColor {
		color.NoColor = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First ^C stops launching new queries, waits for the in-flight ones and
	// reports what finished, a second one quits immediately.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT)
	go func() {
		<-sigs
		printutils.WarnPrint(os.Stderr, "\nInterrupted, finishing up. Press ^C again to quit without a report.\n")
		cancel()
		<-sigs
		os.Exit(1)
	}()

	if err := run(ctx); err != nil {
		printutils.ErrPrint(os.Stderr, "dnsrank: %s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := assemble(); err != nil {
		return err
	}
	warnFdHeadroom()

	if !benchmark.Silent {
		printConfigSummary(os.Stdout, &benchmark)
	}

	if benchmark.DiscoverActive() {
		if !benchmark.Silent {
			fmt.Printf("Discovery: screening %s resolvers...\n", printutils.HighlightStr(len(benchmark.Resolvers)))
		}
		survivors, err := benchmark.RunDiscovery(ctx)
		if err != nil {
			return err
		}
		if len(survivors) == 0 {
			return errors.New("no resolvers survived discovery")
		}
		if !benchmark.Silent {
			fmt.Printf("Discovery: kept %s of %s resolvers\n",
				printutils.HighlightStr(len(survivors)), printutils.HighlightStr(len(benchmark.Resolvers)))
		}
		benchmark.Resolvers = survivors
	}

	if !benchmark.Silent {
		fmt.Printf("Checking NXDOMAIN interception (%s resolvers)...\n", printutils.HighlightStr(len(benchmark.Resolvers)))
	}
	benchmark.Characterize(ctx)
	if !benchmark.Silent {
		printInterception(os.Stdout, benchmark.Resolvers)
	}

	results, err := benchmark.Run(ctx)
	if err != nil {
		return err
	}

	penaltyMs := float64(benchmark.Timeout.Milliseconds())
	ranked := ranking.Rank(ranking.BuildStats(results, penaltyMs))
	ranked, dropped := ranking.FilterSlow(ranked, benchmark.MaxResolverMs)
	if dropped > 0 && !benchmark.Silent {
		printutils.WarnPrint(os.Stdout, "Filtered %d resolver(s) with warm p50 > %.0f ms\n", dropped, benchmark.MaxResolverMs)
	}

	if *pJSON {
		if err := printJSONReport(os.Stdout, ranked); err != nil {
			return err
		}
	} else {
		printResultsTable(os.Stdout, ranked, benchmark.TLD)
	}

	if *pDistribution {
		printDistribution(os.Stdout, results)
	}
	if *pOutput != "" {
		if err := writeCSV(*pOutput, ranked); err != nil {
			return err
		}
		if !benchmark.Silent {
			fmt.Printf("Results written to %s\n", printutils.HighlightStr(*pOutput))
		}
	}
	if *pPlotDir != "" {
		if err := writePlots(*pPlotDir, ranked, results); err != nil {
			return err
		}
	}
	return nil
}

// assemble collects resolvers and domain sets from flags, files and
// defaults into the benchmark configuration.
func assemble() error {
	var resolvers []dnsbench.Resolver
	for _, arg := range *pResolvers {
		r, err := dnsbench.ParseResolver(arg)
		if err != nil {
			return err
		}
		resolvers = append(resolvers, r)
	}
	if *pResolverFile != "" {
		fromFile, err := dnsbench.ReadResolverFile(*pResolverFile)
		if err != nil {
			return err
		}
		resolvers = append(resolvers, fromFile...)
	}
	if *pSystemResolvers {
		resolvers = append(resolvers, dnsbench.SystemResolvers()...)
	}
	if len(resolvers) == 0 {
		resolvers = dnsbench.DefaultResolvers()
	}
	benchmark.Resolvers = resolvers

	var err error
	if benchmark.WarmDomains, err = domainSet(*pWarmFile, dnsbench.DefaultWarmDomains); err != nil {
		return err
	}
	if benchmark.ColdDomains, err = domainSet(*pColdFile, dnsbench.DefaultColdDomains); err != nil {
		return err
	}
	if benchmark.TLDDomains, err = domainSet(*pTLDFile, dnsbench.DefaultTLDDomains); err != nil {
		return err
	}
	if benchmark.NXDomains, err = domainSet(*pNXFile, dnsbench.DefaultNXDomains); err != nil {
		return err
	}

	benchmark.TLD = !*pNoTLD
	benchmark.Timeout = time.Duration(*pTimeoutMs) * time.Millisecond
	benchmark.Spacing = time.Duration(*pSpacingMs) * time.Millisecond

	switch {
	case *pNoDiscover:
		benchmark.Discover = dnsbench.DiscoverOff
	case *pDiscover:
		benchmark.Discover = dnsbench.DiscoverOn
	default:
		benchmark.Discover = dnsbench.DiscoverAuto
	}
	return nil
}

func domainSet(path string, defaults func() []string) ([]string, error) {
	if path == "" {
		return defaults(), nil
	}
	return dnsbench.ReadDomainFile(path)
}

// warnFdHeadroom warns when the open-file limit leaves little room for the
// configured number of concurrent sockets.
func warnFdHeadroom() {
	limit, err := sysutil.RlimitNoFile()
	if err != nil {
		return
	}
	if uint64(benchmark.Concurrency)+16 > limit {
		printutils.WarnPrint(os.Stderr, "Warning: open-file limit %d is close to --concurrency %d; lower concurrency or raise the limit\n",
			limit, benchmark.Concurrency)
	}
}
