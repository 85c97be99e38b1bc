package dnsbench

import (
	"context"
	"sort"
	"sync"

	"github.com/miekg/dns"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"
)

// DiscoverActive reports whether the discovery prefilter should run for the
// current configuration.
func (b *Benchmark) DiscoverActive() bool {
	switch b.Discover {
	case DiscoverOn:
		return true
	case DiscoverOff:
		return false
	default:
		return len(b.Resolvers) > DiscoverThreshold
	}
}

// RunDiscovery narrows a large resolver list in two phases. Phase 1 sends up
// to two warm A-queries per resolver with a strict 1-second timeout, stopping
// at the first validated response, and keeps resolvers with at least one
// validated response. Phase 2 runs one warm-only
// round at the normal timeout, ranks survivors by warm p50 ascending and
// keeps the top N; resolvers with no successful phase-2 query are dropped
// regardless of N. Within each phase the per-resolver work runs in parallel
// under the global concurrency cap.
func (b *Benchmark) RunDiscovery(ctx context.Context) ([]Resolver, error) {
	sem := semaphore.NewWeighted(b.Concurrency)

	survivors, err := b.screen(ctx, sem)
	if err != nil {
		return nil, err
	}
	if len(survivors) == 0 {
		return nil, nil
	}
	return b.quickBench(ctx, sem, survivors)
}

// screen is the phase-1 reachability filter.
func (b *Benchmark) screen(ctx context.Context, sem *semaphore.Weighted) ([]Resolver, error) {
	domains := b.WarmDomains
	if len(domains) > screenQueries {
		domains = domains[:screenQueries]
	}

	alive := make([]bool, len(b.Resolvers))
	var wg sync.WaitGroup
	for i := range b.Resolvers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for _, domain := range domains {
				if err := sem.Acquire(ctx, 1); err != nil {
					return
				}
				msg := buildQuery(domain, dns.TypeA, b.DNSSEC)
				res := query(b.Resolvers[i].Addr, msg, screenTimeout)
				sem.Release(1)
				if res.Outcome == OutcomeOK {
					alive[i] = true
					return
				}
			}
		}(i)
	}
	wg.Wait()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var survivors []Resolver
	for i, ok := range alive {
		if ok {
			survivors = append(survivors, b.Resolvers[i])
		}
	}
	return survivors, nil
}

// quickBench is the phase-2 warm-only benchmark over screen survivors.
func (b *Benchmark) quickBench(ctx context.Context, sem *semaphore.Weighted, survivors []Resolver) ([]Resolver, error) {
	latencies := make([][]float64, len(survivors))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := range survivors {
		for _, domain := range b.WarmDomains {
			wg.Add(1)
			go func(i int, domain string) {
				defer wg.Done()
				if err := sem.Acquire(ctx, 1); err != nil {
					return
				}
				msg := buildQuery(domain, dns.TypeA, b.DNSSEC)
				res := query(survivors[i].Addr, msg, b.Timeout)
				sem.Release(1)
				if res.Outcome == OutcomeOK {
					mu.Lock()
					latencies[i] = append(latencies[i], res.LatencyMs)
					mu.Unlock()
				}
			}(i, domain)
		}
	}
	wg.Wait()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	type scored struct {
		resolver Resolver
		p50      float64
	}
	var ranked []scored
	for i, lats := range latencies {
		if len(lats) == 0 {
			continue
		}
		p50, err := stats.PercentileNearestRank(lats, 50)
		if err != nil {
			continue
		}
		ranked = append(ranked, scored{resolver: survivors[i], p50: p50})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].p50 < ranked[j].p50
	})

	n := b.TopN
	if n <= 0 || n > len(ranked) {
		n = len(ranked)
	}
	kept := make([]Resolver, 0, n)
	for _, s := range ranked[:n] {
		kept = append(kept, s.resolver)
	}
	return kept, nil
}
