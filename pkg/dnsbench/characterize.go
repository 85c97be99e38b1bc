package dnsbench

import (
	"context"
	"sync"

	"github.com/miekg/dns"
	"golang.org/x/sync/semaphore"
)

// Characterize probes every resolver for NXDOMAIN interception and fills
// the InterceptsNXDOMAIN flag in place. A resolver intercepts if any probe
// for a known-nonexistent name comes back NOERROR with A records. Probes run
// concurrently across resolvers under a dedicated semaphore; the results
// produce no latency data.
func (b *Benchmark) Characterize(ctx context.Context) {
	sem := semaphore.NewWeighted(characterizeConcurrency)
	var wg sync.WaitGroup
	for i := range b.Resolvers {
		wg.Add(1)
		go func(r *Resolver) {
			defer wg.Done()
			r.InterceptsNXDOMAIN = b.interceptsNXDOMAIN(ctx, sem, r.Addr)
		}(&b.Resolvers[i])
	}
	wg.Wait()
}

func (b *Benchmark) interceptsNXDOMAIN(ctx context.Context, sem *semaphore.Weighted, addr string) bool {
	for _, domain := range b.NXDomains {
		if err := sem.Acquire(ctx, 1); err != nil {
			return false
		}
		msg := buildQuery(domain, dns.TypeA, b.DNSSEC)
		res := query(addr, msg, b.Timeout)
		sem.Release(1)

		if res.Outcome == OutcomeOK && res.Rcode == dns.RcodeSuccess && res.HasARecords {
			return true
		}
	}
	return false
}
