package dnsbench

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/miekg/dns"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/semaphore"
)

// DiscoverMode selects whether the discovery prefilter runs.
type DiscoverMode int

const (
	// DiscoverAuto activates discovery when the resolver list exceeds
	// DiscoverThreshold.
	DiscoverAuto DiscoverMode = iota
	// DiscoverOn always runs discovery.
	DiscoverOn
	// DiscoverOff never runs discovery.
	DiscoverOff
)

// Benchmark is the representation of a benchmark scenario.
type Benchmark struct {
	Resolvers []Resolver

	WarmDomains []string
	ColdDomains []string
	TLDDomains  []string
	NXDomains   []string

	Rounds      int
	Timeout     time.Duration
	Concurrency int64
	Spacing     time.Duration

	AAAA   bool
	DNSSEC bool
	TLD    bool

	// Seed drives the task-order shuffle; 0 derives a seed from the clock.
	Seed uint64

	Discover      DiscoverMode
	TopN          int
	MaxResolverMs float64

	Silent         bool
	RequestLogPath string

	requestLog *requestLogger
}

// task is one scheduled query. Tasks are immutable once enumerated.
type task struct {
	resolver Resolver
	domain   string
	qtype    uint16
	set      string
	round    int
}

// Run executes the main benchmark: every (resolver, set, domain, qtype,
// round) combination becomes one task, task order is shuffled with the
// seeded RNG, launches are paced by Spacing and capped by the global
// Concurrency semaphore. It returns raw per-resolver buckets in input
// order. Per-query failures are data, not errors; Run fails only on invalid
// configuration.
func (b *Benchmark) Run(ctx context.Context) ([]*ResolverResult, error) {
	if err := b.normalize(); err != nil {
		return nil, err
	}
	if err := b.openRequestLog(); err != nil {
		return nil, err
	}
	defer b.closeRequestLog()

	rng := b.rng()
	sem := semaphore.NewWeighted(b.Concurrency)
	pace := b.pacer()

	byKey := make(map[string]*ResolverResult, len(b.Resolvers))
	for _, r := range b.Resolvers {
		byKey[r.Addr] = &ResolverResult{Resolver: r, Sets: make(map[string]*SetBucket)}
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for round := 0; round < b.Rounds; round++ {
		if ctx.Err() != nil {
			break
		}
		tasks := b.roundTasks(round)
		rng.Shuffle(len(tasks), func(i, j int) {
			tasks[i], tasks[j] = tasks[j], tasks[i]
		})

		bar := b.progress(round, len(tasks))
		for _, t := range tasks {
			pace.Take()
			if err := sem.Acquire(ctx, 1); err != nil {
				// Shutdown: abandon the remaining tasks.
				break
			}
			wg.Add(1)
			go func(t task) {
				defer wg.Done()
				defer sem.Release(1)
				res := b.runTask(t)
				mu.Lock()
				byKey[t.resolver.Addr].Bucket(t.set).add(res)
				mu.Unlock()
				if bar != nil {
					_ = bar.Add(1)
				}
			}(t)
		}
		wg.Wait()
		if bar != nil {
			_ = bar.Finish()
		}
	}

	results := make([]*ResolverResult, 0, len(b.Resolvers))
	for _, r := range b.Resolvers {
		results = append(results, byKey[r.Addr])
	}
	return results, nil
}

func (b *Benchmark) runTask(t task) QueryResult {
	msg := buildQuery(t.domain, t.qtype, b.DNSSEC)
	res := query(t.resolver.Addr, msg, b.Timeout)
	if b.requestLog != nil {
		b.requestLog.log(t, msg, res)
	}
	return res
}

// roundTasks enumerates the tasks of a single round across all resolvers,
// sets, domains and query types.
func (b *Benchmark) roundTasks(round int) []task {
	qtypes := b.queryTypes()

	sets := []struct {
		name    string
		domains []string
	}{
		{SetWarm, b.WarmDomains},
		{SetCold, b.ColdDomains},
	}
	if b.TLD {
		sets = append(sets, struct {
			name    string
			domains []string
		}{SetTLD, b.TLDDomains})
	}

	var tasks []task
	for _, r := range b.Resolvers {
		for _, s := range sets {
			for _, domain := range s.domains {
				for _, qt := range qtypes {
					tasks = append(tasks, task{
						resolver: r,
						domain:   domain,
						qtype:    qt,
						set:      s.name,
						round:    round,
					})
				}
			}
		}
	}
	return tasks
}

func (b *Benchmark) queryTypes() []uint16 {
	if b.AAAA {
		return []uint16{dns.TypeA, dns.TypeAAAA}
	}
	return []uint16{dns.TypeA}
}

// normalize validates the configuration and drops duplicate resolver
// addresses so no bucket double-counts.
func (b *Benchmark) normalize() error {
	seen := make(map[string]struct{}, len(b.Resolvers))
	uniq := b.Resolvers[:0]
	for _, r := range b.Resolvers {
		if _, ok := seen[r.Addr]; ok {
			continue
		}
		seen[r.Addr] = struct{}{}
		uniq = append(uniq, r)
	}
	b.Resolvers = uniq

	if len(b.Resolvers) == 0 {
		return errors.New("no resolvers to benchmark")
	}
	if b.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", b.Rounds)
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", b.Timeout)
	}
	if b.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", b.Concurrency)
	}
	if len(b.WarmDomains) == 0 {
		return errors.New("warm domain set is empty")
	}
	if len(b.ColdDomains) == 0 {
		return errors.New("cold domain set is empty")
	}
	if b.TLD && len(b.TLDDomains) == 0 {
		return errors.New("tld domain set is empty")
	}
	return nil
}

// pacer bounds the task launch rate independent of query latency.
func (b *Benchmark) pacer() ratelimit.Limiter {
	if b.Spacing <= 0 {
		return ratelimit.NewUnlimited()
	}
	return ratelimit.New(1, ratelimit.Per(b.Spacing), ratelimit.WithoutSlack)
}

func (b *Benchmark) rng() *rand.Rand {
	seed := int64(b.Seed)
	if b.Seed == 0 {
		seed = time.Now().UnixNano()
	}
	// nolint:gosec
	return rand.New(rand.NewSource(seed))
}

func (b *Benchmark) progress(round, total int) *progressbar.ProgressBar {
	if b.Silent {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(fmt.Sprintf("round %d/%d", round+1, b.Rounds)),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
