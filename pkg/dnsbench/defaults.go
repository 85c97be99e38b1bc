package dnsbench

import (
	"time"
)

const (
	// DefaultRounds is the default number of benchmark rounds.
	DefaultRounds = 3

	// DefaultTimeout is the default per-query timeout.
	DefaultTimeout = 2 * time.Second

	// DefaultConcurrency is the default global cap on in-flight queries.
	DefaultConcurrency = 64

	// DefaultSpacing is the default delay between task launches.
	DefaultSpacing = 5 * time.Millisecond

	// DefaultTopN is the default number of resolvers kept by discovery.
	DefaultTopN = 50

	// DefaultMaxResolverMs is the default warm p50 cutoff applied after the
	// benchmark.
	DefaultMaxResolverMs = 1000

	// DefaultPort is the DNS port assumed when a resolver address has none.
	DefaultPort = "53"

	// DiscoverThreshold is the resolver count above which discovery
	// activates automatically.
	DiscoverThreshold = 20

	// edns0BufferSize is the advertised EDNS0 UDP payload size and the
	// receive buffer size, large enough for DNSSEC-extended responses.
	edns0BufferSize = 4096

	// characterizeConcurrency caps concurrent NXDOMAIN interception probes
	// so characterization cannot saturate the local network stack.
	characterizeConcurrency = 32

	// screenTimeout is the fixed phase-1 discovery timeout, independent of
	// the configured benchmark timeout.
	screenTimeout = time.Second

	// screenQueries is the maximum number of warm queries sent per resolver
	// during the phase-1 reachability screen.
	screenQueries = 2
)
