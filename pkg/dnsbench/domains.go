package dnsbench

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultWarmDomains returns popular domains that recursive resolvers are
// expected to have cached, measuring best-case latency.
func DefaultWarmDomains() []string {
	return []string{
		"google.com",
		"youtube.com",
		"facebook.com",
		"amazon.com",
		"wikipedia.org",
		"twitter.com",
		"reddit.com",
		"netflix.com",
		"microsoft.com",
		"apple.com",
	}
}

// DefaultColdDomains returns real, resolvable domains across diverse TLDs
// that are unlikely to be cached, measuring the uncached resolution path.
func DefaultColdDomains() []string {
	return []string{
		// Government and institutional
		"archives.gov",
		"usgs.gov",
		"noaa.gov",
		"energy.gov",
		"census.gov",
		"si.edu",
		"caltech.edu",
		"mit.edu",
		"stanford.edu",
		"cornell.edu",
		// International research and institutions
		"cern.ch",
		"csiro.au",
		"keio.ac.jp",
		"ethz.ch",
		"mpg.de",
		"cnrs.fr",
		"nrc.ca",
		"anu.edu.au",
		"cam.ac.uk",
		"tudelft.nl",
		// Country-code TLD variety
		"ibge.gov.br",
		"kb.se",
		"onb.ac.at",
		"nationaalarchief.nl",
		"riksarkivet.no",
		"arkisto.fi",
		"nla.gov.au",
		"ndl.go.jp",
		"snu.ac.kr",
		"natlib.govt.nz",
		// Less common TLDs
		"pkg.dev",
		"fonts.google.com",
		"crates.io",
		"httpbin.org",
		"lobste.rs",
		"arxiv.org",
		"jstor.org",
		"archive.org",
		"gutenberg.org",
		"openlibrary.org",
		// Regional sites
		"rtve.es",
		"yle.fi",
		"dr.dk",
		"nrk.no",
		"svt.se",
		"rtp.pt",
		"rte.ie",
		"srf.ch",
		"orf.at",
		"vrt.be",
	}
}

// DefaultTLDDomains returns real domains spread across many TLDs (a few TLDs
// appear more than once) for measuring breadth of TLD infrastructure
// performance.
func DefaultTLDDomains() []string {
	return []string{
		"icann.org",
		"iana.org",
		"ietf.org",
		"example.net",
		"verisign.com",
		"pkg.dev",
		"web.app",
		"dart.dev",
		"nist.gov",
		"loc.gov",
		"mit.edu",
		"ox.ac.uk",
		"tu-berlin.de",
		"inria.fr",
		"uva.nl",
		"kth.se",
		"lu.ch",
		"tuwien.at",
		"kuleuven.be",
		"tcd.ie",
		"ulisboa.pt",
		"uio.no",
		"oulu.fi",
		"ku.dk",
		"keio.ac.jp",
		"snu.ac.kr",
		"iitb.ac.in",
		"uq.edu.au",
		"auckland.ac.nz",
		"ubc.ca",
		"unam.mx",
		"usp.br",
		"uct.ac.za",
	}
}

// DefaultNXDomains returns names guaranteed not to exist, all under the
// .invalid TLD reserved by RFC 2606. They are used to detect resolvers that
// synthesize answers instead of returning NXDOMAIN.
func DefaultNXDomains() []string {
	return []string{
		"nxdomain-test-0001.invalid",
		"nxdomain-test-0002.invalid",
		"nxdomain-test-0003.invalid",
		"thisdomaindoesnotexist-benchmark-check.invalid",
		"dns-benchmark-nxdomain-probe.invalid",
		"nxdomain-canary-test.invalid",
		"resolver-honesty-check.invalid",
		"definitely-not-a-real-domain.invalid",
		"benchmark-interception-test.invalid",
		"nxdomain-validation-probe.invalid",
	}
}

// ReadDomainFile reads domains from a file, one per line. Blank lines and
// lines starting with '#' are skipped.
func ReadDomainFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read domain file %q: %w", path, err)
	}
	defer file.Close()

	var domains []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains = append(domains, line)
	}
	return domains, scanner.Err()
}
