package dnsbench

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"
)

// Resolver identifies one recursive resolver under test. Addr is the
// canonical "ip:port" string and is the identity of the resolver everywhere
// results are keyed; Label is display-only.
type Resolver struct {
	Addr               string
	Label              string
	InterceptsNXDOMAIN bool
}

// ParseResolver parses a resolver address. Accepted forms:
//
//	1.1.1.1                 IPv4, default port 53
//	8.8.8.8:5353            IPv4 with explicit port
//	2606:4700::1111         bare IPv6, default port 53
//	[2606:4700::1111]:53    bracketed IPv6 with port
//
// The label defaults to the IP.
func ParseResolver(s string) (Resolver, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Resolver{}, fmt.Errorf("empty resolver address")
	}

	host := trimmed
	port := DefaultPort
	switch {
	case strings.HasPrefix(trimmed, "["):
		h, p, err := net.SplitHostPort(trimmed)
		if err != nil {
			return Resolver{}, fmt.Errorf("invalid resolver address %q: %w", trimmed, err)
		}
		host, port = h, p
	case strings.Count(trimmed, ":") >= 2:
		// Bare IPv6 without port.
	default:
		if h, p, err := net.SplitHostPort(trimmed); err == nil {
			host, port = h, p
		}
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return Resolver{}, fmt.Errorf("invalid resolver IP %q", host)
	}
	return Resolver{
		Addr:  net.JoinHostPort(ip.String(), port),
		Label: ip.String(),
	}, nil
}

// ReadResolverFile reads resolver addresses from a file, one per line.
// Blank lines and lines starting with '#' are skipped; an inline
// "addr # Label" comment sets the display label.
func ReadResolverFile(path string) ([]Resolver, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resolver file %q: %w", path, err)
	}
	defer file.Close()

	var resolvers []Resolver
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addr, label := line, ""
		if i := strings.Index(line, "#"); i >= 0 {
			addr = strings.TrimSpace(line[:i])
			label = strings.TrimSpace(line[i+1:])
		}
		r, err := ParseResolver(addr)
		if err != nil {
			return nil, err
		}
		if label != "" {
			r.Label = label
		}
		resolvers = append(resolvers, r)
	}
	return resolvers, scanner.Err()
}

// DefaultResolvers returns a small set of well-known public resolvers used
// when no resolver source is configured.
func DefaultResolvers() []Resolver {
	return []Resolver{
		{Addr: "1.1.1.1:53", Label: "Cloudflare"},
		{Addr: "8.8.8.8:53", Label: "Google"},
		{Addr: "9.9.9.9:53", Label: "Quad9"},
		{Addr: "208.67.222.222:53", Label: "OpenDNS"},
	}
}
