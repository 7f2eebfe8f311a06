package probe

import (
	"context"
	"fmt"
	"net"
	"time"
)

// ResolverPair is one upstream resolver and a hostname it can answer
// without recursion, so a lookup exercises the path to that resolver only.
type ResolverPair struct {
	Server   string `yaml:"server"`
	Hostname string `yaml:"hostname"`
}

// ResolverChecker is the fast check: one cheap A lookup per call, cycling
// through the configured resolver pairs so a single flaky resolver cannot
// fake an outage on its own.
//
// Not safe for concurrent use; the tick loop calls it from one goroutine.
type ResolverChecker struct {
	Pairs   []ResolverPair
	Timeout time.Duration

	next int
}

func NewResolverChecker(pairs []ResolverPair, timeout time.Duration) *ResolverChecker {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &ResolverChecker{Pairs: pairs, Timeout: timeout}
}

func (c *ResolverChecker) Check(ctx context.Context) CheckResult {
	if len(c.Pairs) == 0 {
		return CheckResult{Success: false, Message: "no resolver pairs configured"}
	}

	pair := c.Pairs[c.next%len(c.Pairs)]
	c.next++

	r := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			d := net.Dialer{Timeout: c.Timeout}
			return d.DialContext(ctx, "udp", net.JoinHostPort(pair.Server, "53"))
		},
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	start := time.Now()
	ips, err := r.LookupIP(ctx, "ip4", pair.Hostname)
	latency := time.Since(start).Seconds() * 1000

	if err != nil || len(ips) == 0 {
		msg := fmt.Sprintf("resolve %s via %s failed", pair.Hostname, pair.Server)
		if err != nil {
			msg += ": " + err.Error()
		}
		return CheckResult{Success: false, Message: msg, LatencyMS: latency}
	}
	return CheckResult{
		Success:   true,
		Message:   fmt.Sprintf("resolved %s via %s", pair.Hostname, pair.Server),
		LatencyMS: latency,
	}
}

// DefaultResolverPairs are public resolvers with easy non-recursive answers.
func DefaultResolverPairs() []ResolverPair {
	return []ResolverPair{
		{Server: "1.0.0.1", Hostname: "one.one.one.one"},
		{Server: "8.8.4.4", Hostname: "dns.google"},
		{Server: "208.67.222.123", Hostname: "familyshield.opendns.com"},
		{Server: "149.112.112.112", Hostname: "dns.quad9.net"},
		{Server: "94.140.14.141", Hostname: "unfiltered.adguard-dns.com"},
	}
}
