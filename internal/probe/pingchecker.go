package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/macrat/go-parallel-pinger"
)

// PingChecker sends ICMP echo requests. One shared pinger pair serves all
// targets; Start must succeed before Check is used.
type PingChecker struct {
	v4, v6   *pinger.Pinger
	packets  int
	interval time.Duration
	timeout  time.Duration
}

func NewPingChecker(packets int, timeout time.Duration) *PingChecker {
	if packets < 1 {
		packets = 1
	}
	if timeout <= 0 {
		timeout = time.Second
	}
	return &PingChecker{
		v4:       pinger.NewIPv4(),
		v6:       pinger.NewIPv6(),
		packets:  packets,
		interval: timeout / time.Duration(packets),
		timeout:  timeout,
	}
}

// Start launches the pinger listeners. If the default socket mode is not
// permitted it retries with the other privilege mode before giving up.
func (p *PingChecker) Start(ctx context.Context) error {
	if err := p.v4.Start(ctx); err == nil {
		return p.v6.Start(ctx)
	}

	p.v4.SetPrivileged(!pinger.DEFAULT_PRIVILEGED)
	p.v6.SetPrivileged(!pinger.DEFAULT_PRIVILEGED)

	if err := p.v4.Start(ctx); err != nil {
		return fmt.Errorf("start pinger: %w", err)
	}
	return p.v6.Start(ctx)
}

// Check pings one host. Hostname resolution shares the probe timeout; any
// received packet counts as reachable.
func (p *PingChecker) Check(ctx context.Context, host string) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout+time.Second)
	defer cancel()

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil || len(addrs) == 0 {
		return CheckResult{Success: false, Message: fmt.Sprintf("resolve %s: %v", host, err)}
	}
	target := &net.IPAddr{IP: addrs[0].IP, Zone: addrs[0].Zone}

	ping := p.v4
	if target.IP.To4() == nil {
		ping = p.v6
	}

	start := time.Now()
	result, err := ping.Ping(ctx, target, p.packets, p.interval)
	latency := time.Since(start).Seconds() * 1000
	if err != nil {
		return CheckResult{Success: false, Message: fmt.Sprintf("ping %s: %v", host, err), LatencyMS: latency}
	}
	if result.Recv == 0 {
		return CheckResult{Success: false, Message: fmt.Sprintf("ping %s: all %d packets dropped", host, result.Sent), LatencyMS: latency}
	}
	return CheckResult{
		Success:   true,
		Message:   fmt.Sprintf("ping %s: %d/%d packets", host, result.Recv, result.Sent),
		LatencyMS: float64(result.AvgRTT.Microseconds()) / 1000,
	}
}
