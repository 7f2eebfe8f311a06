package probe

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// hostPinger is what DeepChecker needs from PingChecker; swapped for a fake in tests.
type hostPinger interface {
	Check(ctx context.Context, host string) CheckResult
}

// webChecker is what DeepChecker needs from HTTPChecker.
type webChecker interface {
	Check(ctx context.Context, target string) CheckResult
}

// DeepChecker is the detailed check: it fans out over every ICMP target and
// web URL in parallel and declares the network up unless the failure count
// exceeds FailureFraction of all checks. A partial failure (one dead site,
// one unreachable resolver) therefore never confirms an outage.
type DeepChecker struct {
	Pinger          hostPinger
	Web             webChecker
	PingHosts       []string
	WebTargets      []string
	FailureFraction float64
	Logger          *zap.Logger
}

// DefaultPingHosts mirror the sort of mix worth verifying against: big
// anycast names plus local and ISP hops.
func DefaultPingHosts() []string {
	return []string{
		"www.google.com",
		"www.amazon.com",
		"www.microsoft.com",
	}
}

func DefaultWebTargets() []string {
	// plain http on purpose: cheaper handshakes for a reachability verdict
	return []string{
		"http://www.google.com/",
		"http://www.amazon.com/",
		"http://www.microsoft.com/",
	}
}

// Confirm reports whether the network looks up. It never returns an error
// for individual probe failures; those are the signal. The only error case
// is a configuration with nothing to check.
func (d *DeepChecker) Confirm(ctx context.Context) (bool, error) {
	total := len(d.PingHosts) + len(d.WebTargets)
	if total == 0 {
		return false, errors.New("deep check has no targets")
	}

	var failures atomic.Int32
	g, gctx := errgroup.WithContext(ctx)

	for _, host := range d.PingHosts {
		g.Go(func() error {
			out := d.Pinger.Check(gctx, host)
			if !out.Success {
				failures.Add(1)
				d.log().Debug("deep_ping_fail", zap.String("host", host), zap.String("reason", out.Message))
			}
			return nil
		})
	}
	for _, target := range d.WebTargets {
		g.Go(func() error {
			out := d.Web.Check(gctx, target)
			if !out.Success {
				failures.Add(1)
				d.log().Debug("deep_web_fail", zap.String("url", target), zap.String("reason", out.Message))
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	failed := int(failures.Load())
	fraction := d.FailureFraction
	if fraction <= 0 {
		fraction = 0.25
	}
	up := float64(failed) <= fraction*float64(total)

	d.log().Debug("deep_check_done",
		zap.Int("checks", total),
		zap.Int("failures", failed),
		zap.Bool("up", up),
	)
	return up, nil
}

func (d *DeepChecker) log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
