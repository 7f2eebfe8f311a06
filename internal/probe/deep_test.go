package probe

import (
	"context"
	"testing"
)

// fake checkers keyed by target; unknown targets fail
type fakeTargetChecker map[string]bool

func (f fakeTargetChecker) Check(ctx context.Context, target string) CheckResult {
	if f[target] {
		return CheckResult{Success: true, Message: "ok"}
	}
	return CheckResult{Success: false, Message: "down"}
}

func TestDeepChecker_PartialFailureStaysUp(t *testing.T) {
	d := &DeepChecker{
		Pinger:          fakeTargetChecker{"a": true, "b": true},
		Web:             fakeTargetChecker{"http://x/": true},
		PingHosts:       []string{"a", "b"},
		WebTargets:      []string{"http://x/", "http://dead/"},
		FailureFraction: 0.25,
	}

	up, err := d.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	// 1 failure out of 4 == exactly the fraction; must not confirm an outage
	if !up {
		t.Fatalf("one dead site out of four checks should not confirm an outage")
	}
}

func TestDeepChecker_MajorityFailureConfirmsOutage(t *testing.T) {
	d := &DeepChecker{
		Pinger:          fakeTargetChecker{},
		Web:             fakeTargetChecker{"http://x/": true},
		PingHosts:       []string{"a", "b", "c"},
		WebTargets:      []string{"http://x/"},
		FailureFraction: 0.25,
	}

	up, err := d.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if up {
		t.Fatalf("3 of 4 checks failing should confirm the outage")
	}
}

func TestDeepChecker_NoTargetsIsAnError(t *testing.T) {
	d := &DeepChecker{Pinger: fakeTargetChecker{}, Web: fakeTargetChecker{}}
	up, err := d.Confirm(context.Background())
	if err == nil {
		t.Fatalf("want configuration error with no targets")
	}
	if up {
		t.Fatalf("verdict must fail safe when misconfigured")
	}
}
