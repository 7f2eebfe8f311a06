package probe

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestResolverChecker_NoPairsFails(t *testing.T) {
	c := NewResolverChecker(nil, 50*time.Millisecond)
	out := c.Check(context.Background())
	if out.Success {
		t.Fatalf("no pairs configured must fail, got %+v", out)
	}
}

func TestResolverChecker_RotatesPairs(t *testing.T) {
	// both resolvers are black holes; the point is the rotation, visible
	// in the failure messages
	pairs := []ResolverPair{
		{Server: "127.0.0.1", Hostname: "first.invalid"},
		{Server: "127.0.0.2", Hostname: "second.invalid"},
	}
	c := NewResolverChecker(pairs, 50*time.Millisecond)

	out1 := c.Check(context.Background())
	out2 := c.Check(context.Background())
	out3 := c.Check(context.Background())

	if out1.Success || out2.Success || out3.Success {
		t.Fatalf("black-hole resolvers should fail: %+v %+v %+v", out1, out2, out3)
	}
	if !strings.Contains(out1.Message, "first.invalid") || !strings.Contains(out2.Message, "second.invalid") {
		t.Fatalf("calls should rotate pairs: %q then %q", out1.Message, out2.Message)
	}
	if !strings.Contains(out3.Message, "first.invalid") {
		t.Fatalf("rotation should wrap around, got %q", out3.Message)
	}
}

func TestResolverChecker_TimeoutIsBounded(t *testing.T) {
	c := NewResolverChecker([]ResolverPair{{Server: "127.0.0.1", Hostname: "x.invalid"}}, 50*time.Millisecond)

	start := time.Now()
	out := c.Check(context.Background())
	if out.Success {
		t.Fatalf("want timeout failure, got %+v", out)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("check should respect its timeout, took %v", elapsed)
	}
}
