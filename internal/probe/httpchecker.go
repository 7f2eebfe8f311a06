package probe

import (
	"context"
	"net/http"
	"time"
)

// HTTPChecker probes a URL with a HEAD request, falling back to GET when the
// server rejects HEAD. Any 2xx/3xx counts as reachable.
type HTTPChecker struct {
	Client *http.Client
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &HTTPChecker{
		Client: &http.Client{Timeout: timeout},
	}
}

func (h *HTTPChecker) Check(ctx context.Context, target string) CheckResult {
	start := time.Now()

	do := func(method string) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, method, target, nil)
		if err != nil {
			return nil, err
		}
		return h.Client.Do(req)
	}

	resp, err := do(http.MethodHead)
	if err == nil && resp.StatusCode == http.StatusMethodNotAllowed {
		resp.Body.Close()
		resp, err = do(http.MethodGet)
	}
	latency := time.Since(start).Seconds() * 1000
	if err != nil {
		return CheckResult{Success: false, Message: err.Error(), LatencyMS: latency}
	}
	defer resp.Body.Close()

	success := resp.StatusCode >= 200 && resp.StatusCode < 400
	return CheckResult{Success: success, Message: resp.Status, LatencyMS: latency}
}
