package probe

// CheckResult holds the outcome of a single probe.
type CheckResult struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	LatencyMS float64 `json:"latency_ms,omitempty"`
}
