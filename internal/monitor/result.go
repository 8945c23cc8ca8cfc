package monitor

import (
	"fmt"
	"time"
)

// Outcome represents how a single probe ended
type Outcome string

const (
	OutcomeReachable   Outcome = "reachable"
	OutcomeUnreachable Outcome = "unreachable"
	OutcomeError       Outcome = "error"
)

// Result represents the result of probing one host.
// Err is set only when the probe mechanism itself failed.
type Result struct {
	Host         string
	Reachable    bool
	Err          error
	ResponseTime time.Duration
	CheckedAt    time.Time
}

// Outcome classifies the result
func (r Result) Outcome() Outcome {
	switch {
	case r.Err != nil:
		return OutcomeError
	case r.Reachable:
		return OutcomeReachable
	default:
		return OutcomeUnreachable
	}
}

// ProbeError reports that a host could not be probed at all,
// e.g. name resolution failed or the socket was not permitted.
type ProbeError struct {
	Host string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Host, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}
