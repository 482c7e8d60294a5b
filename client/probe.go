package client

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// ProbeTimeout bounds a single endpoint probe.
const ProbeTimeout = 3 * time.Second

// Status is the reachability of an endpoint
type Status int

const (
	StatusUnknown Status = iota
	StatusConnected
	StatusServerError
	StatusUnreachable
)

func (s Status) String() string {
	switch s {
	case StatusConnected:
		return "Connected"
	case StatusServerError:
		return "Server Error"
	case StatusUnreachable:
		return "Disconnected"
	default:
		return "Checking..."
	}
}

// Probe sends a GET to endpoint. Any response below 500 counts as connected.
func (e *Executor) Probe(ctx context.Context, endpoint string) Status {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSpace(endpoint), nil)
	if err != nil {
		return StatusUnreachable
	}
	resp, err := e.HTTP.Do(req)
	if err != nil {
		return StatusUnreachable
	}
	resp.Body.Close()
	if resp.StatusCode < 500 {
		return StatusConnected
	}
	return StatusServerError
}
