// Package client runs SPARQL requests against an HTTP endpoint.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sparqlx/results"
)

// DefaultTimeout bounds a request when no timeout is configured.
const DefaultTimeout = 300 * time.Second

// how much of an error body is read looking for a message
const errorBodyLimit = 4 << 10

// Runner executes one query. Executor is the HTTP implementation.
type Runner interface {
	Execute(ctx context.Context, endpoint, query string) (*results.QueryResult, error)
}

// Executor issues SPARQL requests over HTTP.
type Executor struct {
	HTTP *http.Client
}

// NewExecutor returns an executor whose requests time out after timeout.
func NewExecutor(timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{HTTP: &http.Client{Timeout: timeout}}
}

// RequestURL adds the query and format parameters to endpoint, keeping any
// parameters already present.
func RequestURL(endpoint, query string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("endpoint %q is not an absolute URL", endpoint)
	}
	params := u.Query()
	params.Set("query", query)
	params.Set("format", results.MediaType)
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// Execute POSTs query to endpoint and decodes the results document.
// Every error is an *ExecutionError.
func (e *Executor) Execute(ctx context.Context, endpoint, query string) (*results.QueryResult, error) {
	target, err := RequestURL(endpoint, query)
	if err != nil {
		return nil, &ExecutionError{Kind: Network, Err: fmt.Errorf("invalid endpoint: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return nil, &ExecutionError{Kind: Network, Err: err}
	}
	req.Header.Set("Content-Type", results.MediaType)
	req.Header.Set("Accept", results.MediaType)

	resp, err := e.HTTP.Do(req)
	if err != nil {
		return nil, &ExecutionError{Kind: Network, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ExecutionError{
			Kind:       HTTPStatus,
			StatusCode: resp.StatusCode,
			Message:    firstLine(io.LimitReader(resp.Body, errorBodyLimit)),
		}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ExecutionError{Kind: Network, Err: err}
	}
	res, err := results.Decode(body)
	if err != nil {
		return nil, &ExecutionError{Kind: Decode, Err: err}
	}
	return res, nil
}

// firstLine returns the first non-blank line of r.
func firstLine(r io.Reader) string {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line
		}
	}
	return ""
}

// IsCanceled reports whether err came from a cancelled request.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
