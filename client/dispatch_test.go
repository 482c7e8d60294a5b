package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"sparqlx/results"
)

// blockingRunner waits for a release or cancellation per query.
type blockingRunner struct {
	mu       sync.Mutex
	started  chan string
	release  map[string]chan struct{}
	canceled map[string]bool
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{
		started:  make(chan string, 8),
		release:  map[string]chan struct{}{},
		canceled: map[string]bool{},
	}
}

func (r *blockingRunner) gate(query string) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.release[query]
	if !ok {
		ch = make(chan struct{})
		r.release[query] = ch
	}
	return ch
}

func (r *blockingRunner) Execute(ctx context.Context, endpoint, query string) (*results.QueryResult, error) {
	gate := r.gate(query)
	r.started <- query
	select {
	case <-gate:
		return &results.QueryResult{Variables: []string{query}}, nil
	case <-ctx.Done():
		r.mu.Lock()
		r.canceled[query] = true
		r.mu.Unlock()
		return nil, &ExecutionError{Kind: Network, Err: ctx.Err()}
	}
}

func receive(t *testing.T, d *Dispatcher) Completion {
	t.Helper()
	select {
	case c := <-d.Done():
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no completion delivered")
		return Completion{}
	}
}

func TestDispatcherSequence(t *testing.T) {
	r := newBlockingRunner()
	d := NewDispatcher(r)
	defer d.Close()

	seq := d.Submit("http://ex/sparql", "q1")
	if seq != 1 {
		t.Fatalf("first Submit() = %d, want 1", seq)
	}
	<-r.started
	close(r.gate("q1"))
	c := receive(t, d)
	if c.Seq != 1 || c.Err != nil || c.Result.Variables[0] != "q1" {
		t.Errorf("completion = %+v", c)
	}
	if seq := d.Submit("http://ex/sparql", "q2"); seq != 2 {
		t.Errorf("second Submit() = %d, want 2", seq)
	}
	<-r.started
	close(r.gate("q2"))
	receive(t, d)
}

func TestDispatcherSupersede(t *testing.T) {
	r := newBlockingRunner()
	d := NewDispatcher(r)
	defer d.Close()

	d.Submit("http://ex/sparql", "old")
	<-r.started
	newer := d.Submit("http://ex/sparql", "new")
	<-r.started

	stale := receive(t, d)
	if stale.Seq != 1 || !IsCanceled(stale.Err) {
		t.Errorf("superseded completion = %+v, want seq 1 cancelled", stale)
	}
	close(r.gate("new"))
	c := receive(t, d)
	if c.Seq != newer || c.Err != nil {
		t.Errorf("completion = %+v, want seq %d ok", c, newer)
	}
}

func TestDispatcherCancel(t *testing.T) {
	r := newBlockingRunner()
	d := NewDispatcher(r)
	defer d.Close()

	d.Submit("http://ex/sparql", "slow")
	<-r.started
	d.Cancel()
	c := receive(t, d)
	if !IsCanceled(c.Err) {
		t.Errorf("completion error = %v, want cancellation", c.Err)
	}
	d.Cancel()
}

func TestDispatcherCloseStopsDelivery(t *testing.T) {
	r := newBlockingRunner()
	d := NewDispatcher(r)

	d.Submit("http://ex/sparql", "pending")
	<-r.started

	closed := make(chan struct{})
	go func() {
		d.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close() did not return")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.canceled["pending"] {
		t.Error("Close() did not cancel the in-flight request")
	}
	d.Close()
}
