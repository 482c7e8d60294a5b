package client

import (
	"context"
	"log"
	"sync"
	"time"

	"sparqlx/results"
)

// Completion is the outcome of one dispatched request.
type Completion struct {
	Seq     uint64
	Result  *results.QueryResult
	Err     error
	Elapsed time.Duration
}

// Dispatcher runs requests off the caller's goroutine. Each submission gets
// a sequence number one greater than the last and cancels the request before
// it. Completions of cancelled requests are still delivered; receivers match
// them against the sequence number they are waiting for.
type Dispatcher struct {
	runner Runner

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc

	done      chan Completion
	quit      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewDispatcher(r Runner) *Dispatcher {
	return &Dispatcher{
		runner: r,
		done:   make(chan Completion),
		quit:   make(chan struct{}),
	}
}

// Done delivers completions in the order requests finish.
func (d *Dispatcher) Done() <-chan Completion {
	return d.done
}

// Submit starts a request and returns its sequence number.
func (d *Dispatcher) Submit(endpoint, query string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
		log.Printf("dispatch: request %d superseded", d.seq)
	}
	d.seq++
	seq := d.seq
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()
		start := time.Now()
		res, err := d.runner.Execute(ctx, endpoint, query)
		c := Completion{Seq: seq, Result: res, Err: err, Elapsed: time.Since(start)}
		select {
		case d.done <- c:
		case <-d.quit:
		}
	}()
	log.Printf("dispatch: request %d to %s", seq, endpoint)
	return seq
}

// Cancel aborts the in-flight request, if any.
func (d *Dispatcher) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
		log.Printf("dispatch: request %d cancelled", d.seq)
	}
}

// Close cancels outstanding work and waits for its goroutines. No
// completions are delivered afterwards.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.Cancel()
		close(d.quit)
		d.wg.Wait()
	})
}
