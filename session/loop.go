package session

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"sparqlx/canvas"
	"sparqlx/client"
)

// Prober reports whether an endpoint answers.
type Prober interface {
	Probe(ctx context.Context, endpoint string) client.Status
}

// Run drives the session until a quit key or until ctx ends. Each pass
// redraws, dispatches a pending submission and then waits for the next
// terminal event, completion, probe result or tick. Probing is off when
// interval is zero.
func Run(ctx context.Context, scr tcell.Screen, st *State, d *client.Dispatcher, p Prober, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go scr.ChannelEvents(events, quit)
	defer close(quit)

	probes := make(chan client.Status, 1)
	probe := func() {
		endpoint := st.Endpoint()
		go func() {
			status := p.Probe(ctx, endpoint)
			select {
			case probes <- status:
			case <-ctx.Done():
			}
		}()
	}
	var probeTick <-chan time.Time
	if interval > 0 {
		t := time.NewTicker(interval)
		defer t.Stop()
		probeTick = t.C
		probe()
	}

	// keeps the elapsed time moving while a request runs
	spin := time.NewTicker(time.Second)
	defer spin.Stop()

	cv := canvas.New(scr)
	draw := func() { cv.Frame(func() { st.Draw(cv) }) }

	for {
		draw()
		if req, ok := st.TakeSubmission(); ok {
			st.Dispatched(d.Submit(req.Endpoint, req.Query))
			draw()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch st.HandleKey(ev) {
				case CmdQuit:
					return nil
				case CmdCancel:
					d.Cancel()
					st.Cancelled()
				}
			case *tcell.EventMouse:
				st.HandleMouse(ev)
			case *tcell.EventPaste:
				st.HandlePaste(ev.Start())
			case *tcell.EventResize:
				scr.Sync()
			}
		case c := <-d.Done():
			st.Complete(c)
		case status := <-probes:
			st.SetProbe(status)
		case <-probeTick:
			probe()
		case <-spin.C:
		}
	}
}
