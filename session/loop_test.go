package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"sparqlx/client"
	"sparqlx/config"
	"sparqlx/results"
)

type fixedProber struct{ status client.Status }

func (p fixedProber) Probe(context.Context, string) client.Status { return p.status }

// screenText returns the visible screen, one line per row.
func screenText(sim tcell.SimulationScreen) string {
	cells, w, h := sim.GetContents()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteRune(c.Runes[0])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func waitForScreen(t *testing.T, sim tcell.SimulationScreen, substr string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(screenText(sim), substr) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("screen never showed %q:\n%s", substr, screenText(sim))
}

func TestRunEndToEnd(t *testing.T) {
	const query = "select * where { ?s ?p ?o } limit 1"
	var (
		mu  sync.Mutex
		got []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, r.Method+" "+r.URL.Query().Get("query")+" "+r.URL.Query().Get("format"))
		mu.Unlock()
		w.Header().Set("Content-Type", results.MediaType)
		w.Write([]byte(`{"head":{"vars":["s"]},"results":{"bindings":[{"s":{"type":"uri","value":"http://ex/1"}}]}}`))
	}))
	defer srv.Close()

	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer sim.Fini()
	sim.SetSize(100, 30)

	cfg := config.DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.Query = query
	st := NewState(cfg)
	d := client.NewDispatcher(client.NewExecutor(5 * time.Second))
	defer d.Close()

	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), sim, st, d, fixedProber{client.StatusConnected}, 10*time.Millisecond)
	}()

	waitForScreen(t, sim, "Connected")
	sim.InjectKey(tcell.KeyCtrlR, 0, tcell.ModCtrl)
	waitForScreen(t, sim, "http://ex/1")
	waitForScreen(t, sim, "Results (1 rows)")

	sim.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after Ctrl-Q")
	}

	mu.Lock()
	defer mu.Unlock()
	want := "POST " + query + " " + results.MediaType
	if len(got) != 1 || got[0] != want {
		t.Errorf("requests = %q, want [%q]", got, want)
	}
}

func TestRunReportsErrorsInline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Virtuoso 37000 Error SP030: SPARQL compiler", http.StatusBadRequest)
	}))
	defer srv.Close()

	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer sim.Fini()
	sim.SetSize(100, 30)

	cfg := config.DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.Query = "not a query"
	st := NewState(cfg)
	d := client.NewDispatcher(client.NewExecutor(5 * time.Second))
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, sim, st, d, fixedProber{}, 0) }()

	sim.InjectKey(tcell.KeyF5, 0, tcell.ModNone)
	waitForScreen(t, sim, "HTTP 400")

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
