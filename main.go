package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"

	"sparqlx/client"
	"sparqlx/config"
	"sparqlx/session"
)

const usage = `Usage:
  sparqlx        Start the workbench

Settings are read from %s when it exists.
Keys are listed in the workbench with F1.
`

func main() {
	if len(os.Args) > 1 {
		path, _ := config.Path()
		fmt.Printf(usage, path)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	closeLog, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	scr, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := scr.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	scr.EnableMouse()
	scr.EnablePaste()

	// the terminal has to be restored before a panic is printed
	defer func() {
		if r := recover(); r != nil {
			scr.Fini()
			log.Printf("panic: %v\n%s", r, debug.Stack())
			fmt.Fprintf(os.Stderr, "panic: %v\n%s", r, debug.Stack())
			os.Exit(2)
		}
		scr.Fini()
	}()

	exec := client.NewExecutor(cfg.Timeout())
	d := client.NewDispatcher(exec)
	defer d.Close()

	log.Printf("starting against %s", cfg.Endpoint)
	st := session.NewState(cfg)
	return session.Run(context.Background(), scr, st, d, exec, cfg.ProbeInterval())
}

// setupLogging sends the log to a file in the config directory when debug
// is on and discards it otherwise, since the terminal belongs to the UI.
func setupLogging(cfg *config.Config) (func(), error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if !cfg.Debug {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "sparqlx.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("log file: %w", err)
	}
	log.SetOutput(f)
	return func() { f.Close() }, nil
}
