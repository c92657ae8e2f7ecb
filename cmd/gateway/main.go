// Command gateway is the standalone W3C WebDriver gateway executable
// (spec.md §4.C): it binds the public WebDriver HTTP endpoint, spawns the
// target application on session-create, and discovers and talks to its
// in-process automation agent.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/anthropics/webkit-webdriver/internal/gateway"
)

// Exit codes per spec.md §6: 0 normal, 1 fatal startup error, 2 bad
// arguments.
const (
	exitOK            = 0
	exitStartupError  = 1
	exitBadArguments  = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	fs := flag.NewFlagSet("gateway", flag.ContinueOnError)
	port := fs.Int("port", 4444, "public W3C WebDriver port")
	host := fs.String("host", "127.0.0.1", "public W3C WebDriver bind host")
	logLevel := fs.String("log-level", "info", "error|warn|info|debug|trace")
	configPath := fs.String("config", "", "optional YAML config file path")
	traceDir := fs.String("trace-dir", "", "directory for the command trace ledger (empty disables it)")
	version := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitBadArguments
	}

	if *version {
		fmt.Println("webkit-webdriver gateway 0.1.0")
		return exitOK
	}

	cfg, err := gateway.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return exitStartupError
	}

	// CLI flags override file-loaded config, per the teacher's
	// file-then-flags layering (cmd/server/main.go).
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = *port
		case "host":
			cfg.Server.Host = *host
		case "log-level":
			cfg.Server.LogLevel = *logLevel
		case "trace-dir":
			cfg.Trace.Dir = *traceDir
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return exitBadArguments
	}

	gw, err := gateway.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize gateway: %v\n", err)
		return exitStartupError
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := gw.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "gateway exited with error: %v\n", err)
		return exitStartupError
	}
	return exitOK
}
