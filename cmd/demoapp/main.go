// Command demoapp is a reference "host application" standing in for the
// real WKWebView-embedding app this project targets (SPEC_FULL.md §2):
// no such macOS host is available in this module, so demoapp plays its
// role end to end — it links the agent exactly as a real host would,
// serves a small demo page covering every scenario in spec.md §8 (a
// counter, a shadow host, an iframe), and drives the web view through
// go-rod's CDP connection via internal/agent.RodHostView instead of a
// platform WKWebView hook.
//
// It only runs when launched with TAURI_WEBVIEW_AUTOMATION=true in its
// environment, matching spec.md §6: "the in-process agent is registered
// only in debug builds of the target application." The gateway
// (cmd/gateway) sets this automatically when it spawns a binary built
// from this package.
package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/webkit-webdriver/internal/agent"
)

//go:embed page.html frame.html
var demoFiles embed.FS

func main() {
	os.Exit(run())
}

func run() int {
	headless := flag.Bool("headless", true, "run the underlying browser headless")
	browserBin := flag.String("browser-bin", "", "path to a chromium-compatible binary (empty: let rod locate/download one)")
	flag.Parse()

	if os.Getenv("TAURI_WEBVIEW_AUTOMATION") != "true" {
		fmt.Fprintln(os.Stderr, "demoapp: automation disabled (TAURI_WEBVIEW_AUTOMATION not set); running as a plain no-op")
		return 0
	}

	logger := log.New(os.Stderr, "demoapp: ", log.LstdFlags)

	srv, url, err := serveDemoPage()
	if err != nil {
		logger.Printf("failed to start demo page server: %v", err)
		return 1
	}
	defer srv.Close()

	host, err := agent.LaunchRodHostView(*browserBin, *headless)
	if err != nil {
		logger.Printf("failed to launch host web view: %v", err)
		return 1
	}
	defer host.Close()

	a := agent.New(host, host, logger)
	host.Attach(a)

	if err := a.Start(os.Stdout); err != nil {
		logger.Printf("failed to start agent: %v", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := host.Navigate(ctx, url); err != nil {
		logger.Printf("failed to navigate to demo page: %v", err)
		return 1
	}

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()
	_ = a.Shutdown(shutdownCtx)
	return 0
}

// serveDemoPage binds a loopback HTTP listener serving the embedded demo
// page and its iframe document, and returns the root page's URL. Serving
// over loopback HTTP (rather than a file:// URL) mirrors the real target's
// custom, non-file URL scheme closely enough to exercise the same
// same-origin-iframe and cookie-jar-unavailable conditions spec.md §3
// describes, without depending on any particular scheme name.
func serveDemoPage() (*http.Server, string, error) {
	sub, err := fs.Sub(demoFiles, ".")
	if err != nil {
		return nil, "", fmt.Errorf("prepare embedded demo filesystem: %w", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, "", fmt.Errorf("bind demo page listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(sub)))
	srv := &http.Server{Handler: mux}
	go func() {
		_ = srv.Serve(ln)
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	return srv, fmt.Sprintf("http://127.0.0.1:%d/page.html", port), nil
}
