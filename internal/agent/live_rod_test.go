package agent

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"
)

// TestLiveRodHostViewExecuteScript drives a real headless-Chromium web view
// through RodHostView end to end: inject the bridge, navigate to a blank
// page, and run a script through the same Eval as RPC path every handler
// uses. It requires a Chromium-compatible binary (rod downloads one on
// first use if none is found) and is skipped the same way the teacher
// skips its own browser-backed tests.
func TestLiveRodHostViewExecuteScript(t *testing.T) {
	if os.Getenv("SKIP_LIVE_TESTS") != "" {
		t.Skip("Skipping live browser tests (SKIP_LIVE_TESTS set)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	host, err := LaunchRodHostView("", true)
	if err != nil {
		t.Fatalf("launch headless browser: %v", err)
	}
	defer host.Close()

	a := New(host, host, log.New(io.Discard, "", 0))
	host.Attach(a)

	if err := a.Start(io.Discard); err != nil {
		t.Fatalf("start agent: %v", err)
	}
	defer func() { _ = a.Shutdown(ctx) }()

	if err := host.Navigate(ctx, "about:blank"); err != nil {
		t.Fatalf("navigate: %v", err)
	}

	t.Run("normal result round-trips", func(t *testing.T) {
		result, err := a.Eval(ctx, "return 1 + 1;", nil, 5*time.Second)
		if err != nil {
			t.Fatalf("eval: %v", err)
		}
		if string(result) != "2" {
			t.Errorf("got %s, want 2", result)
		}
	})

	// This is spec.md §8 scenario 5: a script that throws a literal
	// new Error('x') must surface as a ScriptError, not break the
	// generated wrapper outright by letting the single quote in the
	// script escape an enclosing string literal.
	t.Run("thrown error with single-quoted literal round-trips", func(t *testing.T) {
		_, err := a.Eval(ctx, "throw new Error('x');", nil, 5*time.Second)
		if err == nil {
			t.Fatal("expected an error, got none")
		}
		scriptErr, ok := err.(*ScriptError)
		if !ok {
			t.Fatalf("expected *ScriptError, got %T: %v", err, err)
		}
		if scriptErr.Message != "x" {
			t.Errorf("message = %q, want %q", scriptErr.Message, "x")
		}
	})

	t.Run("screenshot rasterizes the page to a PNG data URL body", func(t *testing.T) {
		result, err := a.EvalCallback(ctx, "var __target = document.documentElement;\n"+rasterizeScript, nil, 10*time.Second)
		if err != nil {
			t.Fatalf("eval: %v", err)
		}
		if len(result) < 10 {
			t.Errorf("expected a non-trivial base64 PNG payload, got %s", result)
		}
	})
}
