package gateway

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"time"

	"github.com/anthropics/webkit-webdriver/internal/agent"
)

// automationEnvVar is the marker environment variable the gateway sets in
// the spawned application's environment, per spec.md §6. The in-process
// agent only registers itself when it observes this (and only in debug
// builds of the target application, which is outside this repo's scope).
const automationEnvVar = "TAURI_WEBVIEW_AUTOMATION=true"

// signatureLineRE matches the agent's private-listener announcement
// exactly as agent.SignatureLineFormat prints it.
var signatureLineRE = regexp.MustCompile(`^\[webdriver\] listening on port (\d+)$`)

// spawnApp launches the target application binary with the automation
// marker set, and reads its standard output line-by-line — a dedicated
// background task bounded by timeout and cancellable via ctx (spec.md §5)
// — until it observes the agent's signature line or the deadline elapses.
// On success it returns the running *exec.Cmd and the discovered agent
// port; the caller owns terminating the process.
func spawnApp(ctx context.Context, binary string, timeout time.Duration) (*exec.Cmd, int, error) {
	cmd := exec.Command(binary)
	cmd.Env = append(os.Environ(), automationEnvVar)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, 0, fmt.Errorf("attach stdout pipe: %w", err)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, 0, fmt.Errorf("spawn application: %w", err)
	}

	deadlineCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	portCh := make(chan int, 1)
	errCh := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := scanner.Text()
			if m := signatureLineRE.FindStringSubmatch(line); m != nil {
				port := 0
				_, _ = fmt.Sscanf(m[1], "%d", &port)
				portCh <- port
				return
			}
		}
		errCh <- fmt.Errorf("application exited before printing %q", agent.SignatureLineFormat)
	}()

	select {
	case port := <-portCh:
		return cmd, port, nil
	case err := <-errCh:
		_ = cmd.Process.Kill()
		return nil, 0, err
	case <-deadlineCtx.Done():
		_ = cmd.Process.Kill()
		return nil, 0, fmt.Errorf("timed out waiting for agent signature line: %w", deadlineCtx.Err())
	}
}

// terminateApp signals the application to exit gracefully, escalating to
// a forceful kill after grace elapses, per spec.md §4.C's delete sequence.
func terminateApp(cmd *exec.Cmd, grace time.Duration) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	_ = cmd.Process.Signal(os.Interrupt)

	select {
	case <-done:
		return nil
	case <-time.After(grace):
		_ = cmd.Process.Kill()
		<-done
		return nil
	}
}
