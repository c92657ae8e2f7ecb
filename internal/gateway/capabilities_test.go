package gateway

import "testing"

func TestBinaryPathFromAlwaysMatch(t *testing.T) {
	req := newSessionRequest{}
	req.Capabilities.AlwaysMatch = map[string]any{
		"tauri:options": map[string]any{"binary": "/opt/app/Target"},
	}
	bin, err := req.binaryPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bin != "/opt/app/Target" {
		t.Errorf("binary = %q, want /opt/app/Target", bin)
	}
}

func TestBinaryPathFromFirstMatch(t *testing.T) {
	req := newSessionRequest{}
	req.Capabilities.AlwaysMatch = map[string]any{"browserName": "webkit"}
	req.Capabilities.FirstMatch = []map[string]any{
		{"tauri:options": map[string]any{"binary": "/opt/app/Target"}},
	}
	bin, err := req.binaryPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bin != "/opt/app/Target" {
		t.Errorf("binary = %q, want /opt/app/Target", bin)
	}
}

func TestBinaryPathMissing(t *testing.T) {
	req := newSessionRequest{}
	req.Capabilities.AlwaysMatch = map[string]any{"browserName": "webkit"}
	if _, err := req.binaryPath(); err == nil {
		t.Fatal("expected an error when no tauri:options.binary is present")
	}
}

func TestNegotiatedCapabilitiesEchoesBinary(t *testing.T) {
	caps := negotiatedCapabilities("/opt/app/Target")
	opts, ok := caps["tauri:options"].(map[string]any)
	if !ok {
		t.Fatalf("expected tauri:options in negotiated capabilities, got %#v", caps)
	}
	if opts["binary"] != "/opt/app/Target" {
		t.Errorf("binary = %v, want /opt/app/Target", opts["binary"])
	}
}
