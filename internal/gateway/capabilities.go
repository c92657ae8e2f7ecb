package gateway

import "fmt"

// newSessionRequest is the body of POST /session. The gateway only
// recognizes the single vendor capability spec.md §6 names
// (tauri:options.binary); everything else under alwaysMatch/firstMatch is
// ignored for compatibility with clients that emit their own vendor
// capabilities (e.g. goog:chromeOptions).
type newSessionRequest struct {
	Capabilities struct {
		AlwaysMatch map[string]any   `json:"alwaysMatch"`
		FirstMatch  []map[string]any `json:"firstMatch"`
	} `json:"capabilities"`
}

// binaryPath extracts capabilities.alwaysMatch["tauri:options"]["binary"],
// falling back to the first firstMatch entry that defines it, per spec.md
// §4.C's "parse capabilities.alwaysMatch.tauri:options.binary as the
// application path".
func (req newSessionRequest) binaryPath() (string, error) {
	if bin, ok := extractBinary(req.Capabilities.AlwaysMatch); ok {
		return bin, nil
	}
	for _, fm := range req.Capabilities.FirstMatch {
		if bin, ok := extractBinary(fm); ok {
			return bin, nil
		}
	}
	return "", fmt.Errorf("capabilities.alwaysMatch[\"tauri:options\"][\"binary\"] is required")
}

func extractBinary(caps map[string]any) (string, bool) {
	raw, ok := caps["tauri:options"]
	if !ok {
		return "", false
	}
	opts, ok := raw.(map[string]any)
	if !ok {
		return "", false
	}
	bin, ok := opts["binary"].(string)
	if !ok || bin == "" {
		return "", false
	}
	return bin, true
}

// negotiatedCapabilities echoes back the single capability the gateway
// actually used, per W3C's requirement that session-create's response
// include the negotiated capability set.
func negotiatedCapabilities(binary string) map[string]any {
	return map[string]any{
		"tauri:options": map[string]any{"binary": binary},
	}
}
