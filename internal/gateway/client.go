package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// agentClient is a small REST client against one agent's private API,
// shaped after codedius-wdc's Client/prepare/do/check (wdc.go) — itself a
// reference WebDriver wire client — adapted to call the in-process
// agent's JSON-over-HTTP surface (spec.md §4.B) instead of a remote
// WebDriver server.
type agentClient struct {
	http    *http.Client
	baseURL string
}

func newAgentClient(port int) *agentClient {
	return &agentClient{
		http:    http.DefaultClient,
		baseURL: fmt.Sprintf("http://127.0.0.1:%d", port),
	}
}

// call POSTs body (marshaled as JSON, or no body if nil) to path and
// decodes the response into out (skipped if out is nil). A non-2xx
// response is parsed as wire.ErrorBody and surfaced as a *W3CError, per
// spec.md §7's propagation policy.
func (c *agentClient) call(ctx context.Context, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build agent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		// Network failure talking to the agent is reported as unknown
		// error. agentCall (handlers_session.go) reports invalid session id
		// only when no session is active before the call is made.
		return NewW3CError(ErrUnknownError, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb wire.ErrorBody
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			_ = json.Unmarshal(data, &eb)
		}
		if eb.Error == "" {
			eb.Error = ErrUnknownError
		}
		return &W3CError{Code: eb.Error, Message: eb.Message}
	}

	if out == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode agent response: %w", err)
	}
	return nil
}
