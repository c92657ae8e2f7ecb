package agent

import (
	"strings"
	"testing"
)

func TestBuildSyncWrapperEmbedsScriptAndID(t *testing.T) {
	got := buildSyncWrapper("req-1", "return 1 + 1;", "[]", "document")
	if !strings.Contains(got, "return 1 + 1;") {
		t.Errorf("wrapper missing caller script body:\n%s", got)
	}
	if !strings.Contains(got, `window.B.resolve("req-1"`) {
		t.Errorf("wrapper does not resolve against the request id:\n%s", got)
	}
	if !strings.Contains(got, "catch (e)") {
		t.Errorf("wrapper must catch a thrown error and resolve it, not crash the page:\n%s", got)
	}
}

// TestBuildSyncWrapperHandlesQuotesInScript guards against the bug where
// the caller's script was spliced into an already-single-quoted
// new Function(...) string argument: a single quote in the script (the
// common case — requireElementScript's own new Error('element not
// found') hits this) broke the generated JS before it ever ran, and would
// have broken spec.md §8 scenario 5's literal throw new Error('x').
func TestBuildSyncWrapperHandlesQuotesInScript(t *testing.T) {
	script := `throw new Error('x');`
	got := buildSyncWrapper("req-3", script, "[]", "document")

	if !strings.Contains(got, script) {
		t.Fatalf("expected the script to appear verbatim, unescaped, as literal source:\n%s", got)
	}
	if strings.Contains(got, "new Function") {
		t.Errorf("expected no Function-constructor indirection (the source of the quoting bug):\n%s", got)
	}
}

func TestBuildCallbackWrapperHandlesQuotesInScript(t *testing.T) {
	script := `done(document.querySelector('.shadow-text'));`
	got := buildCallbackWrapper("req-4", script, "[]", "document")

	if !strings.Contains(got, script) {
		t.Fatalf("expected the script to appear verbatim, unescaped, as literal source:\n%s", got)
	}
	if strings.Contains(got, "new Function") {
		t.Errorf("expected no Function-constructor indirection (the source of the quoting bug):\n%s", got)
	}
}

func TestBuildCallbackWrapperPassesDoneAsLastArgument(t *testing.T) {
	got := buildCallbackWrapper("req-2", "done(42);", "[]", "document")
	if !strings.Contains(got, "done(42);") {
		t.Errorf("wrapper missing caller script body:\n%s", got)
	}
	if !strings.Contains(got, `window.B.resolve("req-2"`) {
		t.Errorf("done() must resolve against the request id:\n%s", got)
	}
	if !strings.Contains(got, "__args.push(__done);") {
		t.Errorf("done must be appended as the last element of arguments:\n%s", got)
	}
}
