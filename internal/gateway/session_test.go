package gateway

import (
	"testing"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

func TestMintElementAlwaysIssuesFreshID(t *testing.T) {
	s := newSession(nil, 0)
	t1 := elementTriple{Strategy: wire.StrategyCSS, Selector: "#counter", Index: 0}

	id1 := s.mintElement(t1)
	id2 := s.mintElement(t1)
	if id1 == id2 {
		t.Fatalf("mintElement returned the same id twice for identical triples: %q", id1)
	}

	got1, ok := s.lookupElement(id1)
	if !ok || got1 != t1 {
		t.Errorf("lookupElement(%q) = %+v, %v, want %+v, true", id1, got1, ok, t1)
	}
	got2, ok := s.lookupElement(id2)
	if !ok || got2 != t1 {
		t.Errorf("lookupElement(%q) = %+v, %v, want %+v, true", id2, got2, ok, t1)
	}
}

func TestLookupElementUnknown(t *testing.T) {
	s := newSession(nil, 0)
	if _, ok := s.lookupElement("does-not-exist"); ok {
		t.Error("expected lookup of an unknown id to report false")
	}
}

func TestMintAndLookupShadow(t *testing.T) {
	s := newSession(nil, 0)
	host := elementTriple{Strategy: wire.StrategyCSS, Selector: "#shadow-host", Index: 0}
	id := s.mintShadow(host)
	got, ok := s.lookupShadow(id)
	if !ok || got != host {
		t.Errorf("lookupShadow(%q) = %+v, %v, want %+v, true", id, got, ok, host)
	}
}

func TestSessionTimeoutsDefaultAndPartialUpdate(t *testing.T) {
	s := newSession(nil, 0)
	if got := s.getTimeouts(); got != wire.DefaultTimeouts() {
		t.Fatalf("initial timeouts = %+v, want defaults %+v", got, wire.DefaultTimeouts())
	}

	s.setTimeouts(wire.TimeoutConfig{Script: 5000})
	got := s.getTimeouts()
	if got.Script != 5000 {
		t.Errorf("script timeout = %d, want 5000", got.Script)
	}
	// script and pageLoad values <= 0 in the update are left at their prior
	// value; implicit: 0 is applied as a valid explicit value.
	if got.PageLoad != wire.DefaultTimeouts().PageLoad {
		t.Errorf("pageLoad timeout should be unchanged, got %d", got.PageLoad)
	}

	s.setTimeouts(wire.TimeoutConfig{Implicit: 1500})
	if got := s.getTimeouts(); got.Implicit != 1500 {
		t.Errorf("implicit timeout = %d, want 1500", got.Implicit)
	}
}
