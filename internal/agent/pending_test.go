package agent

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestPendingTableResolveDeliversResult(t *testing.T) {
	p := newPendingTable()
	id, s := p.register()

	want := json.RawMessage(`{"ok":true}`)
	go p.resolve(id, want)

	got, err := p.wait(context.Background(), id, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestPendingTableResolveUnknownIDIsNoOp(t *testing.T) {
	p := newPendingTable()
	// Resolving an id that was never registered must not panic.
	p.resolve("does-not-exist", json.RawMessage(`null`))
}

func TestPendingTableTimeoutKeepsSlotAndDropsLateReply(t *testing.T) {
	p := newPendingTable()
	id, s := p.register()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := p.wait(ctx, id, s)
	if err != ErrTimeout {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}

	// Per DESIGN.md's resolution of spec.md §9's open question: the slot
	// stays registered in the table, but a subsequent B.resolve for the
	// same id is a silent no-op rather than reopening it.
	p.resolve(id, json.RawMessage(`"late"`))

	select {
	case <-s.ch:
		t.Fatal("a late resolve after timeout must not be delivered")
	default:
	}
}

func TestPendingTableSecondResolveIsIgnored(t *testing.T) {
	p := newPendingTable()
	id, s := p.register()

	p.resolve(id, json.RawMessage(`"first"`))
	p.resolve(id, json.RawMessage(`"second"`))

	got, err := p.wait(context.Background(), id, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `"first"` {
		t.Errorf("got %s, want %q", got, "first")
	}
}
