package gateway

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// maxTraceFiles bounds how many rotated trace files the ledger keeps,
// mirroring the teacher's recorder.MaxRotatedFiles (internal/recorder).
const maxTraceFiles = 3

// traceEvent is one record in the command trace ledger (SPEC_FULL.md §3,
// ADDED): every W3C command the gateway executes for a session, with its
// outcome. Purely observational — see DESIGN.md.
type traceEvent struct {
	Timestamp time.Time `json:"ts"`
	SessionID string    `json:"session_id,omitempty"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	ElapsedMS int64     `json:"elapsed_ms"`
	Status    int       `json:"status"`
	Error     string    `json:"error,omitempty"`
}

// traceLedger is a rotating JSONL writer, adapted from the teacher's
// internal/recorder.Recorder: one file per gateway process lifetime,
// oldest files pruned past maxTraceFiles. Disabled (all methods are no-ops)
// when constructed with an empty directory.
type traceLedger struct {
	mu      sync.Mutex
	file    *os.File
	encoder *json.Encoder
}

// newTraceLedger opens (creating if needed) the trace directory and starts
// a fresh trace file. dir == "" disables tracing entirely, per
// SPEC_FULL.md's "--trace-dir \"\" disables the command trace ledger".
func newTraceLedger(dir string) (*traceLedger, error) {
	if dir == "" {
		return &traceLedger{}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create trace dir: %w", err)
	}
	if err := rotateTraceFiles(dir); err != nil {
		return nil, fmt.Errorf("rotate trace files: %w", err)
	}
	name := fmt.Sprintf("trace_%d.jsonl", time.Now().UnixMilli())
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	return &traceLedger{file: f, encoder: json.NewEncoder(f)}, nil
}

// Log writes one trace event; a no-op on a disabled ledger.
func (t *traceLedger) Log(evt traceEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.encoder == nil {
		return
	}
	evt.Timestamp = time.Now()
	_ = t.encoder.Encode(evt)
}

// Close releases the underlying file, if any.
func (t *traceLedger) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	t.encoder = nil
	return err
}

// rotateTraceFiles keeps only the newest maxTraceFiles-1 existing trace
// files, making room for the one about to be created.
func rotateTraceFiles(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	type fileInfo struct {
		name string
		mod  time.Time
	}
	var files []fileInfo
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jsonl" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, fileInfo{e.Name(), info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].mod.After(files[j].mod) })
	keep := maxTraceFiles - 1
	if keep < 0 {
		keep = 0
	}
	for i := keep; i < len(files); i++ {
		_ = os.Remove(filepath.Join(dir, files[i].name))
	}
	return nil
}
