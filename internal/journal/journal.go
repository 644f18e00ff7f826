// Package journal provides single-writer persistence for shared JSON
// array files.
//
// The interaction log and the waitlist are both flat JSON arrays shared
// across sessions. A Journal owns one such file: all appends funnel
// through a queue drained by a single goroutine, and every rewrite goes
// through a temp file and rename, so concurrent sessions cannot lose
// updates to interleaved read-modify-write cycles.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Config holds journal settings.
type Config struct {
	Path      string
	QueueSize int
}

type appendRequest struct {
	value any
	done  chan error
}

// Journal appends records to a JSON array file through a single writer.
type Journal struct {
	path   string
	queue  chan appendRequest
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New creates a journal for the given file and starts its writer.
func New(cfg Config, logger *slog.Logger) (*Journal, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("journal path cannot be empty")
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	j := &Journal{
		path:   cfg.Path,
		queue:  make(chan appendRequest, cfg.QueueSize),
		logger: logger,
	}

	j.wg.Add(1)
	go j.run()

	return j, nil
}

// Append queues a record for persistence without waiting for the write.
// When the queue is full the record is dropped with a warning rather
// than blocking the caller.
func (j *Journal) Append(v any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		j.logger.Warn("journal append after close dropped", "path", j.path)
		return
	}

	select {
	case j.queue <- appendRequest{value: v}:
	default:
		j.logger.Warn("journal queue full, record dropped", "path", j.path)
	}
}

// AppendSync persists a record and waits for the write to complete.
// Used at session finalize so the record is durable before the caller
// moves on.
func (j *Journal) AppendSync(ctx context.Context, v any) error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return fmt.Errorf("journal is closed")
	}
	req := appendRequest{value: v, done: make(chan error, 1)}
	j.mu.Unlock()

	select {
	case j.queue <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains pending appends and stops the writer.
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	close(j.queue)
	j.mu.Unlock()

	j.wg.Wait()
	return nil
}

func (j *Journal) run() {
	defer j.wg.Done()

	for req := range j.queue {
		err := j.appendToFile(req.value)
		if err != nil {
			j.logger.Error("Failed to append journal record", "error", err, "path", j.path)
		}
		if req.done != nil {
			req.done <- err
		}
	}
}

func (j *Journal) appendToFile(v any) error {
	existing := j.readExisting()

	record, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal journal record: %w", err)
	}
	existing = append(existing, record)

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal journal array: %w", err)
	}

	// Write-then-rename keeps readers from ever observing a partial file.
	tmp, err := os.CreateTemp(filepath.Dir(j.path), filepath.Base(j.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp journal file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp journal file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp journal file: %w", err)
	}
	if err := os.Rename(tmpName, j.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace journal file: %w", err)
	}
	return nil
}

// readExisting loads the current file content. A single object is
// coerced to a one-element array; missing or corrupt files fall back to
// an empty list.
func (j *Journal) readExisting() []json.RawMessage {
	data, err := os.ReadFile(j.path)
	if err != nil {
		return nil
	}

	var asArray []json.RawMessage
	if err := json.Unmarshal(data, &asArray); err == nil {
		return asArray
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(data, &asObject); err == nil {
		return []json.RawMessage{json.RawMessage(data)}
	}

	j.logger.Warn("journal file is corrupt, starting fresh", "path", j.path)
	return nil
}
