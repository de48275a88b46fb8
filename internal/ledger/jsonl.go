// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/codex-curator/pkg/types"
)

// JSONL writes one JSON object per line to a file opened in append mode.
type JSONL struct {
	path string
}

// OpenJSONL creates the ledger file (and its directory) if absent.
func OpenJSONL(path string) (*JSONL, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating ledger %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing ledger %s: %w", path, err)
	}
	return &JSONL{path: path}, nil
}

// Path returns the ledger file location.
func (l *JSONL) Path() string { return l.path }

// Append writes rec as a single line. The line is encoded before the file is
// opened so a marshaling failure never leaves a partial entry.
func (l *JSONL) Append(_ context.Context, rec types.TransferRecord) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding transfer record: %w", err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger %s: %w", l.path, err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("appending to ledger %s: %w", l.path, err)
	}
	return f.Close()
}

// Close is a no-op; the file is opened per append.
func (l *JSONL) Close() error { return nil }
