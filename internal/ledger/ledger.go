// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger appends transfer records to durable storage.
//
// The ledger is write-only from the point of view of a curation run: each
// successful download adds one record and nothing is ever updated or removed.
// Two backends exist: a JSON Lines file (the default) and a SQLite table.
package ledger

import (
	"context"
	"fmt"

	"github.com/pdiddy/codex-curator/pkg/types"
)

// Ledger appends transfer records.
type Ledger interface {
	Append(ctx context.Context, rec types.TransferRecord) error
	Close() error
}

// Open returns the ledger selected by backend, stored at path.
func Open(backend types.LedgerBackend, path string) (Ledger, error) {
	switch backend {
	case types.LedgerJSONL, "":
		return OpenJSONL(path)
	case types.LedgerSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", backend)
	}
}
