// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/pdiddy/codex-curator/internal/acquire"
	"github.com/pdiddy/codex-curator/internal/analysis"
	"github.com/pdiddy/codex-curator/internal/archive"
	"github.com/pdiddy/codex-curator/internal/ledger"
	"github.com/pdiddy/codex-curator/pkg/types"
)

// ErrMissingAPIKey is returned when no credential for the analysis service
// was configured.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY not set in the environment; export it or add it to .secrets/openai-api-key")

// New wires every stage from cfg. downloadClient is used for paper
// downloads and may be nil; apiClient is used for the analysis service and
// may be nil. Progress and the transcript go to w. The returned close
// function releases the ledger.
func New(cfg types.Config, downloadClient, apiClient *http.Client, w io.Writer) (*Pipeline, func() error, error) {
	cfg = cfg.WithDefaults()
	if cfg.APIKey == "" {
		return nil, nil, ErrMissingAPIKey
	}

	if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating download directory: %w", err)
	}
	l, err := ledger.Open(cfg.LedgerBackend, cfg.LedgerPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening ledger: %w", err)
	}

	svc := analysis.NewOpenAIService(cfg.APIKey, cfg.BaseURL, apiClient)
	p := &Pipeline{
		Fetcher:  acquire.NewFetcher(downloadClient, l, cfg, w),
		Uploader: analysis.NewUploader(svc, w),
		Analyzer: analysis.NewRunner(svc, cfg, w),
	}

	if cfg.Archive.Enabled() {
		store, err := archive.New(cfg.Archive)
		if err != nil {
			l.Close()
			return nil, nil, err
		}
		p.Archiver = store
	}

	return p, l.Close, nil
}
