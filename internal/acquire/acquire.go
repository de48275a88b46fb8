// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire downloads papers and records each transfer in the ledger.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/codex-curator/internal/httputil"
	"github.com/pdiddy/codex-curator/internal/ledger"
	"github.com/pdiddy/codex-curator/pkg/types"
)

const (
	pdfExt       = ".pdf"
	fallbackName = "paper"
)

// ErrDownload wraps every failure to retrieve or persist a remote file.
var ErrDownload = errors.New("download failed")

// Fetcher downloads a URL into the download directory and appends a
// TransferRecord to the ledger once the file is completely on disk.
type Fetcher struct {
	client *http.Client
	ledger ledger.Ledger
	cfg    types.Config
	w      io.Writer
}

// NewFetcher returns a Fetcher writing progress lines to w.
func NewFetcher(client *http.Client, l ledger.Ledger, cfg types.Config, w io.Writer) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.HTTP.Timeout}
	}
	return &Fetcher{client: client, ledger: l, cfg: cfg.WithDefaults(), w: w}
}

// FileName derives the local file name from rawURL: the last path segment
// with any query or fragment removed, suffixed with ".pdf" unless it already
// ends that way. The suffix is assigned from the URL shape alone; the
// response content type is never consulted.
func FileName(rawURL string) string {
	name := rawURL
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		name = fallbackName
	}
	if !strings.HasSuffix(name, pdfExt) {
		name += pdfExt
	}
	return name
}

// LocalPath returns where rawURL will be stored. The download directory is
// kept as configured (not cleaned), so "./downloaded_papers" yields
// "./downloaded_papers/doc.pdf".
func (f *Fetcher) LocalPath(rawURL string) string {
	dir := f.cfg.DownloadDir
	if strings.HasSuffix(dir, string(filepath.Separator)) || strings.HasSuffix(dir, "/") {
		return dir + FileName(rawURL)
	}
	return dir + string(filepath.Separator) + FileName(rawURL)
}

// Fetch downloads rawURL and returns the local path. No ledger entry is
// written unless the whole body has been persisted.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	logger := zerolog.Ctx(ctx)
	destPath := f.LocalPath(rawURL)

	if err := os.MkdirAll(f.cfg.DownloadDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating directory %s: %w", ErrDownload, f.cfg.DownloadDir, err)
	}

	logger.Debug().Str("url", rawURL).Str("path", destPath).Msg("downloading")

	n, err := f.downloadFile(ctx, rawURL, destPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}

	rec := types.TransferRecord{URL: rawURL, FilePath: destPath}
	if err := f.ledger.Append(ctx, rec); err != nil {
		return "", fmt.Errorf("recording transfer: %w", err)
	}

	logger.Info().Str("path", destPath).Int64("bytes", n).Msg("download complete")
	fmt.Fprintf(f.w, "Downloaded and saved: %s\n", destPath)
	return destPath, nil
}

// downloadFile streams url to destPath through a temporary file in the same
// directory, renamed into place on success. The body is copied in
// ChunkSize pieces so memory stays bounded for any file size.
func (f *Fetcher) downloadFile(ctx context.Context, url, destPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.HTTP.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.HTTP.MaxRetries)
	if err != nil {
		return 0, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".acquire-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Hide ReadFrom so CopyBuffer uses the chunk buffer.
	dst := struct{ io.Writer }{tmpFile}
	n, copyErr := io.CopyBuffer(dst, resp.Body, make([]byte, f.cfg.ChunkSize))
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}
	return n, nil
}
