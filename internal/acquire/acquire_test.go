// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/codex-curator/internal/ledger"
	"github.com/pdiddy/codex-curator/pkg/types"
)

const fakePDFContent = "%PDF-1.4 fake"

func TestFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no extension", "https://example.org/p/doc", "doc.pdf"},
		{"pdf extension kept", "https://example.com/paper.pdf", "paper.pdf"},
		{"query stripped", "https://host/paper?x=1", "paper.pdf"},
		{"query stripped pdf", "https://host/paper.pdf?download=true&x=1", "paper.pdf"},
		{"fragment stripped", "https://host/paper.pdf#page=2", "paper.pdf"},
		{"other extension suffixed", "https://arxiv.org/abs/2301.07041", "2301.07041.pdf"},
		{"html suffixed", "https://host/index.html", "index.html.pdf"},
		{"trailing slash", "https://example.com/", "paper.pdf"},
		{"bare name", "doc", "doc.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.input))
		})
	}
}

func TestLocalPath_KeepsDirectoryAsConfigured(t *testing.T) {
	f := NewFetcher(nil, nil, types.Config{DownloadDir: "./downloaded_papers"}, &bytes.Buffer{})
	assert.Equal(t, "./downloaded_papers"+string(filepath.Separator)+"doc.pdf", f.LocalPath("https://example.org/p/doc"))

	f = NewFetcher(nil, nil, types.Config{DownloadDir: "papers/"}, &bytes.Buffer{})
	assert.Equal(t, "papers/doc.pdf", f.LocalPath("https://example.org/p/doc?v=2"))
}

// newTestServer serves a fake PDF under /p/ and /pdf/ and 404 elsewhere.
// It stores the last User-Agent header seen in gotUA when non-nil.
func newTestServer(t *testing.T, gotUA *atomic.Value) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotUA != nil {
			gotUA.Store(r.Header.Get("User-Agent"))
		}
		switch {
		case strings.HasPrefix(r.URL.Path, "/p/"), strings.HasPrefix(r.URL.Path, "/pdf/"):
			w.Header().Set("Content-Type", "application/pdf")
			fmt.Fprint(w, fakePDFContent)
		default:
			http.NotFound(w, r)
		}
	}))
}

func newFetcher(t *testing.T, ts *httptest.Server) (*Fetcher, string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "papers.jsonl")
	l, err := ledger.OpenJSONL(ledgerPath)
	require.NoError(t, err)

	cfg := types.Config{
		DownloadDir: filepath.Join(dir, "downloaded_papers"),
		ChunkSize:   4,
	}
	var out bytes.Buffer
	return NewFetcher(ts.Client(), l, cfg, &out), ledgerPath, &out
}

func ledgerLines(t *testing.T, path string) []types.TransferRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var recs []types.TransferRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var raw map[string]string
		require.NoError(t, json.Unmarshal(sc.Bytes(), &raw))
		require.Len(t, raw, 2)
		recs = append(recs, types.TransferRecord{URL: raw["url"], FilePath: raw["file_path"]})
	}
	return recs
}

func TestFetch_DownloadsAndRecords(t *testing.T) {
	var ua atomic.Value
	ts := newTestServer(t, &ua)
	defer ts.Close()

	f, ledgerPath, out := newFetcher(t, ts)
	url := ts.URL + "/p/doc?x=1"

	path, err := f.Fetch(context.Background(), url)
	require.NoError(t, err)

	assert.Equal(t, "doc.pdf", filepath.Base(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fakePDFContent, string(data))
	assert.Equal(t, types.DefaultUserAgent, ua.Load())
	assert.Contains(t, out.String(), "Downloaded and saved: "+path)

	recs := ledgerLines(t, ledgerPath)
	require.Len(t, recs, 1)
	assert.Equal(t, types.TransferRecord{URL: url, FilePath: path}, recs[0])
}

func TestFetch_NoTempFilesLeftBehind(t *testing.T) {
	ts := newTestServer(t, nil)
	defer ts.Close()

	f, _, _ := newFetcher(t, ts)
	path, err := f.Fetch(context.Background(), ts.URL+"/pdf/paper.pdf")
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "paper.pdf", entries[0].Name())
}

func TestFetch_HTTPErrorWritesNoLedgerEntry(t *testing.T) {
	ts := newTestServer(t, nil)
	defer ts.Close()

	f, ledgerPath, out := newFetcher(t, ts)
	_, err := f.Fetch(context.Background(), ts.URL+"/missing/doc")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownload)
	assert.Contains(t, err.Error(), "HTTP 404")

	assert.Empty(t, ledgerLines(t, ledgerPath))
	assert.Empty(t, out.String())
}

func TestFetch_NetworkErrorWritesNoLedgerEntry(t *testing.T) {
	ts := newTestServer(t, nil)
	f, ledgerPath, _ := newFetcher(t, ts)
	url := ts.URL + "/p/doc"
	ts.Close()

	_, err := f.Fetch(context.Background(), url)
	assert.ErrorIs(t, err, ErrDownload)
	assert.Empty(t, ledgerLines(t, ledgerPath))
}

func TestFetch_CancelledContext(t *testing.T) {
	ts := newTestServer(t, nil)
	defer ts.Close()

	f, ledgerPath, _ := newFetcher(t, ts)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, ts.URL+"/p/doc")
	assert.ErrorIs(t, err, ErrDownload)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ledgerLines(t, ledgerPath))
}
