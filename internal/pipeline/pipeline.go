// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one curation: download the paper, upload it and
// summarize it, strictly in that order. Each stage returns its error to the
// caller; nothing is retried.
package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/codex-curator/internal/logging"
	"github.com/pdiddy/codex-curator/pkg/types"
)

// Fetcher downloads a URL to a local path.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Archiver stores a copy of a downloaded file.
type Archiver interface {
	Archive(ctx context.Context, localPath string) (string, error)
}

// Uploader sends a local file to the analysis service.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (types.RemoteFile, error)
}

// Analyzer summarizes an uploaded file.
type Analyzer interface {
	Analyze(ctx context.Context, file types.RemoteFile) (types.Transcript, error)
}

// Pipeline wires the stages together. Archiver may be nil.
type Pipeline struct {
	Fetcher  Fetcher
	Archiver Archiver
	Uploader Uploader
	Analyzer Analyzer
}

// Run curates the paper at url and returns the transcript of the completed
// analysis. A failed archive copy is logged and does not stop the run.
func (p *Pipeline) Run(ctx context.Context, url string) (types.Transcript, error) {
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("url", url).Msg("curation started")

	path, err := p.fetch(ctx, url)
	if err != nil {
		return types.Transcript{}, err
	}

	if p.Archiver != nil {
		if key, err := p.Archiver.Archive(ctx, path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("archive copy skipped")
		} else {
			logger.Debug().Str("key", key).Msg("archive copy stored")
		}
	}

	file, err := p.upload(ctx, path)
	if err != nil {
		return types.Transcript{}, err
	}

	done := logging.TraceDuration(ctx, "analyze")
	defer done()
	tr, err := p.Analyzer.Analyze(ctx, file)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("analyzing %s: %w", file.ID, err)
	}
	return tr, nil
}

func (p *Pipeline) fetch(ctx context.Context, url string) (string, error) {
	defer logging.TraceDuration(ctx, "fetch")()
	path, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	return path, nil
}

func (p *Pipeline) upload(ctx context.Context, path string) (types.RemoteFile, error) {
	defer logging.TraceDuration(ctx, "upload")()
	file, err := p.Uploader.Upload(ctx, path)
	if err != nil {
		return types.RemoteFile{}, fmt.Errorf("uploading %s: %w", path, err)
	}
	return file, nil
}

// ResolveURL returns args[0] verbatim when present. Otherwise it prompts on
// out, reads one line from in and trims surrounding whitespace.
func ResolveURL(args []string, in io.Reader, out io.Writer) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	fmt.Fprint(out, "> please give me the URL to a paper: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading URL: %w", err)
	}
	url := strings.TrimSpace(line)
	if url == "" {
		return "", fmt.Errorf("no URL given")
	}
	return url, nil
}
