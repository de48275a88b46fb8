// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/pdiddy/codex-curator/pkg/types"
)

// Uploader transmits downloaded papers to the analysis service.
type Uploader struct {
	svc Service
	w   io.Writer
}

// NewUploader returns an Uploader writing progress lines to w.
func NewUploader(svc Service, w io.Writer) *Uploader {
	return &Uploader{svc: svc, w: w}
}

// Upload sends the file at path in full and returns the service handle.
// Failures are not retried.
func (u *Uploader) Upload(ctx context.Context, path string) (types.RemoteFile, error) {
	if _, err := os.Stat(path); err != nil {
		return types.RemoteFile{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	f, err := u.svc.UploadFile(ctx, path)
	if err != nil {
		return types.RemoteFile{}, fmt.Errorf("%w: %s: %w", ErrUpload, path, err)
	}

	zerolog.Ctx(ctx).Info().Str("file_id", f.ID).Int("bytes", f.Bytes).Msg("upload complete")
	fmt.Fprintf(u.w, "Uploaded: %s (%s, %d bytes, purpose %s)\n", f.ID, f.FileName, f.Bytes, f.Purpose)
	return f, nil
}
