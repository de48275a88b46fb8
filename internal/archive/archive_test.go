// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/codex-curator/pkg/types"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "papers/doc.pdf", ObjectKey("./downloaded_papers/doc.pdf"))
	assert.Equal(t, "papers/2301.07041.pdf", ObjectKey("2301.07041.pdf"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType("a/doc.pdf"))
	assert.Equal(t, "application/pdf", ContentType("a/DOC.PDF"))
	assert.Equal(t, "application/octet-stream", ContentType("a/doc.bin"))
}

func TestNew(t *testing.T) {
	_, err := New(types.ArchiveConfig{})
	assert.Error(t, err)

	_, err = New(types.ArchiveConfig{Endpoint: "localhost:9000"})
	assert.Error(t, err)

	s, err := New(types.ArchiveConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "papers",
	})
	require.NoError(t, err)
	assert.Equal(t, "papers", s.bucket)
	assert.False(t, s.checked)
}
