// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/codex-curator/internal/analysis"
	"github.com/pdiddy/codex-curator/internal/analysis/analysistest"
	"github.com/pdiddy/codex-curator/pkg/types"
)

func TestOpenAIService_UploadAndCompletedRun(t *testing.T) {
	srv := analysistest.NewServer(t, analysistest.Script{
		AssistantID: "asst-1",
		Statuses:    []string{"queued", "in_progress", "completed"},
		Messages: []analysistest.Message{
			{Role: "user", Text: types.DefaultPrompt},
			{Role: "assistant", Text: "A short summary."},
		},
	})
	svc := analysis.NewOpenAIService("sk-test", srv.BaseURL(), srv.Client())

	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))

	var out bytes.Buffer
	ctx := context.Background()
	file, err := analysis.NewUploader(svc, &out).Upload(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "file-test", file.ID)
	assert.Equal(t, "assistants", srv.UploadPurpose())

	runner := analysis.NewRunner(svc, types.Config{AssistantID: "asst-1", PollInterval: time.Millisecond}, &out)
	tr, err := runner.Analyze(ctx, file)
	require.NoError(t, err)

	require.Len(t, tr.Messages, 2)
	assert.Equal(t, types.Message{Role: "assistant", Content: "A short summary."}, tr.Messages[1])
	assert.Equal(t, 2, srv.RunRetrievals())
	assert.Equal(t, 1, srv.MessageLists())

	msgs := srv.ThreadBody()["messages"].([]any)
	require.Len(t, msgs, 1)
	msg := msgs[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, types.DefaultPrompt, msg["content"])
	att := msg["attachments"].([]any)[0].(map[string]any)
	assert.Equal(t, "file-test", att["file_id"])
	assert.Equal(t, []any{map[string]any{"type": "code_interpreter"}}, att["tools"])

	assert.Contains(t, out.String(), "Run Status: queued\nRun Status: in_progress\n")
	assert.Contains(t, out.String(), "assistant: A short summary.\n")
}

func TestOpenAIService_FailedRun(t *testing.T) {
	srv := analysistest.NewServer(t, analysistest.Script{
		AssistantID: "asst-1",
		Statuses:    []string{"queued", "failed"},
		ErrorCode:   "rate_limit_exceeded",
		ErrorMsg:    "quota",
	})
	svc := analysis.NewOpenAIService("sk-test", srv.BaseURL(), srv.Client())

	var out bytes.Buffer
	runner := analysis.NewRunner(svc, types.Config{AssistantID: "asst-1", PollInterval: time.Millisecond}, &out)
	_, err := runner.Analyze(context.Background(), types.RemoteFile{ID: "file-test"})

	assert.ErrorIs(t, err, analysis.ErrRunFailed)
	assert.Zero(t, srv.MessageLists())
	assert.Contains(t, out.String(), "error=rate_limit_exceeded: quota")
}

func TestOpenAIService_UnknownAssistant(t *testing.T) {
	srv := analysistest.NewServer(t, analysistest.Script{AssistantID: "asst-1"})
	svc := analysis.NewOpenAIService("sk-test", srv.BaseURL(), srv.Client())

	runner := analysis.NewRunner(svc, types.Config{AssistantID: "asst-missing"}, &bytes.Buffer{})
	_, err := runner.Analyze(context.Background(), types.RemoteFile{ID: "file-test"})
	assert.ErrorIs(t, err, analysis.ErrAnalysis)
}
