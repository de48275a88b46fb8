// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis uploads papers to the document-analysis service and runs
// the summarization job against a fixed assistant.
//
// The flow is: retrieve the assistant, open a thread holding one user message
// with the uploaded file attached, start a run, poll the run to a terminal
// status and, on completion, read the thread's messages back.
package analysis

import (
	"context"
	"errors"

	"github.com/pdiddy/codex-curator/pkg/types"
)

var (
	// ErrUpload wraps failures to transmit a file to the service.
	ErrUpload = errors.New("upload failed")

	// ErrAnalysis wraps service errors raised while running the analysis.
	ErrAnalysis = errors.New("analysis failed")

	// ErrRunFailed reports a run that ended in a failure status.
	ErrRunFailed = errors.New("run failed")

	// ErrPollTimeout reports a run that did not finish within the poll bounds.
	ErrPollTimeout = errors.New("polling timed out")
)

// CodeInterpreter is the tool attached to the uploaded document so the
// assistant can read it.
const CodeInterpreter = "code_interpreter"

// Assistant is the analysis profile a run executes against.
type Assistant struct {
	ID    string
	Name  string
	Model string
}

// ThreadRequest describes the single-message thread opened for a run.
type ThreadRequest struct {
	Prompt   string
	FileID   string
	Tools    []string
	Metadata map[string]any
}

// Thread is the server-side conversation context.
type Thread struct {
	ID string
}

// Service is the part of the analysis API the uploader and runner use.
type Service interface {
	UploadFile(ctx context.Context, path string) (types.RemoteFile, error)
	RetrieveAssistant(ctx context.Context, assistantID string) (Assistant, error)
	CreateThread(ctx context.Context, req ThreadRequest) (Thread, error)
	CreateRun(ctx context.Context, threadID, assistantID string) (types.Run, error)
	RetrieveRun(ctx context.Context, threadID, runID string) (types.Run, error)
	// ListMessages returns the thread's messages oldest first.
	ListMessages(ctx context.Context, threadID string) ([]types.Message, error)
}
